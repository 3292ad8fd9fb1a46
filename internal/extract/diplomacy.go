package extract

import (
	"strings"

	"go.uber.org/zap"

	"github.com/perankh/perankh/internal/oldworld"
	"github.com/perankh/perankh/internal/savexml"
)

// Diplomacy extracts relations from the two containers under <Game>:
//
//	TribeDiplomacy: <TRIBE_REBELS.0>DIPLOMACY_WAR</...>  tribe vs player
//	TeamDiplomacy:  <T.0.1>DIPLOMACY_WAR</...>           player vs player
//
// Malformed keys are logged and skipped; a missing relation text is an
// error because the row would be meaningless without it.
func Diplomacy(doc *savexml.Document) ([]DiplomacyRow, error) {
	game, ok := doc.Root().Child("Game")
	if !ok {
		return nil, nil
	}

	var relations []DiplomacyRow

	if tribal, ok := game.Child("TribeDiplomacy"); ok {
		for _, entry := range tribal.Elements() {
			key := entry.Tag()
			relation := entry.Text()
			if relation == "" {
				return nil, &oldworld.MissingElementError{Path: entry.Path()}
			}

			// Tribe names contain no dots, so split on the last one.
			idx := strings.LastIndexByte(key, '.')
			if idx <= 0 || idx == len(key)-1 {
				zap.L().Warn("invalid TribeDiplomacy key", zap.String("key", key))
				continue
			}

			relations = append(relations, DiplomacyRow{
				Entity1Type: "tribe",
				Entity1ID:   key[:idx],
				Entity2Type: "player",
				Entity2ID:   key[idx+1:],
				Relation:    relation,
			})
		}
	}

	if teams, ok := game.Child("TeamDiplomacy"); ok {
		for _, entry := range teams.Elements() {
			key := entry.Tag()
			relation := entry.Text()
			if relation == "" {
				return nil, &oldworld.MissingElementError{Path: entry.Path()}
			}

			parts := strings.Split(key, ".")
			if len(parts) != 3 || parts[0] != "T" {
				zap.L().Warn("invalid TeamDiplomacy key", zap.String("key", key))
				continue
			}

			relations = append(relations, DiplomacyRow{
				Entity1Type: "player",
				Entity1ID:   parts[1],
				Entity2Type: "player",
				Entity2ID:   parts[2],
				Relation:    relation,
			})
		}
	}

	return relations, nil
}
