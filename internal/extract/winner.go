package extract

import (
	"github.com/perankh/perankh/internal/savexml"
)

// GameWinner reads the end-of-game outcome from <Game>. Ongoing games
// carry neither element; both fields stay nil.
func GameWinner(doc *savexml.Document) Winner {
	game, ok := doc.Root().Child("Game")
	if !ok {
		return Winner{}
	}

	var w Winner
	if team := game.OptChildIntPtr("WinningTeam"); team != nil && *team >= 0 {
		w.WinningTeam = team
	}
	w.VictoryType = game.OptChildString("Victory")
	return w
}
