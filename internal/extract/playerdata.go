package extract

import (
	"github.com/ohler55/ojg/oj"

	"github.com/perankh/perankh/internal/savexml"
)

// PlayerGameplaySet bundles the gameplay containers nested under each
// <Player>: stockpiles, research, council seats, laws, and ambitions.
type PlayerGameplaySet struct {
	Resources     []PlayerResourceRow
	TechProgress  []TechProgressRow
	TechCompleted []TechCompletedRow
	TechStates    []TechStateRow
	Council       []CouncilRow
	Laws          []LawRow
	Goals         []PlayerGoalRow
}

// techStateContainers maps each research-queue container tag to the
// state its entries record.
var techStateContainers = []struct {
	tag   string
	state string
}{
	{"TechAvailable", "available"},
	{"TechPassed", "passed"},
	{"TechTrashed", "trashed"},
	{"TechLocked", "locked"},
	{"TechTarget", "targeted"},
}

// PlayerGameplay extracts every player-nested gameplay container in one
// walk over the <Player> elements.
func PlayerGameplay(doc *savexml.Document) (*PlayerGameplaySet, error) {
	set := &PlayerGameplaySet{}

	for _, player := range doc.Root().Children("Player") {
		id, err := player.ReqAttrInt("ID")
		if err != nil {
			return nil, err
		}
		if err := set.resources(player, id); err != nil {
			return nil, err
		}
		if err := set.research(player, id); err != nil {
			return nil, err
		}
		if err := set.council(player, id); err != nil {
			return nil, err
		}
		if err := set.laws(player, id); err != nil {
			return nil, err
		}
		if err := set.goals(player, id); err != nil {
			return nil, err
		}
	}

	return set, nil
}

func (set *PlayerGameplaySet) resources(player savexml.Node, id int) error {
	stockpile, ok := player.Child("YieldStockpile")
	if !ok {
		return nil
	}
	for _, entry := range stockpile.Elements() {
		amount, err := intText(entry)
		if err != nil {
			return err
		}
		set.Resources = append(set.Resources, PlayerResourceRow{
			PlayerXMLID: id,
			Yield:       entry.Tag(),
			Amount:      amount,
		})
	}
	return nil
}

// research reads TechProgress, TechCount, and the five state containers.
// A TechCount entry counts as completed only when its count is positive.
func (set *PlayerGameplaySet) research(player savexml.Node, id int) error {
	if progress, ok := player.Child("TechProgress"); ok {
		for _, entry := range progress.Elements() {
			v, err := intText(entry)
			if err != nil {
				return err
			}
			set.TechProgress = append(set.TechProgress, TechProgressRow{
				PlayerXMLID: id,
				Tech:        entry.Tag(),
				Progress:    v,
			})
		}
	}

	if counts, ok := player.Child("TechCount"); ok {
		for _, entry := range counts.Elements() {
			v, err := intText(entry)
			if err != nil {
				return err
			}
			if v <= 0 {
				continue
			}
			set.TechCompleted = append(set.TechCompleted, TechCompletedRow{
				PlayerXMLID: id,
				Tech:        entry.Tag(),
			})
		}
	}

	for _, container := range techStateContainers {
		node, ok := player.Child(container.tag)
		if !ok {
			continue
		}
		for _, entry := range node.Elements() {
			set.TechStates = append(set.TechStates, TechStateRow{
				PlayerXMLID: id,
				Tech:        entry.Tag(),
				State:       container.state,
			})
		}
	}
	return nil
}

func (set *PlayerGameplaySet) council(player savexml.Node, id int) error {
	council, ok := player.Child("CouncilCharacter")
	if !ok {
		return nil
	}
	for _, entry := range council.Elements() {
		characterID, err := intText(entry)
		if err != nil {
			return err
		}
		set.Council = append(set.Council, CouncilRow{
			PlayerXMLID:    id,
			Seat:           entry.Tag(),
			CharacterXMLID: characterID,
		})
	}
	return nil
}

// laws reads the ActiveLaw map container: the entry tag is the law-class
// slot, the text is the law filling it.
func (set *PlayerGameplaySet) laws(player savexml.Node, id int) error {
	active, ok := player.Child("ActiveLaw")
	if !ok {
		return nil
	}
	for _, entry := range active.Elements() {
		law, err := reqText(entry)
		if err != nil {
			return err
		}
		set.Laws = append(set.Laws, LawRow{
			PlayerXMLID: id,
			LawClass:    entry.Tag(),
			Law:         law,
		})
	}
	return nil
}

func (set *PlayerGameplaySet) goals(player savexml.Node, id int) error {
	list, ok := player.Child("GoalList")
	if !ok {
		return nil
	}
	for _, data := range list.Children("GoalData") {
		goalType, err := data.ReqChildText("Type")
		if err != nil {
			return err
		}
		xmlID, err := data.ReqChildInt("ID")
		if err != nil {
			return err
		}
		started, err := data.ReqChildInt("Turn")
		if err != nil {
			return err
		}

		set.Goals = append(set.Goals, PlayerGoalRow{
			PlayerXMLID:          id,
			XMLID:                xmlID,
			Type:                 goalType,
			LeaderCharacterXMLID: refChild(data, "LeaderID"),
			StartedTurn:          started,
			Finished:             data.HasChild("Finished"),
			MaxTurns:             data.OptChildIntPtr("MaxTurns"),
			StatsJSON:            goalStats(data),
		})
	}
	return nil
}

// goalStats flattens a goal's <Stats> counters into a JSON object so the
// raw progress numbers survive without a table per stat name.
func goalStats(data savexml.Node) *string {
	node, ok := data.Child("Stats")
	if !ok {
		return nil
	}
	stats := make(map[string]string)
	for _, entry := range node.Elements() {
		stats[entry.Tag()] = entry.Text()
	}
	if len(stats) == 0 {
		return nil
	}
	s := oj.JSON(stats, &oj.Options{Sort: true})
	return &s
}
