package extract

import (
	"github.com/perankh/perankh/internal/savexml"
)

// EventSet bundles the narrative record of a save: event-story
// occurrences, the permanent log, and remembered deeds.
type EventSet struct {
	Stories  []StoryEventRow
	Logs     []EventLogRow
	Memories []MemoryRow
}

// playerStoryContainers are the per-player event-story maps. Each entry
// is tagged with the event type and holds the turn it fired.
var playerStoryContainers = []string{
	"AllEventStoryTurn",
	"FamilyEventStoryTurn",
	"ReligionEventStoryTurn",
	"TribeEventStoryTurn",
	"PlayerEventStoryTurn",
}

// Events extracts the story, log, and memory containers.
func Events(doc *savexml.Document) (*EventSet, error) {
	set := &EventSet{}
	root := doc.Root()

	for _, player := range root.Children("Player") {
		id, err := player.ReqAttrInt("ID")
		if err != nil {
			return nil, err
		}
		if err := set.playerStories(player, id); err != nil {
			return nil, err
		}
		if err := set.logs(player, id); err != nil {
			return nil, err
		}
		if err := set.memories(player, id); err != nil {
			return nil, err
		}
	}

	for _, node := range root.Children("Character") {
		if err := set.entityStories(node, func(r *StoryEventRow, id int) {
			r.CharacterXMLID = &id
		}); err != nil {
			return nil, err
		}
	}
	for _, node := range root.Children("City") {
		if err := set.entityStories(node, func(r *StoryEventRow, id int) {
			r.CityXMLID = &id
		}); err != nil {
			return nil, err
		}
	}

	return set, nil
}

func (set *EventSet) playerStories(player savexml.Node, id int) error {
	for _, tag := range playerStoryContainers {
		container, ok := player.Child(tag)
		if !ok {
			continue
		}
		for _, entry := range container.Elements() {
			turn, err := intText(entry)
			if err != nil {
				return err
			}
			set.Stories = append(set.Stories, StoryEventRow{
				EventType:   entry.Tag(),
				Turn:        turn,
				PlayerXMLID: id,
			})
		}
	}
	return nil
}

// entityStories reads the EventStoryTurn container of a character or
// city. An element without a Player attribute belongs to nobody and is
// skipped; a turn that fails to parse counts as turn zero.
func (set *EventSet) entityStories(node savexml.Node, attach func(*StoryEventRow, int)) error {
	id, err := node.ReqAttrInt("ID")
	if err != nil {
		return err
	}
	player, ok := node.OptAttrInt("Player")
	if !ok || player < 0 {
		return nil
	}
	container, ok := node.Child("EventStoryTurn")
	if !ok {
		return nil
	}
	for _, entry := range container.Elements() {
		turn := 0
		if v, err := intText(entry); err == nil {
			turn = v
		}
		row := StoryEventRow{
			EventType:   entry.Tag(),
			Turn:        turn,
			PlayerXMLID: player,
		}
		attach(&row, id)
		set.Stories = append(set.Stories, row)
	}
	return nil
}

// logs reads PermanentLogList. The Data columns drop the "None" filler
// the game writes for unused slots.
func (set *EventSet) logs(player savexml.Node, id int) error {
	list, ok := player.Child("PermanentLogList")
	if !ok {
		return nil
	}
	for _, data := range list.Children("LogData") {
		logType, err := data.ReqChildText("Type")
		if err != nil {
			return err
		}
		set.Logs = append(set.Logs, EventLogRow{
			PlayerXMLID: id,
			LogType:     logType,
			Turn:        data.OptChildInt("Turn", 0),
			Text:        data.OptChildString("Text"),
			Data1:       logDatum(data, "Data1"),
			Data2:       logDatum(data, "Data2"),
			Data3:       logDatum(data, "Data3"),
		})
	}
	return nil
}

func logDatum(data savexml.Node, tag string) *string {
	s := data.OptChildString(tag)
	if s == nil || *s == "None" {
		return nil
	}
	return s
}

// memories reads MemoryList. An entry without a Type records nothing
// and is skipped; targets are whichever of the five reference children
// are present.
func (set *EventSet) memories(player savexml.Node, id int) error {
	list, ok := player.Child("MemoryList")
	if !ok {
		return nil
	}
	for _, data := range list.Children("MemoryData") {
		memoryType := data.OptChildString("Type")
		if memoryType == nil {
			continue
		}
		set.Memories = append(set.Memories, MemoryRow{
			PlayerXMLID:          id,
			MemoryType:           *memoryType,
			Turn:                 data.OptChildIntPtr("Turn"),
			TargetPlayerXMLID:    refChild(data, "Player"),
			TargetCharacterXMLID: refChild(data, "CharacterID"),
			TargetFamily:         data.OptChildString("Family"),
			TargetTribe:          data.OptChildString("Tribe"),
			TargetReligion:       data.OptChildString("Religion"),
		})
	}
	return nil
}
