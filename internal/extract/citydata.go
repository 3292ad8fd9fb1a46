package extract

import (
	"fmt"

	"github.com/perankh/perankh/internal/savexml"
)

// CityBuildSet bundles the build data nested under each <City>: the
// pending queue and the aggregated counts of everything already built.
type CityBuildSet struct {
	Queue     []CityQueueRow
	Completed []CityProjectRow
}

// CityBuilds extracts BuildQueue and CompletedBuild for every city.
func CityBuilds(doc *savexml.Document) (*CityBuildSet, error) {
	set := &CityBuildSet{}

	for _, node := range doc.Root().Children("City") {
		id, err := node.ReqAttrInt("ID")
		if err != nil {
			return nil, err
		}
		if err := set.queue(node, id); err != nil {
			return nil, err
		}
		set.completed(node, id)
	}

	return set, nil
}

func (set *CityBuildSet) queue(city savexml.Node, id int) error {
	queue, ok := city.Child("BuildQueue")
	if !ok {
		return nil
	}
	position := 0
	for _, info := range queue.Children("QueueInfo") {
		item, err := info.ReqChildText("Build")
		if err != nil {
			return err
		}
		buildType, err := info.ReqChildText("Type")
		if err != nil {
			return err
		}
		set.Queue = append(set.Queue, CityQueueRow{
			CityXMLID: id,
			Position:  position,
			BuildType: buildType,
			Item:      item,
			Progress:  info.OptChildInt("Progress", 0),
			IsRepeat:  info.OptChildBool("IsRepeat", false),
		})
		position++
	}
	return nil
}

// completed aggregates CompletedBuild entries to per-kind counts keyed
// "TYPE.ITEM". Entries missing either part still count, under UNKNOWN.
func (set *CityBuildSet) completed(city savexml.Node, id int) {
	container, ok := city.Child("CompletedBuild")
	if !ok {
		return
	}
	index := make(map[string]int)
	for _, info := range container.Children("QueueInfo") {
		buildType := "UNKNOWN"
		if s := info.OptChildString("Type"); s != nil {
			buildType = *s
		}
		item := "UNKNOWN"
		if s := info.OptChildString("Build"); s != nil {
			item = *s
		}
		project := fmt.Sprintf("%s.%s", buildType, item)
		if i, ok := index[project]; ok {
			set.Completed[i].Count++
			continue
		}
		index[project] = len(set.Completed)
		set.Completed = append(set.Completed, CityProjectRow{
			CityXMLID: id,
			Project:   project,
			Count:     1,
		})
	}
}
