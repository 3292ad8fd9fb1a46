package extract

import (
	"strconv"

	"github.com/perankh/perankh/internal/savexml"
)

// TimeseriesSet bundles every per-turn history a save carries: the
// player-nested scalar and per-type histories plus the game-level
// market prices.
type TimeseriesSet struct {
	Military         []HistoryPoint
	Points           []HistoryPoint
	Legitimacy       []HistoryPoint
	YieldRates       []YieldHistoryPoint
	FamilyOpinions   []OpinionHistoryPoint
	ReligionOpinions []OpinionHistoryPoint
	YieldPrices      []YieldPriceRow
}

// Timeseries extracts the sparse turn histories. Histories are stored
// as map containers whose entries are <T42>value</T42> elements; only
// turns where the value changed appear.
func Timeseries(doc *savexml.Document) (*TimeseriesSet, error) {
	set := &TimeseriesSet{}

	for _, player := range doc.Root().Children("Player") {
		id, err := player.ReqAttrInt("ID")
		if err != nil {
			return nil, err
		}
		if set.Military, err = appendHistory(set.Military, player, "MilitaryPowerHistory", id); err != nil {
			return nil, err
		}
		if set.Points, err = appendHistory(set.Points, player, "PointsHistory", id); err != nil {
			return nil, err
		}
		if set.Legitimacy, err = appendHistory(set.Legitimacy, player, "LegitimacyHistory", id); err != nil {
			return nil, err
		}
		if err := set.yieldRates(player, id); err != nil {
			return nil, err
		}
		if err := set.opinions(player, id); err != nil {
			return nil, err
		}
	}

	if err := set.yieldPrices(doc); err != nil {
		return nil, err
	}
	return set, nil
}

func appendHistory(points []HistoryPoint, player savexml.Node, tag string, id int) ([]HistoryPoint, error) {
	container, ok := player.Child(tag)
	if !ok {
		return points, nil
	}
	samples, err := turnSamples(container)
	if err != nil {
		return nil, err
	}
	for _, s := range samples {
		points = append(points, HistoryPoint{PlayerXMLID: id, Turn: s.turn, Value: s.value})
	}
	return points, nil
}

// yieldRates reads YieldRateHistory, which nests one container per
// yield type over the turn entries.
func (set *TimeseriesSet) yieldRates(player savexml.Node, id int) error {
	history, ok := player.Child("YieldRateHistory")
	if !ok {
		return nil
	}
	for _, series := range history.Elements() {
		samples, err := turnSamples(series)
		if err != nil {
			return err
		}
		for _, s := range samples {
			set.YieldRates = append(set.YieldRates, YieldHistoryPoint{
				PlayerXMLID: id,
				Yield:       series.Tag(),
				Turn:        s.turn,
				Amount:      s.value,
			})
		}
	}
	return nil
}

// opinions reads FamilyOpinionHistory and ReligionOpinionHistory. Both
// nest one container per subject name; the name is the identity here,
// not a document ID.
func (set *TimeseriesSet) opinions(player savexml.Node, id int) error {
	if history, ok := player.Child("FamilyOpinionHistory"); ok {
		points, err := opinionPoints(history, id)
		if err != nil {
			return err
		}
		set.FamilyOpinions = append(set.FamilyOpinions, points...)
	}
	if history, ok := player.Child("ReligionOpinionHistory"); ok {
		points, err := opinionPoints(history, id)
		if err != nil {
			return err
		}
		set.ReligionOpinions = append(set.ReligionOpinions, points...)
	}
	return nil
}

func opinionPoints(history savexml.Node, id int) ([]OpinionHistoryPoint, error) {
	var points []OpinionHistoryPoint
	for _, subject := range history.Elements() {
		samples, err := turnSamples(subject)
		if err != nil {
			return nil, err
		}
		for _, s := range samples {
			points = append(points, OpinionHistoryPoint{
				PlayerXMLID: id,
				Name:        subject.Tag(),
				Turn:        s.turn,
				Opinion:     s.value,
			})
		}
	}
	return points, nil
}

func (set *TimeseriesSet) yieldPrices(doc *savexml.Document) error {
	game, ok := doc.Root().Child("Game")
	if !ok {
		return nil
	}
	history, ok := game.Child("YieldPriceHistory")
	if !ok {
		return nil
	}
	for _, series := range history.Elements() {
		samples, err := turnSamples(series)
		if err != nil {
			return err
		}
		for _, s := range samples {
			set.YieldPrices = append(set.YieldPrices, YieldPriceRow{
				Yield: series.Tag(),
				Turn:  s.turn,
				Price: s.value,
			})
		}
	}
	return nil
}

type turnSample struct {
	turn  int
	value int
}

// turnSamples reads one sparse history container. Entries whose tag is
// not a T-prefixed turn number are skipped; an entry with a
// non-integer value is a document error.
func turnSamples(container savexml.Node) ([]turnSample, error) {
	var samples []turnSample
	for _, entry := range container.Elements() {
		turn, ok := turnTag(entry.Tag())
		if !ok {
			continue
		}
		value, err := intText(entry)
		if err != nil {
			return nil, err
		}
		samples = append(samples, turnSample{turn: turn, value: value})
	}
	return samples, nil
}

func turnTag(tag string) (int, bool) {
	if len(tag) < 2 || tag[0] != 'T' {
		return 0, false
	}
	turn, err := strconv.Atoi(tag[1:])
	if err != nil {
		return 0, false
	}
	return turn, true
}
