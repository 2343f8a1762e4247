package poll

import (
	"slices"
	"sort"
)

// BestDatesCount is how many top-ranked dates are shown as best dates.
const BestDatesCount = 3

// RankedDate is a candidate date with its tally and score.
type RankedDate struct {
	Date  CandidateDate `json:"date"`
	Tally Tally         `json:"tally"`
	Score int           `json:"score"`
}

// Rank orders dates by descending score. Dates with equal scores keep their
// input order. Dates missing from tallies score zero.
func Rank(dates []CandidateDate, tallies map[string]Tally) []RankedDate {
	ranked := make([]RankedDate, 0, len(dates))
	for _, d := range dates {
		t := tallies[d.ID]
		ranked = append(ranked, RankedDate{Date: d, Tally: t, Score: t.Score()})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

// BestDates returns the first BestDatesCount entries of a ranking.
func BestDates(ranked []RankedDate) []RankedDate {
	if len(ranked) > BestDatesCount {
		return ranked[:BestDatesCount]
	}
	return ranked
}

// BestDateFor returns the date with the most yes answers among the dates on
// which every required response answered yes. On a tie the earlier date in
// dates wins. It reports false when required is empty, when no date
// qualifies, or when a required id is not among responses.
func BestDateFor(dates []CandidateDate, responses []Response, tallies map[string]Tally, required RequiredSet) (string, bool) {
	if required.Len() == 0 {
		return "", false
	}

	must := make([]Response, 0, required.Len())
	for _, id := range required.IDs() {
		i := slices.IndexFunc(responses, func(r Response) bool { return r.ID == id })
		if i < 0 {
			return "", false
		}
		must = append(must, responses[i])
	}

	best, maxYes := "", -1
	for _, d := range dates {
		ok := true
		for _, r := range must {
			if r.StatusFor(d.ID) != Yes {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}
		if t := tallies[d.ID]; t.Yes > maxYes {
			best, maxYes = d.ID, t.Yes
		}
	}

	return best, maxYes >= 0
}
