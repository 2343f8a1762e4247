package poll

// Tally counts the answers of each status for one candidate date.
type Tally struct {
	Yes   int `json:"yes"`
	Maybe int `json:"maybe"`
	No    int `json:"no"`
}

// Total is the number of responses counted for the date.
func (t Tally) Total() int {
	return t.Yes + t.Maybe + t.No
}

// Score weights a yes twice as much as a maybe.
func (t Tally) Score() int {
	return 2*t.Yes + t.Maybe
}

func (t *Tally) add(s Status) {
	switch s {
	case Yes:
		t.Yes++
	case Maybe:
		t.Maybe++
	default:
		t.No++
	}
}

// Aggregate tallies responses per candidate date. Every date gets an entry,
// even with no responses. Answers for dates that are not in dates are
// ignored, and a response without an answer for a date counts as No there,
// so each tally's Total equals len(responses).
func Aggregate(dates []CandidateDate, responses []Response) map[string]Tally {
	tallies := make(map[string]Tally, len(dates))
	for _, d := range dates {
		tallies[d.ID] = Tally{}
	}

	for _, r := range responses {
		statuses := make(map[string]Status, len(r.Answers))
		for _, a := range r.Answers {
			if _, ok := statuses[a.EventDateID]; !ok {
				statuses[a.EventDateID] = a.Status
			}
		}
		for _, d := range dates {
			t := tallies[d.ID]
			t.add(statuses[d.ID])
			tallies[d.ID] = t
		}
	}

	return tallies
}
