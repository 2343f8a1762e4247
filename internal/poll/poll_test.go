package poll

import (
	"reflect"
	"testing"
)

func dates(ids ...string) []CandidateDate {
	out := make([]CandidateDate, 0, len(ids))
	for i, id := range ids {
		out = append(out, CandidateDate{
			ID:       id,
			EventID:  "ev",
			Date:     "2026-11-0" + string(rune('1'+i)),
			TimeSlot: AllDay(),
		})
	}
	return out
}

func response(id string, answers map[string]Status) Response {
	r := Response{ID: id, EventID: "ev", Name: id}
	for _, d := range []string{"A", "B", "C", "D"} {
		if s, ok := answers[d]; ok {
			r.Answers = append(r.Answers, Answer{EventDateID: d, Status: s})
		}
	}
	return r
}

// scenarioResponses is X={A:yes,B:no}, Y={A:maybe,B:yes}.
func scenarioResponses() []Response {
	return []Response{
		response("X", map[string]Status{"A": Yes, "B": No}),
		response("Y", map[string]Status{"A": Maybe, "B": Yes}),
	}
}

func rankedIDs(ranked []RankedDate) []string {
	ids := make([]string, 0, len(ranked))
	for _, r := range ranked {
		ids = append(ids, r.Date.ID)
	}
	return ids
}

func TestAggregate(t *testing.T) {
	tests := []struct {
		name      string
		dates     []CandidateDate
		responses []Response
		expected  map[string]Tally
	}{
		{
			name:      "No dates",
			dates:     nil,
			responses: scenarioResponses(),
			expected:  map[string]Tally{},
		},
		{
			name:      "No responses",
			dates:     dates("A", "B"),
			responses: nil,
			expected:  map[string]Tally{"A": {}, "B": {}},
		},
		{
			name:      "Two responses",
			dates:     dates("A", "B"),
			responses: scenarioResponses(),
			expected: map[string]Tally{
				"A": {Yes: 1, Maybe: 1},
				"B": {Yes: 1, No: 1},
			},
		},
		{
			name:      "Answers for a removed date are ignored",
			dates:     dates("A"),
			responses: scenarioResponses(),
			expected:  map[string]Tally{"A": {Yes: 1, Maybe: 1}},
		},
		{
			name:  "Missing answers count as no",
			dates: dates("A", "B"),
			responses: []Response{
				response("X", map[string]Status{"A": Yes}),
				{ID: "Y"},
			},
			expected: map[string]Tally{
				"A": {Yes: 1, No: 1},
				"B": {No: 2},
			},
		},
		{
			name:  "Duplicate answers keep the first",
			dates: dates("A"),
			responses: []Response{{ID: "X", Answers: []Answer{
				{EventDateID: "A", Status: Maybe},
				{EventDateID: "A", Status: Yes},
			}}},
			expected: map[string]Tally{"A": {Maybe: 1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Aggregate(tt.dates, tt.responses)
			if !reflect.DeepEqual(result, tt.expected) {
				t.Errorf("expected %v but got %v", tt.expected, result)
			}
			for id, tally := range result {
				if tally.Total() != len(tt.responses) {
					t.Errorf("date %s: total %d, expected %d", id, tally.Total(), len(tt.responses))
				}
			}
			if again := Aggregate(tt.dates, tt.responses); !reflect.DeepEqual(again, result) {
				t.Errorf("second run differs: %v vs %v", again, result)
			}
		})
	}
}

func TestRank(t *testing.T) {
	tests := []struct {
		name      string
		dates     []CandidateDate
		responses []Response
		expected  []string
		scores    []int
	}{
		{
			name:     "No responses keeps input order",
			dates:    dates("A", "B"),
			expected: []string{"A", "B"},
			scores:   []int{0, 0},
		},
		{
			name:      "Yes counts twice a maybe",
			dates:     dates("A", "B"),
			responses: scenarioResponses(),
			expected:  []string{"A", "B"},
			scores:    []int{3, 2},
		},
		{
			name:  "Higher score moves up and ties stay stable",
			dates: dates("A", "B", "C", "D"),
			responses: []Response{
				response("X", map[string]Status{"A": Maybe, "B": Maybe, "C": Yes, "D": Maybe}),
				response("Y", map[string]Status{"A": Maybe, "B": Maybe, "C": Yes}),
			},
			expected: []string{"C", "A", "B", "D"},
			scores:   []int{4, 2, 2, 1},
		},
		{
			name:     "Empty",
			expected: []string{},
			scores:   []int{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ranked := Rank(tt.dates, Aggregate(tt.dates, tt.responses))
			if got := rankedIDs(ranked); !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("expected order %v but got %v", tt.expected, got)
			}
			scores := make([]int, 0, len(ranked))
			for _, r := range ranked {
				scores = append(scores, r.Score)
			}
			if !reflect.DeepEqual(scores, tt.scores) {
				t.Errorf("expected scores %v but got %v", tt.scores, scores)
			}
		})
	}
}

func TestBestDates(t *testing.T) {
	d := dates("A", "B", "C", "D")
	ranked := Rank(d, Aggregate(d, nil))
	if got := rankedIDs(BestDates(ranked)); !reflect.DeepEqual(got, []string{"A", "B", "C"}) {
		t.Errorf("expected top three, got %v", got)
	}
	if got := BestDates(ranked[:2]); len(got) != 2 {
		t.Errorf("expected two dates, got %d", len(got))
	}
}

func TestBestDateFor(t *testing.T) {
	tests := []struct {
		name      string
		dates     []CandidateDate
		responses []Response
		required  []string
		expected  string
		found     bool
	}{
		{
			name:     "No responses with a required id",
			dates:    dates("A", "B"),
			required: []string{"X"},
		},
		{
			name:      "Empty required set",
			dates:     dates("A", "B"),
			responses: scenarioResponses(),
		},
		{
			name:      "Single required attendee",
			dates:     dates("A", "B"),
			responses: scenarioResponses(),
			required:  []string{"X"},
			expected:  "A",
			found:     true,
		},
		{
			name:      "No date where all required say yes",
			dates:     dates("A", "B"),
			responses: scenarioResponses(),
			required:  []string{"X", "Y"},
		},
		{
			name:      "Unknown required id",
			dates:     dates("A", "B"),
			responses: scenarioResponses(),
			required:  []string{"X", "ghost"},
		},
		{
			name:  "Most yes answers among qualifying dates",
			dates: dates("A", "B", "C"),
			responses: []Response{
				response("X", map[string]Status{"A": Yes, "B": Yes, "C": Yes}),
				response("Y", map[string]Status{"A": No, "B": Yes, "C": Yes}),
				response("Z", map[string]Status{"A": Yes, "B": No, "C": Yes}),
			},
			required: []string{"X"},
			expected: "C",
			found:    true,
		},
		{
			name:  "Tie goes to the earlier date",
			dates: dates("A", "B", "C"),
			responses: []Response{
				response("X", map[string]Status{"A": No, "B": Yes, "C": Yes}),
				response("Y", map[string]Status{"A": Yes, "B": Yes, "C": Yes}),
			},
			required: []string{"X"},
			expected: "B",
			found:    true,
		},
		{
			name:  "Missing answer is not a yes",
			dates: dates("A", "B"),
			responses: []Response{
				response("X", map[string]Status{"B": Yes}),
			},
			required: []string{"X"},
			expected: "B",
			found:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tallies := Aggregate(tt.dates, tt.responses)
			result, found := BestDateFor(tt.dates, tt.responses, tallies, NewRequiredSet(tt.required...))
			if found != tt.found || result != tt.expected {
				t.Errorf("expected (%q, %v) but got (%q, %v)", tt.expected, tt.found, result, found)
			}
		})
	}
}

func TestRequiredSet(t *testing.T) {
	var s RequiredSet
	if s.Len() != 0 || s.Has("X") {
		t.Fatalf("zero value should be empty")
	}

	s.Toggle("X")
	s.Toggle("Y")
	if !s.Has("X") || !s.Has("Y") {
		t.Errorf("expected X and Y, got %v", s.IDs())
	}

	s.Toggle("Y")
	s.Toggle("Y")
	if !reflect.DeepEqual(s.IDs(), []string{"X", "Y"}) {
		t.Errorf("toggling twice should be a no-op, got %v", s.IDs())
	}

	s.Remove("X")
	s.Add("")
	if !reflect.DeepEqual(s.IDs(), []string{"Y"}) {
		t.Errorf("expected [Y], got %v", s.IDs())
	}

	if got := NewRequiredSet("b", "a", "b").IDs(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("expected sorted unique ids, got %v", got)
	}
}

func TestBandFor(t *testing.T) {
	tests := []struct {
		ratio    float64
		expected Band
	}{
		{0, BandWeak},
		{0.19, BandWeak},
		{0.2, BandLow},
		{0.4, BandFair},
		{0.6, BandGood},
		{0.79, BandGood},
		{0.8, BandStrong},
		{1, BandStrong},
	}

	order := map[Band]int{BandWeak: 0, BandLow: 1, BandFair: 2, BandGood: 3, BandStrong: 4}
	prev := -1
	for _, tt := range tests {
		got := BandFor(tt.ratio)
		if got != tt.expected {
			t.Errorf("ratio %v: expected %s but got %s", tt.ratio, tt.expected, got)
		}
		if order[got] < prev {
			t.Errorf("ratio %v: band %s is lower than for a smaller ratio", tt.ratio, got)
		}
		prev = order[got]
	}
}

func TestHeatmap(t *testing.T) {
	d := dates("A", "B")

	cells := Heatmap(d, Aggregate(d, nil), 0)
	for _, c := range cells {
		if c.Band != BandNone || c.YesRatio != 0 {
			t.Errorf("expected empty cell, got %+v", c)
		}
	}

	responses := scenarioResponses()
	cells = Heatmap(d, Aggregate(d, responses), len(responses))
	expected := []HeatCell{
		{DateID: "A", YesRatio: 0.5, Band: BandFair},
		{DateID: "B", YesRatio: 0.5, Band: BandFair},
	}
	if !reflect.DeepEqual(cells, expected) {
		t.Errorf("expected %v but got %v", expected, cells)
	}
}

func TestSummarize(t *testing.T) {
	d := dates("A", "B")

	res := Summarize(d, scenarioResponses(), NewRequiredSet("X"))
	if res.BestForRequired == nil || *res.BestForRequired != "A" {
		t.Errorf("expected best date A, got %v", res.BestForRequired)
	}
	if res.ResponseCount != 2 || len(res.BestDates) != 2 {
		t.Errorf("unexpected summary %+v", res)
	}

	res = Summarize(d, nil, NewRequiredSet())
	if res.BestForRequired != nil {
		t.Errorf("expected no best date, got %v", *res.BestForRequired)
	}
	if !reflect.DeepEqual(rankedIDs(res.Ranking), []string{"A", "B"}) {
		t.Errorf("unexpected ranking %v", rankedIDs(res.Ranking))
	}
}

func TestTimeSlotValidate(t *testing.T) {
	tests := []struct {
		name        string
		slot        TimeSlot
		shouldError bool
	}{
		{name: "All day", slot: AllDay()},
		{name: "Rough evening", slot: RoughTime(Evening)},
		{name: "Detailed", slot: DetailedTime("19:00", "21:00")},
		{name: "Detailed without end", slot: DetailedTime("19:00", "")},
		{name: "Unknown rough slot", slot: RoughTime("noon"), shouldError: true},
		{name: "End before start", slot: DetailedTime("21:00", "19:00"), shouldError: true},
		{name: "Bad start", slot: DetailedTime("7pm", ""), shouldError: true},
		{name: "None with payload", slot: TimeSlot{Type: TimeNone, Rough: Night}, shouldError: true},
		{name: "Rough with start", slot: TimeSlot{Type: TimeRough, Rough: Night, Start: "22:00"}, shouldError: true},
		{name: "Unknown type", slot: TimeSlot{Type: "sometime"}, shouldError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.slot.Validate()
			if tt.shouldError && err == nil {
				t.Errorf("expected error for %+v, but got none", tt.slot)
			}
			if !tt.shouldError && err != nil {
				t.Errorf("unexpected error for %+v: %v", tt.slot, err)
			}
		})
	}
}

func TestFillAnswers(t *testing.T) {
	d := dates("A", "B", "C")
	answers := FillAnswers(d, map[string]Status{"A": Yes, "C": Maybe, "gone": Yes})
	expected := []Answer{
		{EventDateID: "A", Status: Yes},
		{EventDateID: "B", Status: No},
		{EventDateID: "C", Status: Maybe},
	}
	if !reflect.DeepEqual(answers, expected) {
		t.Errorf("expected %v but got %v", expected, answers)
	}
}

func TestParseStatus(t *testing.T) {
	for _, s := range []string{"yes", "maybe", "no"} {
		if _, err := ParseStatus(s); err != nil {
			t.Errorf("unexpected error for %q: %v", s, err)
		}
	}
	if _, err := ParseStatus("YES"); err == nil {
		t.Errorf("expected error for YES")
	}
}
