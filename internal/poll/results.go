package poll

// Results bundles everything the results page shows for an event.
type Results struct {
	ResponseCount int              `json:"response_count"`
	Tallies       map[string]Tally `json:"tallies"`
	Ranking       []RankedDate     `json:"ranking"`
	BestDates     []RankedDate     `json:"best_dates"`
	Heatmap       []HeatCell       `json:"heatmap"`
	Required      []string         `json:"required"`
	// BestForRequired is nil when the must-attend computation has no result.
	BestForRequired *string `json:"best_for_required"`
}

// Summarize runs the aggregator and the recommendation engine over one
// snapshot of dates and responses.
func Summarize(dates []CandidateDate, responses []Response, required RequiredSet) Results {
	tallies := Aggregate(dates, responses)
	ranking := Rank(dates, tallies)

	res := Results{
		ResponseCount: len(responses),
		Tallies:       tallies,
		Ranking:       ranking,
		BestDates:     BestDates(ranking),
		Heatmap:       Heatmap(dates, tallies, len(responses)),
		Required:      required.IDs(),
	}
	if id, ok := BestDateFor(dates, responses, tallies, required); ok {
		res.BestForRequired = &id
	}
	return res
}
