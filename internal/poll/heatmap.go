package poll

// Band is a display bucket for a date's yes ratio.
type Band string

const (
	BandNone   Band = "none"
	BandWeak   Band = "weak"
	BandLow    Band = "low"
	BandFair   Band = "fair"
	BandGood   Band = "good"
	BandStrong Band = "strong"
)

// YesRatio is the share of all responses that answered yes for the tally's
// date. It is zero when there are no responses.
func YesRatio(t Tally, responseCount int) float64 {
	if responseCount <= 0 {
		return 0
	}
	return float64(t.Yes) / float64(responseCount)
}

// BandFor maps a yes ratio to its band. Higher ratios never map to a lower
// band.
func BandFor(ratio float64) Band {
	switch {
	case ratio >= 0.8:
		return BandStrong
	case ratio >= 0.6:
		return BandGood
	case ratio >= 0.4:
		return BandFair
	case ratio >= 0.2:
		return BandLow
	default:
		return BandWeak
	}
}

// HeatCell is the heatmap entry of one date.
type HeatCell struct {
	DateID   string  `json:"date_id"`
	YesRatio float64 `json:"yes_ratio"`
	Band     Band    `json:"band"`
}

// Heatmap computes a cell per date in input order. With no responses every
// cell is BandNone.
func Heatmap(dates []CandidateDate, tallies map[string]Tally, responseCount int) []HeatCell {
	cells := make([]HeatCell, 0, len(dates))
	for _, d := range dates {
		cell := HeatCell{DateID: d.ID, Band: BandNone}
		if responseCount > 0 {
			cell.YesRatio = YesRatio(tallies[d.ID], responseCount)
			cell.Band = BandFor(cell.YesRatio)
		}
		cells = append(cells, cell)
	}
	return cells
}
