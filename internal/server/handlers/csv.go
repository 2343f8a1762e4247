package handlers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/AlexTLDR/yuruly/internal/database"
	"github.com/AlexTLDR/yuruly/internal/i18n"
	"github.com/AlexTLDR/yuruly/internal/poll"
	"github.com/rs/zerolog/log"
)

// dateHeader labels a grid column, e.g. "2026-12-19 夕方"
func dateHeader(d poll.CandidateDate, lang i18n.Language) string {
	return d.Date + " " + i18n.TimeLabel(d.TimeSlot, lang)
}

// buildCSVRows lays out one row per response and one column per date,
// followed by yes/maybe/no/score summary rows
func buildCSVRows(event *database.Event, responses []poll.Response, lang i18n.Language) [][]string {
	header := []string{"Name"}
	for _, d := range event.Dates {
		header = append(header, dateHeader(d, lang))
	}
	header = append(header, "Comment")

	rows := [][]string{header}
	for _, resp := range responses {
		row := []string{resp.Name}
		for _, d := range event.Dates {
			row = append(row, i18n.StatusMark(resp.StatusFor(d.ID)))
		}
		// Comments stay on one line for spreadsheet imports
		row = append(row, strings.ReplaceAll(resp.Comment, "\n", " "))
		rows = append(rows, row)
	}

	tallies := poll.Aggregate(event.Dates, responses)
	summaries := []struct {
		label string
		value func(poll.Tally) int
	}{
		{i18n.StatusMark(poll.Yes), func(t poll.Tally) int { return t.Yes }},
		{i18n.StatusMark(poll.Maybe), func(t poll.Tally) int { return t.Maybe }},
		{i18n.StatusMark(poll.No), func(t poll.Tally) int { return t.No }},
		{"Score", poll.Tally.Score},
	}
	for _, sum := range summaries {
		row := []string{sum.label}
		for _, d := range event.Dates {
			row = append(row, strconv.Itoa(sum.value(tallies[d.ID])))
		}
		row = append(row, "")
		rows = append(rows, row)
	}

	return rows
}

// writeCSVHeaders sets HTTP headers for a CSV attachment
func writeCSVHeaders(w http.ResponseWriter, eventID string) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=yuruly-%s.csv", eventID))

	// Write UTF-8 BOM for Excel compatibility
	w.Write([]byte{0xEF, 0xBB, 0xBF})
}

// HandleAdminDownloadCSV exports the response grid to CSV
func HandleAdminDownloadCSV(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		event, responses, err := loadEventData(r.Context(), s.GetDB(), r.PathValue("id"))
		if err != nil {
			writeError(w, err)
			return
		}

		rows := buildCSVRows(event, responses, i18n.GetLanguageFromRequest(r))

		writeCSVHeaders(w, event.ID)
		cw := csv.NewWriter(w)
		if err := cw.WriteAll(rows); err != nil {
			log.Error().Err(err).Str("event_id", event.ID).Msg("Failed to write CSV")
		}
	}
}
