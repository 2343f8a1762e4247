package handlers

import (
	"net/http"
	"strings"

	"github.com/AlexTLDR/yuruly/internal/i18n"
	"github.com/AlexTLDR/yuruly/internal/poll"
)

type respondentView struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Comment  string `json:"comment,omitempty"`
	Required bool   `json:"required"`
}

type resultsResponse struct {
	Event       eventView        `json:"event"`
	Respondents []respondentView `json:"respondents"`
	Results     poll.Results     `json:"results"`
}

// parseRequired builds the must-attend selection from repeated or
// comma-separated must params, then applies each toggle param
func parseRequired(r *http.Request) poll.RequiredSet {
	query := r.URL.Query()

	var required poll.RequiredSet
	for _, value := range query["must"] {
		for _, id := range strings.Split(value, ",") {
			required.Add(strings.TrimSpace(id))
		}
	}
	for _, id := range query["toggle"] {
		if id = strings.TrimSpace(id); id != "" {
			required.Toggle(id)
		}
	}
	return required
}

// HandleResults returns tallies, ranking, best dates, heatmap and the best
// date for the selected must-attend respondents
func HandleResults(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		event, responses, err := loadEventData(r.Context(), s.GetDB(), r.PathValue("id"))
		if err != nil {
			writeError(w, err)
			return
		}

		required := parseRequired(r)

		respondents := make([]respondentView, 0, len(responses))
		for _, resp := range responses {
			respondents = append(respondents, respondentView{
				ID:       resp.ID,
				Name:     resp.Name,
				Comment:  resp.Comment,
				Required: required.Has(resp.ID),
			})
		}

		writeJSON(w, http.StatusOK, resultsResponse{
			Event:       newEventView(s.GetConfig(), event, i18n.GetLanguageFromRequest(r)),
			Respondents: respondents,
			Results:     poll.Summarize(event.Dates, responses, required),
		})
	}
}
