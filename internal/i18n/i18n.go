package i18n

import (
	"net/http"

	"github.com/AlexTLDR/yuruly/internal/poll"
	"golang.org/x/text/language"
)

type Language string

const (
	Japanese Language = "ja"
	English  Language = "en"
)

var matcher = language.NewMatcher([]language.Tag{language.Japanese, language.English})

func parse(value string) (Language, bool) {
	switch Language(value) {
	case Japanese, English:
		return Language(value), true
	}
	return "", false
}

// GetLanguageFromRequest extracts language from request (query param, cookie, then Accept-Language)
func GetLanguageFromRequest(r *http.Request) Language {
	// Check query parameter first
	if lang, ok := parse(r.URL.Query().Get("lang")); ok {
		return lang
	}

	// Check cookie
	if cookie, err := r.Cookie("lang"); err == nil {
		if lang, ok := parse(cookie.Value); ok {
			return lang
		}
	}

	if accept := r.Header.Get("Accept-Language"); accept != "" {
		tags, _, err := language.ParseAcceptLanguage(accept)
		if err == nil && len(tags) > 0 {
			_, index, confidence := matcher.Match(tags...)
			if confidence != language.No && index == 1 {
				return English
			}
		}
	}

	// Default to Japanese
	return Japanese
}

var roughLabels = map[Language]map[poll.RoughSlot]string{
	Japanese: {poll.Morning: "朝", poll.Afternoon: "昼", poll.Evening: "夕方", poll.Night: "夜"},
	English:  {poll.Morning: "Morning", poll.Afternoon: "Afternoon", poll.Evening: "Evening", poll.Night: "Night"},
}

var allDayLabels = map[Language]string{
	Japanese: "終日",
	English:  "All day",
}

// TimeLabel renders a time slot for display
func TimeLabel(slot poll.TimeSlot, lang Language) string {
	if _, ok := allDayLabels[lang]; !ok {
		lang = Japanese
	}
	switch slot.Type {
	case poll.TimeRough:
		return roughLabels[lang][slot.Rough]
	case poll.TimeDetailed:
		if slot.End == "" {
			return slot.Start + " -"
		}
		return slot.Start + " - " + slot.End
	default:
		return allDayLabels[lang]
	}
}

var statusLabels = map[poll.Status]string{
	poll.Yes:   "◯",
	poll.Maybe: "△",
	poll.No:    "✕",
}

// StatusMark is the single-character mark used in exported grids
func StatusMark(s poll.Status) string {
	if m, ok := statusLabels[s]; ok {
		return m
	}
	return statusLabels[poll.No]
}
