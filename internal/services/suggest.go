package services

import (
	"strings"

	"github.com/sijamu/backend/internal/models"
)

// MatchStatus says how confidently a header was matched to a field.
type MatchStatus string

const (
	MatchExact     MatchStatus = "exact"
	MatchPartial   MatchStatus = "partial"
	MatchAmbiguous MatchStatus = "ambiguous"
	MatchUnmatched MatchStatus = "unmatched"
)

// FieldMatch is the suggestion for one required field.
type FieldMatch struct {
	Key        string      `json:"key"`
	Label      string      `json:"label"`
	Header     string      `json:"header,omitempty"`
	Status     MatchStatus `json:"status"`
	Candidates []string    `json:"candidates,omitempty"`
}

// Suggestions maps field keys to spreadsheet headers. Mapping is the flat
// form the mapping dialog pre-fills; Fields explains each pick.
type Suggestions struct {
	Mapping map[string]string `json:"mapping"`
	Fields  []FieldMatch      `json:"fields"`
}

var headerReplacer = strings.NewReplacer("(", "", ")", "", "-", "")

func normalizeHeader(s string) string {
	s = strings.Join(strings.Fields(strings.ToLower(s)), "")
	return headerReplacer.Replace(s)
}

// Suggest proposes a column for every field of category. An exact match on
// key or label wins and ends the scan for that header; a partial match
// (header contains the key, or the label contains the header) only fills a
// field that has no suggestion yet.
func Suggest(headers []string, category models.Category) Suggestions {
	fields := category.Fields()
	mapping := make(map[string]string, len(fields))
	exact := make(map[string]bool, len(fields))
	candidates := make(map[string][]string, len(fields))

	for _, header := range headers {
		h := normalizeHeader(header)
		if h == "" {
			continue
		}
		for _, field := range fields {
			key := strings.ToLower(field.Key)
			label := normalizeHeader(field.Label)

			if h == key || h == label {
				mapping[field.Key] = header
				exact[field.Key] = true
				break
			}
			if strings.Contains(h, key) || strings.Contains(label, h) {
				candidates[field.Key] = append(candidates[field.Key], header)
				if _, ok := mapping[field.Key]; !ok {
					mapping[field.Key] = header
				}
			}
		}
	}

	matches := make([]FieldMatch, 0, len(fields))
	for _, field := range fields {
		m := FieldMatch{Key: field.Key, Label: field.Label, Header: mapping[field.Key]}
		switch {
		case exact[field.Key]:
			m.Status = MatchExact
		case len(candidates[field.Key]) > 1:
			m.Status = MatchAmbiguous
			m.Candidates = candidates[field.Key]
		case len(candidates[field.Key]) == 1:
			m.Status = MatchPartial
		default:
			m.Status = MatchUnmatched
		}
		matches = append(matches, m)
	}

	return Suggestions{Mapping: mapping, Fields: matches}
}
