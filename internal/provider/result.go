package provider

import (
	"fmt"

	"github.com/tidwall/gjson"
)

// LookupKind classifies a dictionary API response.
type LookupKind string

const (
	// LookupEntries: the response is a list of entry documents.
	LookupEntries LookupKind = "entries"
	// LookupSuggestions: the word is unknown and the API proposed spellings.
	LookupSuggestions LookupKind = "suggestions"
	// LookupEmpty: nothing was found and nothing was suggested.
	LookupEmpty LookupKind = "empty"
	// LookupUncaptured: the response has a shape this client does not know.
	LookupUncaptured LookupKind = "uncaptured"
)

func (k LookupKind) String() string { return string(k) }

// LookupResult is the classified answer of the dictionary API for one word.
// Raw is set for LookupEntries, Suggestions for LookupSuggestions.
type LookupResult struct {
	Kind        LookupKind
	Query       string
	Raw         []byte
	Suggestions []string
}

// Reason is a human-readable explanation for results that carry no entries.
func (r LookupResult) Reason() string {
	switch r.Kind {
	case LookupEntries:
		return ""
	case LookupSuggestions:
		return fmt.Sprintf("no entry for %q; the dictionary suggests %d alternatives", r.Query, len(r.Suggestions))
	case LookupEmpty:
		return fmt.Sprintf("no entry for %q", r.Query)
	}
	return fmt.Sprintf("unrecognized dictionary response for %q", r.Query)
}

// Classify inspects a decoded API body. Anything that is not an array, and
// the empty array, is LookupEmpty; an array starting with a string is a
// suggestion list; an array starting with an object is a list of entries.
func Classify(query string, raw []byte) LookupResult {
	res := LookupResult{Query: query, Raw: raw}

	body := gjson.ParseBytes(raw)
	if !body.IsArray() {
		res.Kind = LookupEmpty
		return res
	}
	items := body.Array()
	if len(items) == 0 {
		res.Kind = LookupEmpty
		return res
	}

	switch first := items[0]; {
	case first.Type == gjson.String:
		for _, it := range items {
			if it.Type == gjson.String {
				res.Suggestions = append(res.Suggestions, it.Str)
			}
		}
		res.Kind = LookupSuggestions
		if len(res.Suggestions) == 0 {
			res.Kind = LookupEmpty
		}
	case first.IsObject():
		res.Kind = LookupEntries
	default:
		res.Kind = LookupUncaptured
	}
	return res
}
