package sensetree

import (
	"github.com/heartmarshall/myvocab-backend/internal/domain"
	"github.com/heartmarshall/myvocab-backend/pkg/jsonv"
)

// parsePayload converts one detail payload. Unknown types, and known types
// whose payload has an unexpected shape, become an OpaqueDetail carrying the
// plain text of a string payload.
func parsePayload(typ string, v jsonv.Value) domain.DetailPayload {
	switch typ {
	case domain.DetailText:
		if s, ok := jsonv.AsString(v); ok {
			return domain.TextDetail{Text: TextToPlain(s)}
		}
	case domain.DetailExamples:
		if arr, ok := jsonv.AsArray(v); ok {
			return domain.ExamplesDetail{Examples: parseExamples(arr)}
		}
	case domain.DetailCalledAlso:
		if obj, ok := jsonv.AsObject(v); ok {
			return parseCalledAlso(obj)
		}
	case domain.DetailUsageNotes:
		if arr, ok := jsonv.AsArray(v); ok {
			return parseUsageNotes(arr)
		}
	}

	var opaque domain.OpaqueDetail
	if s, ok := jsonv.AsString(v); ok {
		plain := TextToPlain(s)
		opaque.Text = &plain
	}
	return opaque
}

func parseExamples(arr jsonv.Array) []domain.Example {
	out := make([]domain.Example, 0, len(arr))
	for _, v := range arr {
		obj, _ := jsonv.AsObject(v)
		t, ok := obj.String("t")
		if !ok {
			continue
		}
		text := TextToPlain(t)
		if text == "" {
			continue
		}
		ex := domain.Example{Text: text}
		if aq, ok := obj.Object("aq"); ok {
			ex.Attribution = &domain.Attribution{
				Author: optString(aq, "auth"),
				Source: plainOpt(aq, "source"),
				Date:   optString(aq, "aqdate"),
			}
		}
		out = append(out, ex)
	}
	return out
}

func parseCalledAlso(obj *jsonv.Object) domain.CalledAlsoDetail {
	ca := domain.CalledAlsoDetail{
		Intro:      plainOpt(obj, "intro"),
		Categories: []domain.Category{},
	}
	cats, _ := obj.Array("cats")
	for _, v := range cats {
		c, _ := jsonv.AsObject(v)
		text := plainOpt(c, "cat")
		if text == nil || *text == "" {
			continue
		}
		ca.Categories = append(ca.Categories, domain.Category{
			Text:      *text,
			Reference: optString(c, "catref"),
			Number:    optString(c, "pn"),
		})
	}
	return ca
}

// parseUsageNotes flattens the nested blocks of a usage note. Items other
// than text and examples keep only their kind.
func parseUsageNotes(blocks jsonv.Array) domain.UsageNotesDetail {
	uns := domain.UsageNotesDetail{Items: []domain.UsageNoteItem{}}
	for _, b := range blocks {
		block, ok := jsonv.AsArray(b)
		if !ok {
			continue
		}
		for _, el := range block {
			kind, payload, ok := detailPair(el)
			if !ok {
				continue
			}
			item := domain.UsageNoteItem{Kind: kind}
			switch kind {
			case domain.DetailText:
				if s, ok := jsonv.AsString(payload); ok {
					text := TextToPlain(s)
					item.Text = &text
				}
			case domain.DetailExamples:
				arr, _ := jsonv.AsArray(payload)
				item.Examples = []domain.NoteExample{}
				for _, ex := range arr {
					obj, _ := jsonv.AsObject(ex)
					if t, ok := obj.String("t"); ok {
						item.Examples = append(item.Examples, domain.NoteExample{Text: TextToPlain(t)})
					}
				}
			}
			uns.Items = append(uns.Items, item)
		}
	}
	return uns
}

func plainOpt(o *jsonv.Object, key string) *string {
	s, ok := o.String(key)
	if !ok {
		return nil
	}
	plain := TextToPlain(s)
	return &plain
}
