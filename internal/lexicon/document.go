// Package lexicon decomposes dictionary entry documents into the normalized
// semantic graph and resolves declared stems to their anchors.
package lexicon

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/myvocab-backend/internal/domain"
	"github.com/heartmarshall/myvocab-backend/pkg/jsonv"
)

// Document is an entry together with its parsed source tree.
type Document struct {
	Entry domain.Entry
	Root  *jsonv.Object
}

// ParseEntries splits a dictionary "entries" response into documents.
// Non-object elements are skipped. An entry without a usable meta.uuid is
// fatal: it has no stable identity to persist under.
func ParseEntries(raw []byte, fetchedAt time.Time) ([]Document, error) {
	v, err := jsonv.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse entries: %w", err)
	}
	arr, ok := jsonv.AsArray(v)
	if !ok {
		return nil, fmt.Errorf("parse entries: %w", domain.NewValidationError("response", "not an array"))
	}

	docs := make([]Document, 0, len(arr))
	for i, el := range arr {
		obj, ok := jsonv.AsObject(el)
		if !ok {
			continue
		}
		doc, err := documentFromObject(obj, fetchedAt)
		if err != nil {
			return nil, fmt.Errorf("parse entries: element %d: %w", i, err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// NewDocument rebuilds a document from a stored entry, e.g. for backfill.
func NewDocument(e domain.Entry) (Document, error) {
	v, err := jsonv.Parse(e.Raw)
	if err != nil {
		return Document{}, fmt.Errorf("entry %s: %w", e.ID, err)
	}
	obj, ok := jsonv.AsObject(v)
	if !ok {
		return Document{}, fmt.Errorf("entry %s: %w", e.ID, domain.NewValidationError("raw_json", "not an object"))
	}
	return Document{Entry: e, Root: obj}, nil
}

func documentFromObject(obj *jsonv.Object, fetchedAt time.Time) (Document, error) {
	meta, _ := obj.Object("meta")

	rawID, _ := meta.String("uuid")
	rawID = strings.TrimSpace(rawID)
	if rawID == "" {
		return Document{}, domain.ErrMissingEntryID
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		return Document{}, fmt.Errorf("%w: %q", domain.ErrMissingEntryID, rawID)
	}

	raw, err := jsonv.Marshal(obj)
	if err != nil {
		return Document{}, fmt.Errorf("marshal entry %s: %w", id, err)
	}

	entry := domain.Entry{
		ID:        id,
		MetaID:    optString(meta, "id"),
		Stems:     stringList(meta, "stems"),
		Raw:       raw,
		FetchedAt: fetchedAt,
	}
	hwi, _ := obj.Object("hwi")
	if hw, ok := hwi.String("hw"); ok {
		if s := strings.TrimSpace(strings.ReplaceAll(hw, "*", "")); s != "" {
			entry.HeadwordRaw = &s
		}
	}
	return Document{Entry: entry, Root: obj}, nil
}

// optString returns the string under key, nil when absent or not a string.
func optString(o *jsonv.Object, key string) *string {
	s, ok := o.String(key)
	if !ok {
		return nil
	}
	return &s
}

// trimmed returns the trimmed string under key, "" when absent.
func trimmed(o *jsonv.Object, key string) string {
	s, _ := o.String(key)
	return strings.TrimSpace(s)
}

// optTrimmed is trimmed but nil for blank values.
func optTrimmed(o *jsonv.Object, key string) *string {
	s := trimmed(o, key)
	if s == "" {
		return nil
	}
	return &s
}

func stringList(o *jsonv.Object, key string) []string {
	arr, _ := o.Array(key)
	out := make([]string, 0, len(arr))
	for _, v := range arr {
		if s, ok := jsonv.AsString(v); ok {
			out = append(out, s)
		}
	}
	return out
}
