package lexicon

import (
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/myvocab-backend/internal/domain"
	"github.com/heartmarshall/myvocab-backend/pkg/jsonv"
)

// extraction is the stem-independent part of an entry graph.
type extraction struct {
	headword           *domain.Headword
	alternateHeadwords []domain.AlternateHeadword
	definedRunOns      []domain.DefinedRunOn
	undefinedRunOns    []domain.UndefinedRunOn
	variants           []domain.Variant
	inflections        []domain.Inflection
	pronunciations     []domain.Pronunciation
}

// extract reads the semantic records of one entry document. Rows missing
// their required fields are dropped. Ranks of alternate headwords and run-ons
// are their positions in the source lists.
func extract(doc Document) extraction {
	var (
		x     extraction
		root  = doc.Root
		entry = doc.Entry.ID
	)

	hwi, _ := root.Object("hwi")
	if hw := trimmed(hwi, "hw"); hw != "" {
		x.headword = &domain.Headword{EntryID: entry, Text: hw}
		x.addPronunciations(entry, domain.HeadwordRef{EntryID: entry}, hwi)
	}

	ahws, _ := root.Array("ahws")
	for rank, v := range ahws {
		obj, _ := jsonv.AsObject(v)
		hw := trimmed(obj, "hw")
		if hw == "" {
			continue
		}
		id := alternateHeadwordID(entry, rank)
		x.alternateHeadwords = append(x.alternateHeadwords, domain.AlternateHeadword{
			ID: id, EntryID: entry, Text: hw, Rank: rank,
		})
		x.addPronunciations(entry, domain.AlternateHeadwordRef{AlternateHeadwordID: id}, obj)
	}

	dros, _ := root.Array("dros")
	for rank, v := range dros {
		obj, _ := jsonv.AsObject(v)
		phrase := trimmed(obj, "drp")
		def, _ := obj.Get("def")
		if phrase == "" || jsonv.IsNull(def) {
			continue
		}
		defJSON, err := jsonv.Marshal(def)
		if err != nil {
			continue
		}
		id := definedRunOnID(entry, rank)
		x.definedRunOns = append(x.definedRunOns, domain.DefinedRunOn{
			ID: id, EntryID: entry, Phrase: phrase, Definition: defJSON, Rank: rank,
		})
		x.addPronunciations(entry, domain.DefinedRunOnRef{DefinedRunOnID: id}, obj)
	}

	uros, _ := root.Array("uros")
	for rank, v := range uros {
		obj, _ := jsonv.AsObject(v)
		word, label := trimmed(obj, "ure"), trimmed(obj, "fl")
		if word == "" || label == "" {
			continue
		}
		uro := domain.UndefinedRunOn{
			ID:              undefinedRunOnID(entry, rank),
			EntryID:         entry,
			Word:            word,
			FunctionalLabel: label,
			Rank:            rank,
		}
		if utxt, ok := obj.Get("utxt"); ok && !jsonv.IsNull(utxt) {
			uro.Text, _ = jsonv.Marshal(utxt)
		}
		uro.Raw, _ = jsonv.Marshal(obj)
		x.undefinedRunOns = append(x.undefinedRunOns, uro)
		x.addPronunciations(entry, domain.UndefinedRunOnRef{UndefinedRunOnID: uro.ID}, obj)
	}

	for node := range jsonv.Walk(root) {
		x.addVariants(doc, node)
		x.addInflections(doc, node)
	}
	return x
}

func (x *extraction) addVariants(doc Document, node jsonv.Node) {
	vrs, ok := node.Object.Array("vrs")
	if !ok {
		return
	}
	scope := scopeOf(node.Path)
	for rank, v := range vrs {
		obj, _ := jsonv.AsObject(v)
		text := trimmed(obj, "va")
		if text == "" {
			continue
		}
		id := variantID(doc.Entry.ID, node.Path, rank)
		x.variants = append(x.variants, domain.Variant{
			ID:      id,
			EntryID: doc.Entry.ID,
			Text:    text,
			Label:   optString(obj, "vl"),
			Scope:   scope,
			Rank:    rank,
		})
		x.addPronunciations(doc.Entry.ID, domain.VariantRef{VariantID: id}, obj)
	}
}

func (x *extraction) addInflections(doc Document, node jsonv.Node) {
	ins, ok := node.Object.Array("ins")
	if !ok {
		return
	}
	scope := scopeOf(node.Path)
	for rank, v := range ins {
		obj, _ := jsonv.AsObject(v)
		form, cutback := optTrimmed(obj, "if"), optTrimmed(obj, "ifc")
		if form == nil && cutback == nil {
			continue
		}
		id := inflectionID(doc.Entry.ID, node.Path, rank)
		x.inflections = append(x.inflections, domain.Inflection{
			ID:      id,
			EntryID: doc.Entry.ID,
			Form:    form,
			Cutback: cutback,
			Label:   optString(obj, "il"),
			Scope:   scope,
			Rank:    rank,
		})
		x.addPronunciations(doc.Entry.ID, domain.InflectionRef{InflectionID: id}, obj)
	}
}

// addPronunciations reads the prs list of holder. A row with neither a
// written form nor audio is dropped; rank is the source position.
func (x *extraction) addPronunciations(entryID uuid.UUID, owner domain.Owner, holder *jsonv.Object) {
	prs, _ := holder.Array("prs")
	for rank, v := range prs {
		obj, ok := jsonv.AsObject(v)
		if !ok {
			continue
		}
		sound, _ := obj.Object("sound")
		p := domain.Pronunciation{
			EntryID:     entryID,
			Owner:       owner,
			Written:     optString(obj, "mw"),
			Punctuation: optString(obj, "pun"),
			LabelBefore: optString(obj, "l"),
			LabelAfter:  optString(obj, "l2"),
			Audio:       optString(sound, "audio"),
			AudioRef:    optString(sound, "ref"),
			AudioStat:   optString(sound, "stat"),
			Rank:        rank,
		}
		if isBlank(p.Written) && isBlank(p.Audio) {
			continue
		}
		p.ID = pronunciationID(entryID, owner, rank)
		x.pronunciations = append(x.pronunciations, p)
	}
}

func scopeOf(path string) domain.Scope {
	kind := domain.ScopeEntry
	switch {
	case strings.Contains(path, ".dros["):
		kind = domain.ScopeDefinedRunOn
	case strings.Contains(path, ".uros["):
		kind = domain.ScopeUndefinedRun
	}
	return domain.Scope{Kind: kind, Ref: path}
}

func isBlank(s *string) bool {
	return s == nil || *s == ""
}
