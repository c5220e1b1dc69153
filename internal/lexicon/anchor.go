package lexicon

import (
	"cmp"
	"slices"
	"strings"

	"github.com/heartmarshall/myvocab-backend/internal/domain"
	"github.com/heartmarshall/myvocab-backend/internal/lexicon/morph"
)

// anchorIndex maps normalized text to the semantic record it names. Tables
// are consulted in priority order: defined run-ons, undefined run-ons,
// variants, inflections, alternate headwords, then the headword. Within one
// table the first record in document order wins, except that variants and
// inflections are ordered by scope (entry, then run-ons by path) and rank so
// the winner does not depend on object key order.
type anchorIndex struct {
	tables       []map[string]domain.Owner
	headwordNorm string
	headword     domain.Owner
}

func newAnchorIndex(entry domain.Entry, x extraction) *anchorIndex {
	var (
		dro = map[string]domain.Owner{}
		uro = map[string]domain.Owner{}
		vrs = map[string]domain.Owner{}
		ins = map[string]domain.Owner{}
		ahw = map[string]domain.Owner{}
	)
	for _, d := range x.definedRunOns {
		addFirst(dro, d.Phrase, domain.DefinedRunOnRef{DefinedRunOnID: d.ID})
	}
	for _, u := range x.undefinedRunOns {
		addFirst(uro, u.Word, domain.UndefinedRunOnRef{UndefinedRunOnID: u.ID})
	}
	for _, v := range byScope(x.variants, func(v domain.Variant) (domain.Scope, int) { return v.Scope, v.Rank }) {
		addFirst(vrs, v.Text, domain.VariantRef{VariantID: v.ID})
	}
	for _, in := range byScope(x.inflections, func(in domain.Inflection) (domain.Scope, int) { return in.Scope, in.Rank }) {
		ref := domain.InflectionRef{InflectionID: in.ID}
		if in.Form != nil {
			addFirst(ins, *in.Form, ref)
		}
		if in.Cutback != nil {
			addFirst(ins, *in.Cutback, ref)
		}
	}
	for _, a := range x.alternateHeadwords {
		addFirst(ahw, a.Text, domain.AlternateHeadwordRef{AlternateHeadwordID: a.ID})
	}

	ix := &anchorIndex{tables: []map[string]domain.Owner{dro, uro, vrs, ins, ahw}}
	if x.headword != nil {
		ix.headwordNorm = domain.CompareKey(x.headword.Text)
		ix.headword = domain.HeadwordRef{EntryID: entry.ID}
	}
	return ix
}

func addFirst(table map[string]domain.Owner, text string, owner domain.Owner) {
	key := domain.CompareKey(text)
	if key == "" {
		return
	}
	if _, ok := table[key]; !ok {
		table[key] = owner
	}
}

var scopeOrder = map[domain.ScopeKind]int{
	domain.ScopeEntry:        0,
	domain.ScopeDefinedRunOn: 1,
	domain.ScopeUndefinedRun: 2,
}

// byScope returns a copy of records sorted by scope kind, scope path and rank.
func byScope[T any](records []T, key func(T) (domain.Scope, int)) []T {
	out := slices.Clone(records)
	slices.SortStableFunc(out, func(a, b T) int {
		sa, ra := key(a)
		sb, rb := key(b)
		return cmp.Or(
			cmp.Compare(scopeOrder[sa.Kind], scopeOrder[sb.Kind]),
			cmp.Compare(len(sa.Ref), len(sb.Ref)),
			strings.Compare(sa.Ref, sb.Ref),
			cmp.Compare(ra, rb),
		)
	})
	return out
}

func (ix *anchorIndex) exact(norm string) domain.Owner {
	for _, t := range ix.tables {
		if o, ok := t[norm]; ok {
			return o
		}
	}
	if ix.headword != nil && norm == ix.headwordNorm {
		return ix.headword
	}
	return nil
}

// resolve finds the anchor of one stem. When nothing matches exactly, each
// morphological base candidate that is itself another declared stem of the
// entry is tried once. A nil result means the stem is unanchored.
func (ix *anchorIndex) resolve(norm string, declared map[string]bool) domain.Owner {
	if o := ix.exact(norm); o != nil {
		return o
	}
	for _, cand := range morph.BaseCandidates(norm) {
		if !declared[cand] {
			continue
		}
		if o := ix.exact(cand); o != nil {
			return o
		}
	}
	return nil
}

// resolveStems builds one stem row per non-blank declared stem. Ranks count
// the surviving stems, so every declared stem gets exactly one anchor.
func resolveStems(entry domain.Entry, ix *anchorIndex) []domain.Stem {
	type declaredStem struct{ text, norm string }

	stems := make([]declaredStem, 0, len(entry.Stems))
	declared := make(map[string]bool, len(entry.Stems))
	for _, s := range entry.Stems {
		if strings.TrimSpace(s) == "" {
			continue
		}
		norm := domain.CompareKey(s)
		stems = append(stems, declaredStem{text: s, norm: norm})
		declared[norm] = true
	}

	out := make([]domain.Stem, 0, len(stems))
	for rank, s := range stems {
		anchor := ix.resolve(s.norm, declared)
		out = append(out, domain.Stem{
			ID:              StemID(entry.ID, rank),
			EntryID:         entry.ID,
			Text:            s.text,
			Norm:            s.norm,
			Anchor:          anchor,
			FallbackWarning: anchor == nil,
			Rank:            rank,
			FetchedAt:       entry.FetchedAt,
		})
	}
	return out
}
