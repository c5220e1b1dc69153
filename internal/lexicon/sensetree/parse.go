// Package sensetree flattens dictionary sense sequences into ranked sense
// and detail records.
package sensetree

import (
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/myvocab-backend/internal/domain"
	"github.com/heartmarshall/myvocab-backend/pkg/jsonv"
)

// Result holds the flattened definition tree of one entry.
type Result struct {
	Senses  []domain.Sense
	Details []domain.SenseDetail
}

type parser struct {
	entryID uuid.UUID
	ranks   map[domain.SenseScope]int
	out     Result
}

// Parse flattens the entry-level definitions of root and the definitions of
// each defined run-on. droIDs maps the source position of a run-on to its
// id; definitions of run-ons missing from the map are skipped.
func Parse(entryID uuid.UUID, root *jsonv.Object, droIDs map[int]uuid.UUID) Result {
	p := &parser{entryID: entryID, ranks: make(map[domain.SenseScope]int)}

	def, _ := root.Array("def")
	p.walkDefinitions(domain.SenseScope{Kind: domain.ScopeEntry, ID: entryID}, def)

	dros, _ := root.Array("dros")
	for rank, v := range dros {
		droID, ok := droIDs[rank]
		if !ok {
			continue
		}
		obj, _ := jsonv.AsObject(v)
		def, _ := obj.Array("def")
		p.walkDefinitions(domain.SenseScope{Kind: domain.ScopeDefinedRunOn, ID: droID}, def)
	}
	return p.out
}

func (p *parser) walkDefinitions(scope domain.SenseScope, def jsonv.Array) {
	for _, v := range def {
		d, ok := jsonv.AsObject(v)
		if !ok {
			continue
		}
		sseq, ok := d.Array("sseq")
		if !ok {
			continue
		}
		p.walkSequence(scope, optString(d, "vd"), sseq, 0, nil)
	}
}

// walkSequence visits an array of bundles, each an array of [tag, payload]
// pairs.
func (p *parser) walkSequence(scope domain.SenseScope, vd *string, seq jsonv.Array, depth int, container *uuid.UUID) {
	for _, b := range seq {
		bundle, ok := jsonv.AsArray(b)
		if !ok {
			continue
		}
		for _, el := range bundle {
			tag, payload, ok := pair(el)
			if !ok {
				continue
			}
			p.visit(scope, vd, tag, payload, depth, container)
		}
	}
}

func (p *parser) visit(scope domain.SenseScope, vd *string, tag string, payload jsonv.Value, depth int, container *uuid.UUID) {
	switch tag {
	case "sense", "sen":
		obj, ok := jsonv.AsObject(payload)
		if !ok {
			return
		}
		s := p.addSense(scope, vd, domain.SenseKind(tag), obj, depth, container)
		p.addDetails(s.ID, obj)
	case "bs":
		obj, _ := jsonv.AsObject(payload)
		inner, ok := obj.Object("sense")
		if !ok {
			return
		}
		s := p.addSense(scope, vd, domain.SenseKindBinding, inner, depth, container)
		p.addDetails(s.ID, inner)
	case "pseq":
		items, ok := jsonv.AsArray(payload)
		if !ok {
			return
		}
		s := p.addSense(scope, vd, domain.SenseKindPseq, nil, depth, container)
		p.walkSequence(scope, vd, jsonv.Array{items}, depth+1, &s.ID)
	}
}

func (p *parser) addSense(scope domain.SenseScope, vd *string, kind domain.SenseKind, obj *jsonv.Object, depth int, container *uuid.UUID) domain.Sense {
	rank := p.ranks[scope]
	p.ranks[scope] = rank + 1

	s := domain.Sense{
		ID:          senseID(p.entryID, scope, rank),
		EntryID:     p.entryID,
		Scope:       scope,
		VerbDivider: vd,
		Kind:        kind,
		Depth:       depth,
		Rank:        rank,
		ContainerID: container,
	}
	if obj != nil {
		if sn := strings.TrimSpace(stringOr(obj, "sn")); sn != "" {
			s.Number = &sn
		}
	}
	p.out.Senses = append(p.out.Senses, s)
	return s
}

func (p *parser) addDetails(senseID uuid.UUID, sense *jsonv.Object) {
	dt, _ := sense.Array("dt")
	rank := 0
	for _, el := range dt {
		typ, payload, ok := detailPair(el)
		if !ok {
			continue
		}
		p.out.Details = append(p.out.Details, domain.SenseDetail{
			ID:      detailID(senseID, rank),
			SenseID: senseID,
			Type:    typ,
			Rank:    rank,
			Payload: parsePayload(typ, payload),
		})
		rank++
	}
}

func senseID(entryID uuid.UUID, scope domain.SenseScope, rank int) uuid.UUID {
	name := "sense|" + scope.Kind.String() + "|" + scope.ID.String() + "|" + strconv.Itoa(rank)
	return uuid.NewSHA1(entryID, []byte(name))
}

func detailID(senseID uuid.UUID, rank int) uuid.UUID {
	return uuid.NewSHA1(senseID, []byte("dt|"+strconv.Itoa(rank)))
}

// pair unpacks a ["tag", payload] element.
func pair(v jsonv.Value) (string, jsonv.Value, bool) {
	arr, ok := jsonv.AsArray(v)
	if !ok || len(arr) < 2 {
		return "", nil, false
	}
	tag, ok := jsonv.AsString(arr[0])
	return tag, arr[1], ok
}

// detailPair is pair, but a non-string type becomes "unknown".
func detailPair(v jsonv.Value) (string, jsonv.Value, bool) {
	arr, ok := jsonv.AsArray(v)
	if !ok || len(arr) < 2 {
		return "", nil, false
	}
	typ, ok := jsonv.AsString(arr[0])
	if !ok {
		typ = "unknown"
	}
	return typ, arr[1], true
}

func stringOr(o *jsonv.Object, key string) string {
	s, _ := o.String(key)
	return s
}

func optString(o *jsonv.Object, key string) *string {
	s, ok := o.String(key)
	if !ok {
		return nil
	}
	return &s
}
