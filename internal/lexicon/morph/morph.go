// Package morph proposes uninflected base forms for an inflected word.
//
// Candidates are speculative. Callers must validate them against the stems
// an entry actually declares before accepting one.
package morph

import (
	"strings"

	"github.com/jinzhu/inflection"
)

const minCandidateLen = 2

type candidates struct {
	input string
	out   []string
}

func (c *candidates) push(s string) {
	if s == c.input || len(s) < minCandidateLen {
		return
	}
	for _, existing := range c.out {
		if existing == s {
			return
		}
	}
	c.out = append(c.out, s)
}

// pushCollapsed adds s without its doubled final letter (focuss -> focus).
func (c *candidates) pushCollapsed(s string) {
	n := len(s)
	if n >= 3 && s[n-1] == s[n-2] {
		c.push(s[:n-1])
	}
}

// BaseCandidates returns plausible base forms of a normalized (lowercased)
// word form, most likely first. The input itself and candidates shorter
// than two bytes are never returned.
func BaseCandidates(norm string) []string {
	c := &candidates{input: norm}
	n := len(norm)

	// plurals
	if strings.HasSuffix(norm, "ies") && n > 3 {
		c.push(norm[:n-3] + "y")
	}
	switch {
	case strings.HasSuffix(norm, "es") && n > 2:
		a, b := norm[:n-2], norm[:n-1]
		c.push(a)
		c.push(b)
		c.pushCollapsed(a)
		c.pushCollapsed(b)
	case strings.HasSuffix(norm, "s") && !strings.HasSuffix(norm, "ss") && n > 1:
		a := norm[:n-1]
		c.push(a)
		c.pushCollapsed(a)
	}

	// comparatives
	if strings.HasSuffix(norm, "ier") && n > 3 {
		c.push(norm[:n-3] + "y")
	}
	if strings.HasSuffix(norm, "er") && n > 2 {
		a := norm[:n-2]
		c.push(a)
		c.push(norm[:n-1])
		c.pushCollapsed(a)
	}

	// superlatives
	if strings.HasSuffix(norm, "iest") && n > 4 {
		c.push(norm[:n-4] + "y")
	}
	if strings.HasSuffix(norm, "est") && n > 3 {
		a := norm[:n-3]
		c.push(a)
		c.push(norm[:n-2])
		c.pushCollapsed(a)
	}

	// participles
	if strings.HasSuffix(norm, "ying") && n > 4 {
		c.push(norm[:n-4] + "ie")
	}
	if strings.HasSuffix(norm, "ing") && n > 3 {
		c.pushWithE(norm[:n-3])
	}

	// past tense
	if strings.HasSuffix(norm, "ied") && n > 3 {
		c.push(norm[:n-3] + "y")
	}
	if strings.HasSuffix(norm, "ed") && n > 2 {
		c.pushWithE(norm[:n-2])
	}

	// irregular plurals (mice, criteria) the suffix rules cannot reach
	c.push(inflection.Singular(norm))

	return c.out
}

func (c *candidates) pushWithE(base string) {
	c.push(base)
	if !strings.HasSuffix(base, "e") {
		c.push(base + "e")
	}
	c.pushCollapsed(base)
}
