package morph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBaseCandidates_Contains(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{input: "databases", want: "database"},
		{input: "parties", want: "party"},
		{input: "focusses", want: "focus"},
		{input: "dogs", want: "dog"},
		{input: "prettier", want: "pretty"},
		{input: "nicer", want: "nice"},
		{input: "bigger", want: "big"},
		{input: "beautifuler", want: "beautiful"},
		{input: "happiest", want: "happy"},
		{input: "candidest", want: "candid"},
		{input: "nicest", want: "nice"},
		{input: "databasing", want: "database"},
		{input: "running", want: "run"},
		{input: "walking", want: "walk"},
		{input: "dying", want: "die"},
		{input: "carried", want: "carry"},
		{input: "databased", want: "database"},
		{input: "stopped", want: "stop"},
		{input: "mice", want: "mouse"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			assert.Contains(t, BaseCandidates(tt.input), tt.want)
		})
	}
}

func TestBaseCandidates_Order(t *testing.T) {
	t.Parallel()

	got := BaseCandidates("databases")
	assert.Equal(t, []string{"databas", "database"}, got[:2])

	got = BaseCandidates("parties")
	assert.Equal(t, "party", got[0])
}

func TestBaseCandidates_NeverSelfOrShort(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"", "s", "es", "ss", "ies", "ing", "ed", "er", "est", "iest",
		"glass", "seed", "zzqx", "mercury", "bring about", "databases", "mass",
	}
	for _, in := range inputs {
		got := BaseCandidates(in)
		seen := map[string]bool{}
		for _, c := range got {
			assert.NotEqual(t, in, c, "candidate equals input %q", in)
			assert.GreaterOrEqual(t, len(c), 2, "short candidate for %q", in)
			assert.False(t, seen[c], "duplicate candidate %q for %q", c, in)
			seen[c] = true
		}
	}
}

func TestBaseCandidates_NoSuffix(t *testing.T) {
	t.Parallel()

	assert.Empty(t, BaseCandidates("zzqx"))
	assert.Empty(t, BaseCandidates("glass"))
}
