package lexicon

import (
	"crypto/sha256"
	"encoding/hex"
	"slices"
	"strings"

	"github.com/google/uuid"
)

// Fingerprint identifies the lexical family of a set of entries: the
// SHA-256 of the sorted, de-duplicated entry ids joined by "|". Order and
// repetition of ids do not change the result.
func Fingerprint(entryIDs []uuid.UUID) string {
	ids := make([]string, 0, len(entryIDs))
	for _, id := range entryIDs {
		ids = append(ids, id.String())
	}
	slices.Sort(ids)
	ids = slices.Compact(ids)

	sum := sha256.Sum256([]byte(strings.Join(ids, "|")))
	return hex.EncodeToString(sum[:])
}
