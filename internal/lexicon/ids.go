package lexicon

import (
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/myvocab-backend/internal/domain"
)

// Derived rows get name-based ids under the entry's namespace, so deriving
// the same document twice yields the same ids.

func derivedID(entryID uuid.UUID, parts ...string) uuid.UUID {
	return uuid.NewSHA1(entryID, []byte(strings.Join(parts, "|")))
}

func alternateHeadwordID(entryID uuid.UUID, rank int) uuid.UUID {
	return derivedID(entryID, "ahw", strconv.Itoa(rank))
}

func definedRunOnID(entryID uuid.UUID, rank int) uuid.UUID {
	return derivedID(entryID, "dro", strconv.Itoa(rank))
}

func undefinedRunOnID(entryID uuid.UUID, rank int) uuid.UUID {
	return derivedID(entryID, "uro", strconv.Itoa(rank))
}

func variantID(entryID uuid.UUID, path string, rank int) uuid.UUID {
	return derivedID(entryID, "vrs", path, strconv.Itoa(rank))
}

func inflectionID(entryID uuid.UUID, path string, rank int) uuid.UUID {
	return derivedID(entryID, "ins", path, strconv.Itoa(rank))
}

func pronunciationID(entryID uuid.UUID, owner domain.Owner, rank int) uuid.UUID {
	return derivedID(entryID, "prs", owner.Kind().String(), owner.ID().String(), strconv.Itoa(rank))
}

// StemID is the id a stem at rank receives when first persisted.
func StemID(entryID uuid.UUID, rank int) uuid.UUID {
	return derivedID(entryID, "stem", strconv.Itoa(rank))
}
