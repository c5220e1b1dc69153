package entry

import (
	"cmp"
	"slices"

	"github.com/google/uuid"
)

// sortDetails orders details by the position of their sense, then by rank.
func sortDetails(details []detailRow, senseOrder map[uuid.UUID]int) {
	slices.SortFunc(details, func(a, b detailRow) int {
		if c := cmp.Compare(senseOrder[a.SenseID], senseOrder[b.SenseID]); c != 0 {
			return c
		}
		return cmp.Compare(a.Rank, b.Rank)
	})
}
