package tracker

import (
	"cmp"
	"slices"

	"github.com/AlexZinkM/otc-desk/internal/model"
)

// SortedTimeline returns the transitions ordered by TransitionedAt.
// The backend does not guarantee arrival order; ties keep arrival order.
func SortedTimeline(transitions []model.Transition) []model.Transition {
	out := slices.Clone(transitions)
	slices.SortStableFunc(out, func(a, b model.Transition) int {
		return cmp.Compare(a.TransitionedAt, b.TransitionedAt)
	})
	return out
}
