package service

import (
	"github.com/saravanapriyaa21/take-it-right/internal/domain"
)

// DeduplicateConflicts keeps one conflict per key. A later conflict replaces
// the kept one only when its severity is strictly greater, and the result
// keeps the position at which each key first appeared.
func DeduplicateConflicts(conflicts []domain.Conflict) []domain.Conflict {
	index := make(map[string]int, len(conflicts))
	out := make([]domain.Conflict, 0, len(conflicts))
	for _, c := range conflicts {
		key := c.Key()
		if i, ok := index[key]; ok {
			if c.Severity > out[i].Severity {
				out[i] = c
			}
			continue
		}
		index[key] = len(out)
		out = append(out, c)
	}
	return out
}
