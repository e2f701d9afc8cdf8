package service

import (
	"github.com/saravanapriyaa21/take-it-right/internal/domain"
)

// Finding is a conflict raised by one check, together with whether it is an
// absolute block.
type Finding struct {
	Conflict domain.Conflict
	Block    bool
}

func blocking(risk string, severity int, category domain.Category) Finding {
	return Finding{Conflict: domain.NewConflict(risk, severity, category), Block: true}
}

func advisory(risk string, severity int, category domain.Category) Finding {
	return Finding{Conflict: domain.NewConflict(risk, severity, category)}
}

// findingSet accumulates findings in emission order for one evaluation.
type findingSet struct {
	conflicts     []domain.Conflict
	absoluteBlock bool
}

func (s *findingSet) add(findings ...Finding) {
	for _, f := range findings {
		s.conflicts = append(s.conflicts, f.Conflict)
		if f.Block {
			s.absoluteBlock = true
		}
	}
}
