package store

import (
	"github.com/inferlab/inquest/internal/cf"
	"github.com/inferlab/inquest/internal/domain"
)

// FactStore accumulates uncertain evidence per (parameter, instance) over
// one consultation. It is not safe for concurrent use; a consultation runs
// on a single goroutine.
type FactStore struct {
	entries map[domain.FactKey]domain.Evidence
}

func NewFactStore() *FactStore {
	return &FactStore{entries: make(map[domain.FactKey]domain.Evidence)}
}

// ValuesOf returns the live evidence recorded for the pair, creating an
// empty entry on first access that persists for later lookups.
func (s *FactStore) ValuesOf(param string, inst domain.Instance) domain.Evidence {
	key := domain.FactKey{Param: param, Instance: inst}
	ev, ok := s.entries[key]
	if !ok {
		ev = make(domain.Evidence)
		s.entries[key] = ev
	}
	return ev
}

// CertaintyOf returns the accumulated certainty for one candidate value,
// cf.Unknown when nothing is recorded.
func (s *FactStore) CertaintyOf(param string, inst domain.Instance, val domain.Value) cf.Factor {
	return s.ValuesOf(param, inst)[val]
}

// Accumulate folds new evidence for a value into the store. Existing and
// incoming certainty combine with cf.Or, so repeating identical evidence
// strengthens the stored belief. Intentional; do not replace with an
// overwrite or a sum.
func (s *FactStore) Accumulate(param string, inst domain.Instance, val domain.Value, c cf.Factor) {
	ev := s.ValuesOf(param, inst)
	ev[val] = cf.Or(ev[val], c)
}

// Snapshot returns an independent copy of the evidence for the pair.
func (s *FactStore) Snapshot(param string, inst domain.Instance) domain.Evidence {
	ev := s.ValuesOf(param, inst)
	out := make(domain.Evidence, len(ev))
	for v, c := range ev {
		out[v] = c
	}
	return out
}

// Reset drops all recorded evidence.
func (s *FactStore) Reset() {
	s.entries = make(map[domain.FactKey]domain.Evidence)
}

// Len reports the number of live (parameter, instance) entries.
func (s *FactStore) Len() int {
	return len(s.entries)
}
