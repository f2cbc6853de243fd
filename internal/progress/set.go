package progress

import (
	"math"
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/abhisek/iqro/internal/kv"
)

// Set is a durable set of item ids, used for completion tracking.
type Set struct {
	mu    sync.RWMutex
	items map[string]struct{}
	p     persister
}

// NewSet creates an empty Set bound to key. Call Load before use.
func NewSet(storage kv.Storage, key string, log *zap.SugaredLogger) *Set {
	return &Set{
		items: make(map[string]struct{}),
		p:     newPersister(storage, key, log),
	}
}

// Load reads the persisted ids. It never fails: unreadable or corrupt state
// starts the set empty.
func (s *Set) Load() {
	var ids []string
	s.mu.Lock()
	defer s.mu.Unlock()
	s.p.load(&ids)
	s.items = make(map[string]struct{}, len(ids))
	for _, id := range ids {
		s.items[id] = struct{}{}
	}
}

// Toggle flips membership of id and returns the new membership.
func (s *Set) Toggle(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, marked := s.items[id]
	if marked {
		delete(s.items, id)
	} else {
		s.items[id] = struct{}{}
	}
	s.saveLocked()
	return !marked
}

// Mark adds id. Marking twice is a no-op and does not rewrite storage.
func (s *Set) Mark(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; ok {
		return
	}
	s.items[id] = struct{}{}
	s.saveLocked()
}

// Unmark removes id if present.
func (s *Set) Unmark(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return
	}
	delete(s.items, id)
	s.saveLocked()
}

// Reset clears the set in memory and removes the persisted record.
func (s *Set) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make(map[string]struct{})
	s.p.clear()
}

// IsMarked reports whether id is in the set.
func (s *Set) IsMarked(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.items[id]
	return ok
}

// Items returns the ids in sorted order.
func (s *Set) Items() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedLocked()
}

// Len returns the number of ids in the set.
func (s *Set) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Degraded reports whether storage has failed and the set is memory-only.
func (s *Set) Degraded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.p.degraded
}

// Ratio is a completion statistic for one level.
type Ratio struct {
	Level   int
	Count   int
	Total   int
	Percent int
}

// Fraction returns Count/Total in [0,1], or 0 for an empty level.
func (r Ratio) Fraction() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Count) / float64(r.Total)
}

// CompletionRatio counts how many of the level's item ids are in the set.
// Percent is rounded to the nearest whole number.
func (s *Set) CompletionRatio(level int, itemIDs []string) Ratio {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r := Ratio{Level: level, Total: len(itemIDs)}
	for _, id := range itemIDs {
		if _, ok := s.items[id]; ok {
			r.Count++
		}
	}
	if r.Total > 0 {
		r.Percent = int(math.Round(float64(r.Count) * 100 / float64(r.Total)))
	}
	return r
}

func (s *Set) saveLocked() {
	s.p.save(s.sortedLocked())
}

func (s *Set) sortedLocked() []string {
	ids := make([]string, 0, len(s.items))
	for id := range s.items {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
