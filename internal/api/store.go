package api

import (
	"cmp"
	"slices"
	"sync"

	"github.com/samcharles93/synthkit/internal/synth"
)

// DatasetStore keeps generated datasets in memory, keyed by ID.
type DatasetStore struct {
	mu       sync.RWMutex
	datasets map[string]*synth.Dataset
}

func NewDatasetStore() *DatasetStore {
	return &DatasetStore{
		datasets: make(map[string]*synth.Dataset),
	}
}

func (s *DatasetStore) Save(ds *synth.Dataset) {
	s.mu.Lock()
	s.datasets[ds.ID] = ds
	s.mu.Unlock()
}

func (s *DatasetStore) Get(id string) (*synth.Dataset, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ds, ok := s.datasets[id]
	return ds, ok
}

func (s *DatasetStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.datasets[id]; !ok {
		return false
	}
	delete(s.datasets, id)
	return true
}

// List returns all datasets, oldest first.
func (s *DatasetStore) List() []*synth.Dataset {
	s.mu.RLock()
	out := make([]*synth.Dataset, 0, len(s.datasets))
	for _, ds := range s.datasets {
		out = append(out, ds)
	}
	s.mu.RUnlock()

	slices.SortFunc(out, func(a, b *synth.Dataset) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}

func (s *DatasetStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.datasets)
}

