package resultstore

import (
	"sync"
	"sync/atomic"

	"github.com/vk/gridcalc/internal/celladdr"
	"github.com/vk/gridcalc/internal/sheet"
)

// Store is an in-memory, write-once map from cell address to result.
type Store struct {
	results sync.Map // Key: celladdr.Address, Value: sheet.CellResult
	count   atomic.Int64
}

// New creates a new, empty result store.
func New() *Store {
	return &Store{}
}

// Set records the result for addr. It returns false, leaving the stored
// value untouched, if addr already has a result.
func (s *Store) Set(addr celladdr.Address, res sheet.CellResult) bool {
	if _, loaded := s.results.LoadOrStore(addr, res); loaded {
		return false
	}
	s.count.Add(1)
	return true
}

// Get retrieves the result for addr. The boolean is false if the cell has
// not completed yet.
func (s *Store) Get(addr celladdr.Address) (sheet.CellResult, bool) {
	v, ok := s.results.Load(addr)
	if !ok {
		return sheet.CellResult{}, false
	}
	return v.(sheet.CellResult), true
}

// Len returns the number of completed cells.
func (s *Store) Len() int {
	return int(s.count.Load())
}
