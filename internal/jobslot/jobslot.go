// Package jobslot tracks the single analysis run a front end may have in
// flight. A second start is refused until the first one finishes.
package jobslot

import (
	"context"
	"sync"

	"github.com/oukeidos/sentiview/internal/apperrors"
	"github.com/oukeidos/sentiview/internal/logger"
)

// ErrBusy is returned by TryStart while a run is outstanding.
var ErrBusy = apperrors.New(apperrors.KindBusy, "", nil)

// Slot holds at most one active run. The zero value is ready to use.
type Slot struct {
	mu     sync.Mutex
	nextID uint64
	active uint64
	cancel context.CancelFunc
}

// TryStart claims the slot. cancel is invoked if the run is cancelled
// through Cancel; it may be nil.
func (s *Slot) TryStart(cancel context.CancelFunc) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active != 0 {
		return 0, ErrBusy
	}
	s.nextID++
	s.active = s.nextID
	s.cancel = cancel
	return s.active, nil
}

// Finish releases the slot if id is still the active run. It reports
// whether id was current; a stale id means the run was cancelled and its
// results should be dropped.
func (s *Slot) Finish(id uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id == 0 || s.active != id {
		return false
	}
	s.active = 0
	s.cancel = nil
	return true
}

// Current reports whether id is still the active run.
func (s *Slot) Current(id uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return id != 0 && s.active == id
}

// Cancel aborts the active run, if any, and frees the slot.
func (s *Slot) Cancel(reason string) bool {
	s.mu.Lock()
	cancel := s.cancel
	id := s.active
	s.active = 0
	s.cancel = nil
	s.mu.Unlock()

	if id == 0 {
		return false
	}
	logger.Info("Cancelling analysis", "run", id, "reason", reason)
	if cancel != nil {
		cancel()
	}
	return true
}

func (s *Slot) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active != 0
}
