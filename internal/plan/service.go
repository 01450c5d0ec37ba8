package plan

import (
	"context"
	"sync"

	"github.com/markdg/habit-hub/internal/storage"
)

// Service holds the currently active weekly program and swaps it when a new
// plan is saved. Reads vastly outnumber writes; the program value is copied
// out under a read lock.
type Service struct {
	storage storage.PlansStorage

	mu      sync.RWMutex
	current WeeklyProgram
	source  Source
}

// NewService creates a plan service seeded with a resolved program.
func NewService(st storage.PlansStorage, res Resolution) *Service {
	return &Service{
		storage: st,
		current: res.Program,
		source:  res.Source,
	}
}

// Active returns the program in effect.
func (s *Service) Active() WeeklyProgram {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// ActiveSource reports where the active program came from.
func (s *Service) ActiveSource() Source {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.source
}

// Update parses and validates a new program, persists it as the active plan,
// and swaps it in. On any error the previous program stays in effect.
func (s *Service) Update(ctx context.Context, name string, data []byte) (WeeklyProgram, error) {
	program, err := ParseProgram(name, data)
	if err != nil {
		return WeeklyProgram{}, err
	}

	if _, err := s.storage.SaveActivePlan(ctx, name, data); err != nil {
		return WeeklyProgram{}, err
	}

	s.mu.Lock()
	s.current = program
	s.source = SourceRemote
	s.mu.Unlock()

	return program, nil
}
