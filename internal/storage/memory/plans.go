package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/markdg/habit-hub/internal/storage"
)

// PlansStorage implements storage.PlansStorage in memory.
type PlansStorage struct {
	mu    sync.RWMutex
	plans map[uuid.UUID]storage.StoredPlan
}

func NewPlansStorage() *PlansStorage {
	return &PlansStorage{
		plans: make(map[uuid.UUID]storage.StoredPlan),
	}
}

func (s *PlansStorage) GetActivePlan(ctx context.Context) (storage.StoredPlan, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.plans {
		if p.IsActive {
			return p, true, nil
		}
	}

	return storage.StoredPlan{}, false, nil
}

func (s *PlansStorage) SaveActivePlan(ctx context.Context, name string, planData []byte) (storage.StoredPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for id, p := range s.plans {
		if p.IsActive {
			p.IsActive = false
			p.UpdatedAt = now
			s.plans[id] = p
		}
	}

	plan := storage.StoredPlan{
		ID:        uuid.New(),
		Name:      name,
		PlanData:  append([]byte(nil), planData...),
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.plans[plan.ID] = plan

	return plan, nil
}
