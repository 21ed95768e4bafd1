package repositories

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"trip-planner-service/internal/domain"
)

// MemoryTripRepository keeps trips in process memory. Used by the offline
// CLI and tests; it does not survive restarts.
type MemoryTripRepository struct {
	mu    sync.RWMutex
	trips map[string]*domain.TripRecord
}

func NewMemoryTripRepository() *MemoryTripRepository {
	return &MemoryTripRepository{trips: make(map[string]*domain.TripRecord)}
}

func (m *MemoryTripRepository) SaveTrip(_ context.Context, trip *domain.TripRecord) error {
	if trip == nil || trip.ID == "" {
		return fmt.Errorf("save trip: trip id must not be empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.trips[trip.ID] = cloneTrip(trip)
	return nil
}

func (m *MemoryTripRepository) GetTrip(_ context.Context, id string) (*domain.TripRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.trips[id]
	if !ok {
		return nil, domain.ErrTripNotFound
	}
	return cloneTrip(t), nil
}

func (m *MemoryTripRepository) ListTrips(_ context.Context, limit int) ([]*domain.TripRecord, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	m.mu.RLock()
	out := make([]*domain.TripRecord, 0, len(m.trips))
	for _, t := range m.trips {
		h := *t
		h.Stops = nil
		h.Logs = nil
		out = append(out, &h)
	}
	m.mu.RUnlock()

	slices.SortFunc(out, func(a, b *domain.TripRecord) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})

	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MemoryTripRepository) UpdateStatus(_ context.Context, id string, status domain.TripStatus) error {
	if !status.Valid() {
		return &domain.ValidationError{Field: "status", Reason: fmt.Sprintf("unknown status %q", status)}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.trips[id]
	if !ok {
		return domain.ErrTripNotFound
	}
	t.Status = status
	return nil
}

func cloneTrip(t *domain.TripRecord) *domain.TripRecord {
	c := *t
	c.Stops = slices.Clone(t.Stops)
	if t.Logs == nil {
		return &c
	}
	c.Logs = make([]domain.DailyLog, len(t.Logs))
	for i, l := range t.Logs {
		l.Segments = slices.Clone(l.Segments)
		if l.Warning != nil {
			w := *l.Warning
			l.Warning = &w
		}
		c.Logs[i] = l
	}
	return &c
}
