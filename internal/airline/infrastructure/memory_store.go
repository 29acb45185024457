package infrastructure

import (
	"context"
	"sync"

	"github.com/mateusmacedo/go-airline/internal/airline/domain"
	pkgApp "github.com/mateusmacedo/go-airline/pkg/application"
)

// InMemoryStore é uma implementação em memória do Store; nada sobrevive ao processo.
type InMemoryStore struct {
	mu      sync.RWMutex
	users   []domain.User
	flights []domain.Flight
	failErr error
	logger  pkgApp.AppLogger
}

func NewInMemoryStore(logger pkgApp.AppLogger, seed domain.Snapshot) *InMemoryStore {
	return &InMemoryStore{
		users:   cloneUsers(seed.Users),
		flights: cloneFlights(seed.Flights),
		logger:  logger,
	}
}

// FailWith faz todas as gravações seguintes falharem com err; nil restaura o comportamento normal.
func (s *InMemoryStore) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failErr = err
}

func (s *InMemoryStore) Load(ctx context.Context) (domain.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pkgApp.LogDebug(ctx, s.logger, "snapshot loaded", map[string]interface{}{
		"users":   len(s.users),
		"flights": len(s.flights),
	})
	return domain.Snapshot{Users: cloneUsers(s.users), Flights: cloneFlights(s.flights)}, nil
}

func (s *InMemoryStore) SaveUsers(ctx context.Context, users []domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failErr != nil {
		return s.failErr
	}
	s.users = cloneUsers(users)
	pkgApp.LogDebug(ctx, s.logger, "users saved", map[string]interface{}{"users": len(users)})
	return nil
}

func (s *InMemoryStore) SaveFlights(ctx context.Context, flights []domain.Flight) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failErr != nil {
		return s.failErr
	}
	s.flights = cloneFlights(flights)
	pkgApp.LogDebug(ctx, s.logger, "flights saved", map[string]interface{}{"flights": len(flights)})
	return nil
}

func (s *InMemoryStore) SaveBooking(ctx context.Context, users []domain.User, flights []domain.Flight) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failErr != nil {
		return s.failErr
	}
	s.users = cloneUsers(users)
	s.flights = cloneFlights(flights)
	pkgApp.LogDebug(ctx, s.logger, "booking saved", nil)
	return nil
}

func cloneUsers(users []domain.User) []domain.User {
	out := make([]domain.User, len(users))
	for i, user := range users {
		out[i] = user.Clone()
	}
	return out
}

func cloneFlights(flights []domain.Flight) []domain.Flight {
	out := make([]domain.Flight, len(flights))
	copy(out, flights)
	return out
}
