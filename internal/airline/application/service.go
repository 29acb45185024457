package application

import (
	"context"
	"strconv"
	"sync"

	"github.com/mateusmacedo/go-airline/internal/airline/domain"
	pkgApp "github.com/mateusmacedo/go-airline/pkg/application"
)

// ReservationService é o único dono do estado em memória (usuários e voos).
// Toda mutação é montada sobre cópias, persistida e só então aplicada, de modo que
// uma falha de gravação nunca deixa o estado em memória divergente do disco.
type ReservationService struct {
	mu      sync.Mutex
	store   domain.Store
	users   []domain.User
	flights []domain.Flight
	logger  pkgApp.AppLogger
}

func NewReservationService(ctx context.Context, store domain.Store, logger pkgApp.AppLogger) (*ReservationService, error) {
	snapshot, err := store.Load(ctx)
	if err != nil {
		pkgApp.LogError(ctx, logger, "failed to load reservations", err, nil)
		return nil, &domain.PersistenceError{Op: "load", Err: err}
	}

	pkgApp.LogInfo(ctx, logger, "reservations loaded", map[string]interface{}{
		"users":   len(snapshot.Users),
		"flights": len(snapshot.Flights),
	})

	return &ReservationService{
		store:   store,
		users:   snapshot.Users,
		flights: snapshot.Flights,
		logger:  logger,
	}, nil
}

func (s *ReservationService) Register(ctx context.Context, username, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.userIndex(username) >= 0 {
		return domain.ErrDuplicateUsername
	}

	users := s.cloneUsers()
	users = append(users, domain.NewUser(username, password))

	if err := s.store.SaveUsers(ctx, users); err != nil {
		pkgApp.LogError(ctx, s.logger, "failed to save users", err, map[string]interface{}{"username": username})
		return &domain.PersistenceError{Op: "save users", Err: err}
	}

	s.users = users
	return nil
}

// Login devolve o usuário apenas quando nome e senha coincidem exatamente.
func (s *ReservationService) Login(_ context.Context, username, password string) (domain.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if user.Matches(username, password) {
			return user.Clone(), true
		}
	}
	return domain.User{}, false
}

// AddFlight acrescenta o voo sem verificar unicidade do flight_id.
func (s *ReservationService) AddFlight(ctx context.Context, flight domain.Flight) error {
	if flight.SeatsAvailable < 0 {
		return &domain.ValidationError{
			Field:  "seats_available",
			Value:  strconv.Itoa(flight.SeatsAvailable),
			Reason: "must not be negative",
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	flights := append(s.cloneFlights(), flight)

	if err := s.store.SaveFlights(ctx, flights); err != nil {
		pkgApp.LogError(ctx, s.logger, "failed to save flights", err, map[string]interface{}{"flight_id": flight.FlightID})
		return &domain.PersistenceError{Op: "save flights", Err: err}
	}

	s.flights = flights
	return nil
}

func (s *ReservationService) Flights(_ context.Context) []domain.Flight {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cloneFlights()
}

// FindFlight devolve o primeiro voo com o identificador informado.
func (s *ReservationService) FindFlight(_ context.Context, flightID string) (domain.Flight, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.flightIndex(flightID); i >= 0 {
		return s.flights[i], true
	}
	return domain.Flight{}, false
}

// Book reserva assentos no primeiro voo com flightID e grava usuários e voos juntos.
func (s *ReservationService) Book(ctx context.Context, username, flightID string, seats int) (domain.Reservation, error) {
	if seats < 1 {
		return domain.Reservation{}, &domain.ValidationError{
			Field:  "seats",
			Value:  strconv.Itoa(seats),
			Reason: "must be at least 1",
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ui := s.userIndex(username)
	if ui < 0 {
		return domain.Reservation{}, domain.ErrUserNotFound
	}

	fi := s.flightIndex(flightID)
	if fi < 0 {
		return domain.Reservation{}, domain.ErrFlightNotFound
	}
	if !s.flights[fi].Bookable() {
		return domain.Reservation{}, domain.ErrNoSeatsAvailable
	}
	if seats > s.flights[fi].SeatsAvailable {
		return domain.Reservation{}, domain.ErrInsufficientSeats
	}

	reservation := domain.Reservation{FlightID: flightID, Seats: seats}

	flights := s.cloneFlights()
	flights[fi].SeatsAvailable -= seats

	users := s.cloneUsers()
	users[ui].Reservations = append(users[ui].Reservations, reservation)

	if err := s.store.SaveBooking(ctx, users, flights); err != nil {
		pkgApp.LogError(ctx, s.logger, "failed to save booking", err, map[string]interface{}{
			"username":  username,
			"flight_id": flightID,
			"seats":     seats,
		})
		return domain.Reservation{}, &domain.PersistenceError{Op: "save booking", Err: err}
	}

	s.users = users
	s.flights = flights
	return reservation, nil
}

func (s *ReservationService) Reservations(_ context.Context, username string) ([]domain.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ui := s.userIndex(username)
	if ui < 0 {
		return nil, domain.ErrUserNotFound
	}
	return s.users[ui].Clone().Reservations, nil
}

func (s *ReservationService) userIndex(username string) int {
	for i, user := range s.users {
		if user.Username == username {
			return i
		}
	}
	return -1
}

func (s *ReservationService) flightIndex(flightID string) int {
	for i, flight := range s.flights {
		if flight.FlightID == flightID {
			return i
		}
	}
	return -1
}

func (s *ReservationService) cloneUsers() []domain.User {
	users := make([]domain.User, len(s.users))
	for i, user := range s.users {
		users[i] = user.Clone()
	}
	return users
}

func (s *ReservationService) cloneFlights() []domain.Flight {
	flights := make([]domain.Flight, len(s.flights))
	copy(flights, s.flights)
	return flights
}
