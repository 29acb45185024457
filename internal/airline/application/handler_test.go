package application

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mateusmacedo/go-airline/internal/airline/domain"
	pkgApp "github.com/mateusmacedo/go-airline/pkg/application"
	pkgDomain "github.com/mateusmacedo/go-airline/pkg/domain"
	pkgInfra "github.com/mateusmacedo/go-airline/pkg/infrastructure"
)

type recordingEventHandler struct {
	mu     sync.Mutex
	events []AirlineEventData
}

func (h *recordingEventHandler) Handle(_ context.Context, event pkgDomain.Event[AirlineEventData]) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, event.Payload())
	return nil
}

func (h *recordingEventHandler) received() []AirlineEventData {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]AirlineEventData(nil), h.events...)
}

type failingEventBus struct{}

func (failingEventBus) RegisterHandler(string, pkgApp.EventHandler[pkgDomain.Event[AirlineEventData], AirlineEventData]) {
}

func (failingEventBus) Publish(context.Context, pkgDomain.Event[AirlineEventData]) error {
	return errors.New("broker unavailable")
}

func newTestHandlers(t *testing.T, store *fakeStore) (Handlers, *recordingEventHandler) {
	t.Helper()

	eventBus := pkgInfra.NewSimpleEventBus[pkgDomain.Event[AirlineEventData], AirlineEventData](pkgApp.NopLogger{})
	recorder := &recordingEventHandler{}
	for _, name := range EventNames {
		eventBus.RegisterHandler(name, recorder)
	}

	ids := 0
	idGenerator := func() string {
		ids++
		return "evt-" + strconv.Itoa(ids)
	}

	return NewHandlers(newTestService(t, store), eventBus, idGenerator, pkgApp.NopLogger{}), recorder
}

func TestHandlers_RegisterUserPublishesEvent(t *testing.T) {
	handlers, recorder := newTestHandlers(t, &fakeStore{})
	ctx := context.Background()

	err := handlers.RegisterUser.Handle(ctx, NewRegisterUserCommand(RegisterUserData{Username: "alice", Password: "pw1"}))
	require.NoError(t, err)

	err = handlers.RegisterUser.Handle(ctx, NewRegisterUserCommand(RegisterUserData{Username: "alice", Password: "pw1"}))
	assert.ErrorIs(t, err, domain.ErrDuplicateUsername)

	events := recorder.received()
	require.Len(t, events, 1)
	assert.Equal(t, UserRegisteredEvent, events[0].Name)
	assert.Equal(t, "alice", events[0].Username)
	assert.Equal(t, "evt-1", events[0].ID)
	assert.False(t, events[0].OccurredAt.IsZero())
}

func TestHandlers_AddFlightAndQueries(t *testing.T) {
	handlers, recorder := newTestHandlers(t, &fakeStore{})
	ctx := context.Background()

	err := handlers.AddFlight.Handle(ctx, NewAddFlightCommand(AddFlightData{FlightID: "F1", Origin: "NYC", Destination: "LAX", SeatsAvailable: 3}))
	require.NoError(t, err)

	flights, err := handlers.ListFlights.Handle(ctx, NewListFlightsQuery())
	require.NoError(t, err)
	assert.Equal(t, []domain.Flight{{FlightID: "F1", Origin: "NYC", Destination: "LAX", SeatsAvailable: 3}}, flights)

	flight, err := handlers.FindFlight.Handle(ctx, NewFindFlightQuery(FindFlightData{FlightID: "F1"}))
	require.NoError(t, err)
	assert.Equal(t, "LAX", flight.Destination)

	_, err = handlers.FindFlight.Handle(ctx, NewFindFlightQuery(FindFlightData{FlightID: "F9"}))
	assert.ErrorIs(t, err, domain.ErrFlightNotFound)

	events := recorder.received()
	require.Len(t, events, 1)
	assert.Equal(t, FlightAddedEvent, events[0].Name)
	assert.Equal(t, 3, events[0].Seats)
}

func TestHandlers_LoginFailureIsInvalidCredentials(t *testing.T) {
	handlers, _ := newTestHandlers(t, seededStore())

	_, err := handlers.Login.Handle(context.Background(), NewLoginQuery(LoginData{Username: "alice", Password: "nope"}))
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	user, err := handlers.Login.Handle(context.Background(), NewLoginQuery(LoginData{Username: "alice", Password: "pw1"}))
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
}

func TestHandlers_BookFlight(t *testing.T) {
	handlers, recorder := newTestHandlers(t, seededStore())
	ctx := context.Background()

	err := handlers.BookFlight.Handle(ctx, NewBookFlightCommand(BookFlightData{Username: "alice", FlightID: "F1", Seats: 2}))
	require.NoError(t, err)

	err = handlers.BookFlight.Handle(ctx, NewBookFlightCommand(BookFlightData{Username: "alice", FlightID: "F1", Seats: 2}))
	assert.ErrorIs(t, err, domain.ErrInsufficientSeats)

	reservations, err := handlers.ListReservations.Handle(ctx, NewListReservationsQuery(ListReservationsData{Username: "alice"}))
	require.NoError(t, err)
	assert.Equal(t, []domain.Reservation{{FlightID: "F1", Seats: 2}}, reservations)

	events := recorder.received()
	require.Len(t, events, 1)
	assert.Equal(t, AirlineEventData{
		ID:         events[0].ID,
		Name:       FlightBookedEvent,
		Username:   "alice",
		FlightID:   "F1",
		Seats:      2,
		OccurredAt: events[0].OccurredAt,
	}, events[0])
}

func TestHandlers_PublishFailureDoesNotFailCommand(t *testing.T) {
	store := &fakeStore{}
	handlers := NewHandlers(newTestService(t, store), failingEventBus{}, func() string { return "id" }, pkgApp.NopLogger{})

	err := handlers.RegisterUser.Handle(context.Background(), NewRegisterUserCommand(RegisterUserData{Username: "alice", Password: "pw1"}))

	require.NoError(t, err)
	assert.Equal(t, 1, store.userSaves)
}

func TestHandlers_CancelledContext(t *testing.T) {
	store := seededStore()
	handlers, _ := newTestHandlers(t, store)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := handlers.BookFlight.Handle(ctx, NewBookFlightCommand(BookFlightData{Username: "alice", FlightID: "F1", Seats: 1}))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, store.bookingSaves)
}

func TestHandlers_DispatchThroughBuses(t *testing.T) {
	handlers, _ := newTestHandlers(t, seededStore())
	ctx := context.Background()

	bookBus := pkgInfra.NewSimpleCommandBus[pkgDomain.Command[BookFlightData], BookFlightData](pkgApp.NopLogger{})
	bookBus.RegisterHandler(BookFlightCommand, handlers.BookFlight)
	reservationsBus := pkgInfra.NewSimpleQueryBus[pkgDomain.Query[ListReservationsData], ListReservationsData, []domain.Reservation](pkgApp.NopLogger{})
	reservationsBus.RegisterHandler(ListReservationsQuery, handlers.ListReservations)

	require.NoError(t, bookBus.Dispatch(ctx, NewBookFlightCommand(BookFlightData{Username: "alice", FlightID: "F1", Seats: 3})))

	reservations, err := reservationsBus.Dispatch(ctx, NewListReservationsQuery(ListReservationsData{Username: "alice"}))
	require.NoError(t, err)
	assert.Equal(t, []domain.Reservation{{FlightID: "F1", Seats: 3}}, reservations)
}
