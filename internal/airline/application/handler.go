package application

import (
	"context"
	"time"

	"github.com/mateusmacedo/go-airline/internal/airline/domain"
	pkgApp "github.com/mateusmacedo/go-airline/pkg/application"
	pkgDomain "github.com/mateusmacedo/go-airline/pkg/domain"
)

type (
	RegisterUserBus     = pkgApp.CommandBus[pkgDomain.Command[RegisterUserData], RegisterUserData]
	AddFlightBus        = pkgApp.CommandBus[pkgDomain.Command[AddFlightData], AddFlightData]
	BookFlightBus       = pkgApp.CommandBus[pkgDomain.Command[BookFlightData], BookFlightData]
	LoginBus            = pkgApp.QueryBus[pkgDomain.Query[LoginData], LoginData, domain.User]
	ListFlightsBus      = pkgApp.QueryBus[pkgDomain.Query[ListFlightsData], ListFlightsData, []domain.Flight]
	FindFlightBus       = pkgApp.QueryBus[pkgDomain.Query[FindFlightData], FindFlightData, domain.Flight]
	ListReservationsBus = pkgApp.QueryBus[pkgDomain.Query[ListReservationsData], ListReservationsData, []domain.Reservation]
	AirlineEventBus     = pkgApp.EventBus[pkgDomain.Event[AirlineEventData], AirlineEventData]
)

// eventPublisher monta e publica eventos depois que a mutação já foi persistida.
// Falhas de publicação são registradas, mas não desfazem a operação.
type eventPublisher struct {
	eventBus    AirlineEventBus
	idGenerator pkgDomain.IDGenerator[string]
	now         func() time.Time
	logger      pkgApp.AppLogger
}

func (p eventPublisher) publish(ctx context.Context, data AirlineEventData) {
	data.ID = p.idGenerator()
	data.OccurredAt = p.now().UTC()
	if err := p.eventBus.Publish(ctx, NewAirlineEvent(data)); err != nil {
		pkgApp.LogError(ctx, p.logger, "failed to publish event", err, map[string]interface{}{
			"event_name": data.Name,
			"event_id":   data.ID,
		})
	}
}

type registerUserHandler struct {
	service *ReservationService
	events  eventPublisher
	logger  pkgApp.AppLogger
}

func (h *registerUserHandler) Handle(ctx context.Context, command pkgDomain.Command[RegisterUserData]) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	data := command.Payload()
	if err := h.service.Register(ctx, data.Username, data.Password); err != nil {
		pkgApp.LogInfo(ctx, h.logger, "registration rejected", map[string]interface{}{
			"username": data.Username,
			"reason":   err.Error(),
		})
		return err
	}

	pkgApp.LogInfo(ctx, h.logger, "user registered", map[string]interface{}{"username": data.Username})
	h.events.publish(ctx, AirlineEventData{Name: UserRegisteredEvent, Username: data.Username})
	return nil
}

type addFlightHandler struct {
	service *ReservationService
	events  eventPublisher
	logger  pkgApp.AppLogger
}

func (h *addFlightHandler) Handle(ctx context.Context, command pkgDomain.Command[AddFlightData]) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	data := command.Payload()
	flight := domain.Flight{
		FlightID:       data.FlightID,
		Origin:         data.Origin,
		Destination:    data.Destination,
		SeatsAvailable: data.SeatsAvailable,
	}
	if err := h.service.AddFlight(ctx, flight); err != nil {
		return err
	}

	pkgApp.LogInfo(ctx, h.logger, "flight added", map[string]interface{}{"flight": flight})
	h.events.publish(ctx, AirlineEventData{Name: FlightAddedEvent, FlightID: flight.FlightID, Seats: flight.SeatsAvailable})
	return nil
}

type bookFlightHandler struct {
	service *ReservationService
	events  eventPublisher
	logger  pkgApp.AppLogger
}

func (h *bookFlightHandler) Handle(ctx context.Context, command pkgDomain.Command[BookFlightData]) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	data := command.Payload()
	reservation, err := h.service.Book(ctx, data.Username, data.FlightID, data.Seats)
	if err != nil {
		pkgApp.LogInfo(ctx, h.logger, "booking rejected", map[string]interface{}{
			"username":  data.Username,
			"flight_id": data.FlightID,
			"seats":     data.Seats,
			"reason":    err.Error(),
		})
		return err
	}

	pkgApp.LogInfo(ctx, h.logger, "flight booked", map[string]interface{}{
		"username":    data.Username,
		"reservation": reservation,
	})
	h.events.publish(ctx, AirlineEventData{
		Name:     FlightBookedEvent,
		Username: data.Username,
		FlightID: reservation.FlightID,
		Seats:    reservation.Seats,
	})
	return nil
}

type loginHandler struct {
	service *ReservationService
	logger  pkgApp.AppLogger
}

func (h *loginHandler) Handle(ctx context.Context, query pkgDomain.Query[LoginData]) (domain.User, error) {
	if ctx.Err() != nil {
		return domain.User{}, ctx.Err()
	}

	data := query.Payload()
	user, ok := h.service.Login(ctx, data.Username, data.Password)
	if !ok {
		pkgApp.LogInfo(ctx, h.logger, "login failed", map[string]interface{}{"username": data.Username})
		return domain.User{}, domain.ErrInvalidCredentials
	}

	pkgApp.LogInfo(ctx, h.logger, "login succeeded", map[string]interface{}{"username": data.Username})
	return user, nil
}

type listFlightsHandler struct {
	service *ReservationService
}

func (h *listFlightsHandler) Handle(ctx context.Context, _ pkgDomain.Query[ListFlightsData]) ([]domain.Flight, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	return h.service.Flights(ctx), nil
}

type findFlightHandler struct {
	service *ReservationService
}

func (h *findFlightHandler) Handle(ctx context.Context, query pkgDomain.Query[FindFlightData]) (domain.Flight, error) {
	if ctx.Err() != nil {
		return domain.Flight{}, ctx.Err()
	}

	flight, ok := h.service.FindFlight(ctx, query.Payload().FlightID)
	if !ok {
		return domain.Flight{}, domain.ErrFlightNotFound
	}
	return flight, nil
}

type listReservationsHandler struct {
	service *ReservationService
}

func (h *listReservationsHandler) Handle(ctx context.Context, query pkgDomain.Query[ListReservationsData]) ([]domain.Reservation, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	return h.service.Reservations(ctx, query.Payload().Username)
}

type activityEventHandler struct {
	logger pkgApp.AppLogger
}

func (h *activityEventHandler) Handle(ctx context.Context, event pkgDomain.Event[AirlineEventData]) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	pkgApp.LogInfo(ctx, h.logger, "activity", map[string]interface{}{"event": event.Payload()})
	return nil
}

// NewActivityEventHandler registra cada evento recebido no log de atividades.
func NewActivityEventHandler(logger pkgApp.AppLogger) pkgApp.EventHandler[pkgDomain.Event[AirlineEventData], AirlineEventData] {
	return &activityEventHandler{logger: logger}
}

// Handlers agrupa os manipuladores que o slice registra nos barramentos.
type Handlers struct {
	RegisterUser     pkgApp.CommandHandler[pkgDomain.Command[RegisterUserData], RegisterUserData]
	AddFlight        pkgApp.CommandHandler[pkgDomain.Command[AddFlightData], AddFlightData]
	BookFlight       pkgApp.CommandHandler[pkgDomain.Command[BookFlightData], BookFlightData]
	Login            pkgApp.QueryHandler[pkgDomain.Query[LoginData], LoginData, domain.User]
	ListFlights      pkgApp.QueryHandler[pkgDomain.Query[ListFlightsData], ListFlightsData, []domain.Flight]
	FindFlight       pkgApp.QueryHandler[pkgDomain.Query[FindFlightData], FindFlightData, domain.Flight]
	ListReservations pkgApp.QueryHandler[pkgDomain.Query[ListReservationsData], ListReservationsData, []domain.Reservation]
}

func NewHandlers(service *ReservationService, eventBus AirlineEventBus, idGenerator pkgDomain.IDGenerator[string], logger pkgApp.AppLogger) Handlers {
	events := eventPublisher{
		eventBus:    eventBus,
		idGenerator: idGenerator,
		now:         time.Now,
		logger:      logger,
	}

	return Handlers{
		RegisterUser:     &registerUserHandler{service: service, events: events, logger: logger},
		AddFlight:        &addFlightHandler{service: service, events: events, logger: logger},
		BookFlight:       &bookFlightHandler{service: service, events: events, logger: logger},
		Login:            &loginHandler{service: service, logger: logger},
		ListFlights:      &listFlightsHandler{service: service},
		FindFlight:       &findFlightHandler{service: service},
		ListReservations: &listReservationsHandler{service: service},
	}
}
