package airline

import (
	"context"
	"io"

	"github.com/go-chi/chi/v5"

	"github.com/mateusmacedo/go-airline/internal/airline/application"
	"github.com/mateusmacedo/go-airline/internal/airline/domain"
	"github.com/mateusmacedo/go-airline/internal/airline/infrastructure"
	pkgApp "github.com/mateusmacedo/go-airline/pkg/application"
	pkgDomain "github.com/mateusmacedo/go-airline/pkg/domain"
	pkgInfra "github.com/mateusmacedo/go-airline/pkg/infrastructure"
)

type AirlineSlice struct {
	buses       application.Buses
	httpHandler *infrastructure.AirlineHTTPHandler
	idGenerator pkgDomain.IDGenerator[string]
	logger      pkgApp.AppLogger
}

// NewSimpleBuses cria os barramentos em processo usados pelo console e pela API.
func NewSimpleBuses(logger pkgApp.AppLogger) application.Buses {
	return application.Buses{
		RegisterUser:     pkgInfra.NewSimpleCommandBus[pkgDomain.Command[application.RegisterUserData], application.RegisterUserData](logger),
		AddFlight:        pkgInfra.NewSimpleCommandBus[pkgDomain.Command[application.AddFlightData], application.AddFlightData](logger),
		BookFlight:       pkgInfra.NewSimpleCommandBus[pkgDomain.Command[application.BookFlightData], application.BookFlightData](logger),
		Login:            pkgInfra.NewSimpleQueryBus[pkgDomain.Query[application.LoginData], application.LoginData, domain.User](logger),
		ListFlights:      pkgInfra.NewSimpleQueryBus[pkgDomain.Query[application.ListFlightsData], application.ListFlightsData, []domain.Flight](logger),
		FindFlight:       pkgInfra.NewSimpleQueryBus[pkgDomain.Query[application.FindFlightData], application.FindFlightData, domain.Flight](logger),
		ListReservations: pkgInfra.NewSimpleQueryBus[pkgDomain.Query[application.ListReservationsData], application.ListReservationsData, []domain.Reservation](logger),
	}
}

// NewAirlineSlice carrega o estado do store e registra os manipuladores nos barramentos.
func NewAirlineSlice(
	ctx context.Context,
	buses application.Buses,
	eventBus application.AirlineEventBus,
	store domain.Store,
	idGenerator pkgDomain.IDGenerator[string],
	logger pkgApp.AppLogger,
) (*AirlineSlice, error) {
	service, err := application.NewReservationService(ctx, store, logger)
	if err != nil {
		return nil, err
	}

	handlers := application.NewHandlers(service, eventBus, idGenerator, logger)

	buses.RegisterUser.RegisterHandler(application.RegisterUserCommand, handlers.RegisterUser)
	buses.AddFlight.RegisterHandler(application.AddFlightCommand, handlers.AddFlight)
	buses.BookFlight.RegisterHandler(application.BookFlightCommand, handlers.BookFlight)
	buses.Login.RegisterHandler(application.LoginQuery, handlers.Login)
	buses.ListFlights.RegisterHandler(application.ListFlightsQuery, handlers.ListFlights)
	buses.FindFlight.RegisterHandler(application.FindFlightQuery, handlers.FindFlight)
	buses.ListReservations.RegisterHandler(application.ListReservationsQuery, handlers.ListReservations)

	activity := application.NewActivityEventHandler(logger)
	for _, name := range application.EventNames {
		eventBus.RegisterHandler(name, activity)
	}

	return &AirlineSlice{
		buses:       buses,
		httpHandler: infrastructure.NewAirlineHTTPHandler(buses, idGenerator, logger),
		idGenerator: idGenerator,
		logger:      logger,
	}, nil
}

func (s *AirlineSlice) RegisterRoutes(router chi.Router) {
	s.httpHandler.RegisterRoutes(router)
}

func (s *AirlineSlice) Console(in io.Reader, out io.Writer) *infrastructure.Console {
	return infrastructure.NewConsole(s.buses, s.idGenerator, s.logger, in, out)
}

func (s *AirlineSlice) Buses() application.Buses {
	return s.buses
}
