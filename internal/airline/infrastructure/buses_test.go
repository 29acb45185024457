package infrastructure

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mateusmacedo/go-airline/internal/airline/application"
	"github.com/mateusmacedo/go-airline/internal/airline/domain"
	pkgApp "github.com/mateusmacedo/go-airline/pkg/application"
	pkgDomain "github.com/mateusmacedo/go-airline/pkg/domain"
	pkgInfra "github.com/mateusmacedo/go-airline/pkg/infrastructure"
)

func newTestBuses(t *testing.T, store domain.Store) application.Buses {
	t.Helper()
	logger := pkgApp.NopLogger{}

	service, err := application.NewReservationService(context.Background(), store, logger)
	require.NoError(t, err)

	eventBus := pkgInfra.NewSimpleEventBus[pkgDomain.Event[application.AirlineEventData], application.AirlineEventData](logger)
	handlers := application.NewHandlers(service, eventBus, pkgInfra.UUIDGenerator(), logger)

	buses := application.Buses{
		RegisterUser:     pkgInfra.NewSimpleCommandBus[pkgDomain.Command[application.RegisterUserData], application.RegisterUserData](logger),
		AddFlight:        pkgInfra.NewSimpleCommandBus[pkgDomain.Command[application.AddFlightData], application.AddFlightData](logger),
		BookFlight:       pkgInfra.NewSimpleCommandBus[pkgDomain.Command[application.BookFlightData], application.BookFlightData](logger),
		Login:            pkgInfra.NewSimpleQueryBus[pkgDomain.Query[application.LoginData], application.LoginData, domain.User](logger),
		ListFlights:      pkgInfra.NewSimpleQueryBus[pkgDomain.Query[application.ListFlightsData], application.ListFlightsData, []domain.Flight](logger),
		FindFlight:       pkgInfra.NewSimpleQueryBus[pkgDomain.Query[application.FindFlightData], application.FindFlightData, domain.Flight](logger),
		ListReservations: pkgInfra.NewSimpleQueryBus[pkgDomain.Query[application.ListReservationsData], application.ListReservationsData, []domain.Reservation](logger),
	}
	buses.RegisterUser.RegisterHandler(application.RegisterUserCommand, handlers.RegisterUser)
	buses.AddFlight.RegisterHandler(application.AddFlightCommand, handlers.AddFlight)
	buses.BookFlight.RegisterHandler(application.BookFlightCommand, handlers.BookFlight)
	buses.Login.RegisterHandler(application.LoginQuery, handlers.Login)
	buses.ListFlights.RegisterHandler(application.ListFlightsQuery, handlers.ListFlights)
	buses.FindFlight.RegisterHandler(application.FindFlightQuery, handlers.FindFlight)
	buses.ListReservations.RegisterHandler(application.ListReservationsQuery, handlers.ListReservations)
	return buses
}
