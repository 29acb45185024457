package application

// Buses reúne os barramentos pelos quais os adaptadores (console, HTTP) acionam a aplicação.
type Buses struct {
	RegisterUser     RegisterUserBus
	AddFlight        AddFlightBus
	BookFlight       BookFlightBus
	Login            LoginBus
	ListFlights      ListFlightsBus
	FindFlight       FindFlightBus
	ListReservations ListReservationsBus
}
