package application

import (
	"github.com/mateusmacedo/go-airline/pkg/domain"
)

const (
	LoginQuery            = "Login"
	ListFlightsQuery      = "ListFlights"
	FindFlightQuery       = "FindFlight"
	ListReservationsQuery = "ListReservations"
)

type LoginData struct {
	Username string
	Password string
}

type loginQuery struct {
	data LoginData
}

func (q loginQuery) QueryName() string {
	return LoginQuery
}

func (q loginQuery) Payload() LoginData {
	return q.data
}

func NewLoginQuery(data LoginData) domain.Query[LoginData] {
	return loginQuery{data: data}
}

type ListFlightsData struct{}

type listFlightsQuery struct{}

func (q listFlightsQuery) QueryName() string {
	return ListFlightsQuery
}

func (q listFlightsQuery) Payload() ListFlightsData {
	return ListFlightsData{}
}

func NewListFlightsQuery() domain.Query[ListFlightsData] {
	return listFlightsQuery{}
}

type FindFlightData struct {
	FlightID string
}

type findFlightQuery struct {
	data FindFlightData
}

func (q findFlightQuery) QueryName() string {
	return FindFlightQuery
}

func (q findFlightQuery) Payload() FindFlightData {
	return q.data
}

func NewFindFlightQuery(data FindFlightData) domain.Query[FindFlightData] {
	return findFlightQuery{data: data}
}

type ListReservationsData struct {
	Username string
}

type listReservationsQuery struct {
	data ListReservationsData
}

func (q listReservationsQuery) QueryName() string {
	return ListReservationsQuery
}

func (q listReservationsQuery) Payload() ListReservationsData {
	return q.data
}

func NewListReservationsQuery(data ListReservationsData) domain.Query[ListReservationsData] {
	return listReservationsQuery{data: data}
}
