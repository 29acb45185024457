package application

import (
	"time"

	"github.com/mateusmacedo/go-airline/pkg/domain"
)

const (
	UserRegisteredEvent = "UserRegistered"
	FlightAddedEvent    = "FlightAdded"
	FlightBookedEvent   = "FlightBooked"
)

// EventNames lista todos os eventos publicados pela aplicação.
var EventNames = []string{UserRegisteredEvent, FlightAddedEvent, FlightBookedEvent}

// AirlineEventData é o payload comum dos eventos de reserva.
type AirlineEventData struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Username   string    `json:"username,omitempty"`
	FlightID   string    `json:"flight_id,omitempty"`
	Seats      int       `json:"seats,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

type airlineEvent struct {
	data AirlineEventData
}

func (e airlineEvent) EventName() string {
	return e.data.Name
}

func (e airlineEvent) Payload() AirlineEventData {
	return e.data
}

func NewAirlineEvent(data AirlineEventData) domain.Event[AirlineEventData] {
	return airlineEvent{data: data}
}
