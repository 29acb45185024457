package infrastructure

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mateusmacedo/go-airline/internal/airline/domain"
)

func TestGormRecordMapping_PreservesOrderAndFields(t *testing.T) {
	users := []domain.User{
		{Username: "alice", Password: "pw1", Reservations: []domain.Reservation{{FlightID: "F1", Seats: 2}, {FlightID: "F2", Seats: 1}}},
		domain.NewUser("bob", "pw2"),
	}

	records, reservations := toUserRecords(users)
	assert.Equal(t, []userRecord{
		{Username: "alice", Password: "pw1", Position: 0},
		{Username: "bob", Password: "pw2", Position: 1},
	}, records)
	assert.Equal(t, []reservationRecord{
		{Username: "alice", Position: 0, FlightID: "F1", Seats: 2},
		{Username: "alice", Position: 1, FlightID: "F2", Seats: 1},
	}, reservations)

	records[0].Reservations = reservations
	assert.Equal(t, users, fromUserRecords(records))
}

func TestGormFlightMapping_KeepsDuplicateIDs(t *testing.T) {
	flights := []domain.Flight{
		{FlightID: "F1", Origin: "NYC", Destination: "LAX", SeatsAvailable: 3},
		{FlightID: "F1", Origin: "BOS", Destination: "MIA", SeatsAvailable: 0},
	}

	records := toFlightRecords(flights)
	assert.Len(t, records, 2)
	assert.Equal(t, 1, records[1].Position)
	assert.Equal(t, flights, fromFlightRecords(records))
}
