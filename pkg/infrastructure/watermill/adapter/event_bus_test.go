package adapter

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mateusmacedo/go-airline/pkg/application"
	"github.com/mateusmacedo/go-airline/pkg/domain"
)

type seatsBooked struct {
	FlightID string `json:"flight_id"`
	Seats    int    `json:"seats"`
}

type bookedEvent struct{ data seatsBooked }

func (e bookedEvent) EventName() string    { return "FlightBooked" }
func (e bookedEvent) Payload() seatsBooked { return e.data }

type recordingHandler struct {
	mu         sync.Mutex
	received   []seatsBooked
	requestIDs []string
}

func (h *recordingHandler) Handle(ctx context.Context, event domain.Event[seatsBooked]) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.received = append(h.received, event.Payload())
	requestID, _ := application.RequestIDFromContext(ctx)
	h.requestIDs = append(h.requestIDs, requestID)
	return nil
}

func (h *recordingHandler) snapshot() ([]seatsBooked, []string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]seatsBooked(nil), h.received...), append([]string(nil), h.requestIDs...)
}

func TestWatermillEventBus_DeliversThroughGoChannel(t *testing.T) {
	logger := application.NopLogger{}
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, NewWatermillLoggerAdapter(logger))
	defer pubSub.Close()

	bus := NewWatermillEventBus[domain.Event[seatsBooked], seatsBooked](pubSub, pubSub, logger)
	defer bus.Close()

	handler := &recordingHandler{}
	bus.RegisterHandler("FlightBooked", handler)

	ctx := application.WithRequestID(context.Background(), "req-1")
	require.NoError(t, bus.Publish(ctx, bookedEvent{data: seatsBooked{FlightID: "F1", Seats: 2}}))

	assert.Eventually(t, func() bool {
		received, _ := handler.snapshot()
		return len(received) == 1
	}, time.Second, 5*time.Millisecond)

	received, requestIDs := handler.snapshot()
	assert.Equal(t, []seatsBooked{{FlightID: "F1", Seats: 2}}, received)
	assert.Equal(t, []string{"req-1"}, requestIDs)
}

func TestWatermillEventBus_PublishWithoutSubscribers(t *testing.T) {
	logger := application.NopLogger{}
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, NewWatermillLoggerAdapter(logger))
	defer pubSub.Close()

	bus := NewWatermillEventBus[domain.Event[seatsBooked], seatsBooked](pubSub, pubSub, logger)
	defer bus.Close()

	assert.NoError(t, bus.Publish(context.Background(), bookedEvent{data: seatsBooked{FlightID: "F9", Seats: 1}}))
}
