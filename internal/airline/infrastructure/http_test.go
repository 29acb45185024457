package infrastructure

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mateusmacedo/go-airline/internal/airline/domain"
	pkgApp "github.com/mateusmacedo/go-airline/pkg/application"
)

type apiFixture struct {
	router *chi.Mux
	store  *InMemoryStore
}

func newAPIFixture(t *testing.T) apiFixture {
	t.Helper()
	store := NewInMemoryStore(pkgApp.NopLogger{}, domain.Snapshot{
		Users: []domain.User{domain.NewUser("alice", "pw1")},
		Flights: []domain.Flight{
			{FlightID: "F1", Origin: "NYC", Destination: "LAX", SeatsAvailable: 3},
			{FlightID: "F2", Origin: "SFO", Destination: "SEA", SeatsAvailable: 0},
		},
	})

	router := chi.NewRouter()
	NewAirlineHTTPHandler(newTestBuses(t, store), func() string { return "req-1" }, pkgApp.NopLogger{}).RegisterRoutes(router)
	return apiFixture{router: router, store: store}
}

func (f apiFixture) do(method, path, body string, auth ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if len(auth) == 2 {
		req.SetBasicAuth(auth[0], auth[1])
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["error"]
}

func TestAirlineHTTPHandler_RegisterUser(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(http.MethodPost, "/users", `{"username":"bob","password":"pw2"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "req-1", rec.Header().Get("X-Request-ID"))

	rec = f.do(http.MethodPost, "/users", `{"username":"bob","password":"other"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, domain.ErrDuplicateUsername.Error(), decodeError(t, rec))

	rec = f.do(http.MethodPost, "/users", `{"username":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAirlineHTTPHandler_Login(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(http.MethodPost, "/sessions", `{"username":"alice","password":"pw1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"username":"alice","reservations":[]}`, rec.Body.String())

	rec = f.do(http.MethodPost, "/sessions", `{"username":"alice","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAirlineHTTPHandler_Flights(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(http.MethodPost, "/flights", `{"flight_id":"F3","origin":"BOS","destination":"MIA","seats_available":10}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = f.do(http.MethodPost, "/flights", `{"flight_id":"F4","origin":"BOS","destination":"MIA","seats_available":-1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(http.MethodPost, "/flights", `{"flight_id":"F4","origin":"BOS","destination":"MIA","seats_available":"ten"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(http.MethodGet, "/flights", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var flights []domain.Flight
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &flights))
	require.Len(t, flights, 3)
	assert.Equal(t, "F3", flights[2].FlightID)
}

func TestAirlineHTTPHandler_Bookings(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		auth   []string
		status int
	}{
		{name: "booked", body: `{"flight_id":"F1","seats":2}`, auth: []string{"alice", "pw1"}, status: http.StatusCreated},
		{name: "no credentials", body: `{"flight_id":"F1","seats":2}`, status: http.StatusUnauthorized},
		{name: "wrong password", body: `{"flight_id":"F1","seats":2}`, auth: []string{"alice", "x"}, status: http.StatusUnauthorized},
		{name: "unknown flight", body: `{"flight_id":"F9","seats":1}`, auth: []string{"alice", "pw1"}, status: http.StatusNotFound},
		{name: "sold out", body: `{"flight_id":"F2","seats":1}`, auth: []string{"alice", "pw1"}, status: http.StatusConflict},
		{name: "too many seats", body: `{"flight_id":"F1","seats":4}`, auth: []string{"alice", "pw1"}, status: http.StatusConflict},
		{name: "zero seats", body: `{"flight_id":"F1","seats":0}`, auth: []string{"alice", "pw1"}, status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAPIFixture(t)
			rec := f.do(http.MethodPost, "/bookings", tt.body, tt.auth...)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}
}

func TestAirlineHTTPHandler_Reservations(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(http.MethodPost, "/bookings", `{"flight_id":"F1","seats":2}`, "alice", "pw1")
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = f.do(http.MethodGet, "/users/alice/reservations", "", "alice", "pw1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"flight_id":"F1","seats":2}]`, rec.Body.String())

	rec = f.do(http.MethodGet, "/users/bob/reservations", "", "alice", "pw1")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.do(http.MethodGet, "/flights", "")
	var flights []domain.Flight
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &flights))
	assert.Equal(t, 1, flights[0].SeatsAvailable)
}

func TestAirlineHTTPHandler_PersistenceFailure(t *testing.T) {
	f := newAPIFixture(t)
	f.store.FailWith(errors.New("disk full"))

	rec := f.do(http.MethodPost, "/bookings", `{"flight_id":"F1","seats":2}`, "alice", "pw1")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, decodeError(t, rec), "disk full")

	rec = f.do(http.MethodGet, "/flights", "")
	var flights []domain.Flight
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &flights))
	assert.Equal(t, 3, flights[0].SeatsAvailable)
}

func TestAirlineHTTPHandler_KeepsIncomingRequestID(t *testing.T) {
	f := newAPIFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/flights", nil)
	req.Header.Set("X-Request-ID", "abc")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	assert.Equal(t, "abc", rec.Header().Get("X-Request-ID"))
}
