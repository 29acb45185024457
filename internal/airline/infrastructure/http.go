package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mateusmacedo/go-airline/internal/airline/application"
	"github.com/mateusmacedo/go-airline/internal/airline/domain"
	pkgApp "github.com/mateusmacedo/go-airline/pkg/application"
	pkgDomain "github.com/mateusmacedo/go-airline/pkg/domain"
)

const requestTimeout = 10 * time.Second

type AirlineHTTPHandler struct {
	buses       application.Buses
	idGenerator pkgDomain.IDGenerator[string]
	logger      pkgApp.AppLogger
}

func NewAirlineHTTPHandler(buses application.Buses, idGenerator pkgDomain.IDGenerator[string], logger pkgApp.AppLogger) *AirlineHTTPHandler {
	return &AirlineHTTPHandler{
		buses:       buses,
		idGenerator: idGenerator,
		logger:      logger,
	}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type bookingRequest struct {
	FlightID string `json:"flight_id"`
	Seats    int    `json:"seats"`
}

// userView omite a senha.
type userView struct {
	Username     string               `json:"username"`
	Reservations []domain.Reservation `json:"reservations"`
}

func (h *AirlineHTTPHandler) HandleRegisterUser(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.handleError(w, r, invalidBody(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	command := application.NewRegisterUserCommand(application.RegisterUserData{Username: req.Username, Password: req.Password})
	if err := h.buses.RegisterUser.Dispatch(ctx, command); err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{"message": "Registration successful", "username": req.Username})
}

func (h *AirlineHTTPHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.handleError(w, r, invalidBody(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	user, err := h.buses.Login.Dispatch(ctx, application.NewLoginQuery(application.LoginData{Username: req.Username, Password: req.Password}))
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, userView{Username: user.Username, Reservations: user.Reservations})
}

func (h *AirlineHTTPHandler) HandleListFlights(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	flights, err := h.buses.ListFlights.Dispatch(ctx, application.NewListFlightsQuery())
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, flights)
}

func (h *AirlineHTTPHandler) HandleAddFlight(w http.ResponseWriter, r *http.Request) {
	var data application.AddFlightData
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		h.handleError(w, r, invalidBody(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if err := h.buses.AddFlight.Dispatch(ctx, application.NewAddFlightCommand(data)); err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{"message": "Flight added", "data": data})
}

func (h *AirlineHTTPHandler) HandleBookFlight(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	user, err := h.authenticate(ctx, r)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	var req bookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.handleError(w, r, invalidBody(err))
		return
	}

	command := application.NewBookFlightCommand(application.BookFlightData{
		Username: user.Username,
		FlightID: req.FlightID,
		Seats:    req.Seats,
	})
	if err := h.buses.BookFlight.Dispatch(ctx, command); err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, domain.Reservation{FlightID: req.FlightID, Seats: req.Seats})
}

func (h *AirlineHTTPHandler) HandleListReservations(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	user, err := h.authenticate(ctx, r)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	if user.Username != chi.URLParam(r, "username") {
		h.handleError(w, r, domain.ErrInvalidCredentials)
		return
	}

	reservations, err := h.buses.ListReservations.Dispatch(ctx, application.NewListReservationsQuery(application.ListReservationsData{Username: user.Username}))
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, reservations)
}

func (h *AirlineHTTPHandler) RegisterRoutes(router chi.Router) {
	router.Group(func(r chi.Router) {
		r.Use(middleware.Recoverer)
		r.Use(h.requestID)

		r.Post("/users", h.HandleRegisterUser)
		r.Post("/sessions", h.HandleLogin)
		r.Get("/flights", h.HandleListFlights)
		r.Post("/flights", h.HandleAddFlight)
		r.Post("/bookings", h.HandleBookFlight)
		r.Get("/users/{username}/reservations", h.HandleListReservations)
	})
}

func (h *AirlineHTTPHandler) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = h.idGenerator()
		}
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r.WithContext(pkgApp.WithRequestID(r.Context(), requestID)))
	})
}

func (h *AirlineHTTPHandler) authenticate(ctx context.Context, r *http.Request) (domain.User, error) {
	username, password, ok := r.BasicAuth()
	if !ok {
		return domain.User{}, domain.ErrInvalidCredentials
	}
	return h.buses.Login.Dispatch(ctx, application.NewLoginQuery(application.LoginData{Username: username, Password: password}))
}

func (h *AirlineHTTPHandler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		pkgApp.LogError(r.Context(), h.logger, "request failed", err, map[string]interface{}{
			"method": r.Method,
			"path":   r.URL.Path,
		})
	}
	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", `Basic realm="airline"`)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrDuplicateUsername):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrUserNotFound), errors.Is(err, domain.ErrFlightNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrNoSeatsAvailable), errors.Is(err, domain.ErrInsufficientSeats):
		return http.StatusConflict
	case domain.IsValidationError(err):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func invalidBody(err error) error {
	return &domain.ValidationError{Field: "request body", Reason: err.Error()}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
