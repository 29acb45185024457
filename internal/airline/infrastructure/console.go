package infrastructure

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mateusmacedo/go-airline/internal/airline/application"
	"github.com/mateusmacedo/go-airline/internal/airline/domain"
	pkgApp "github.com/mateusmacedo/go-airline/pkg/application"
	pkgDomain "github.com/mateusmacedo/go-airline/pkg/domain"
)

// errInputClosed sinaliza fim da entrada; o console encerra como se o usuário escolhesse Exit.
var errInputClosed = errors.New("input closed")

type consoleStyles struct {
	heading lipgloss.Style
	success lipgloss.Style
	failure lipgloss.Style
}

func newConsoleStyles(out io.Writer) consoleStyles {
	renderer := lipgloss.NewRenderer(out)
	return consoleStyles{
		heading: renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("#8BC34A")),
		success: renderer.NewStyle().Foreground(lipgloss.Color("#4CAF50")),
		failure: renderer.NewStyle().Foreground(lipgloss.Color("#F44336")),
	}
}

// Console é o shell interativo com os menus principal e de usuário logado.
type Console struct {
	buses       application.Buses
	idGenerator pkgDomain.IDGenerator[string]
	logger      pkgApp.AppLogger
	in          *bufio.Scanner
	out         io.Writer
	styles      consoleStyles
}

func NewConsole(buses application.Buses, idGenerator pkgDomain.IDGenerator[string], logger pkgApp.AppLogger, in io.Reader, out io.Writer) *Console {
	return &Console{
		buses:       buses,
		idGenerator: idGenerator,
		logger:      logger,
		in:          bufio.NewScanner(in),
		out:         out,
		styles:      newConsoleStyles(out),
	}
}

// Run executa o menu principal até Exit ou fim da entrada.
func (c *Console) Run(ctx context.Context) error {
	pkgApp.LogInfo(ctx, c.logger, "console started", nil)
	defer pkgApp.LogInfo(ctx, c.logger, "console stopped", nil)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		c.println("")
		c.println(c.styles.heading.Render("1. Register"))
		c.println(c.styles.heading.Render("2. Login"))
		c.println(c.styles.heading.Render("3. Add Flight"))
		c.println(c.styles.heading.Render("4. Exit"))

		choice, err := c.readChoice()
		if err != nil {
			return c.closed(err)
		}

		switch choice {
		case "1":
			err = c.register(ctx)
		case "2":
			err = c.login(ctx)
		case "3":
			err = c.addFlight(ctx)
		case "4":
			return nil
		default:
			c.fail("Invalid choice. Please try again.")
		}
		if err != nil {
			return c.closed(err)
		}
	}
}

func (c *Console) register(ctx context.Context) error {
	username, err := c.read("Enter username: ")
	if err != nil {
		return err
	}
	password, err := c.read("Enter password: ")
	if err != nil {
		return err
	}

	command := application.NewRegisterUserCommand(application.RegisterUserData{Username: username, Password: password})
	switch err := c.buses.RegisterUser.Dispatch(ctx, command); {
	case err == nil:
		c.succeed("Registration successful!")
	case errors.Is(err, domain.ErrDuplicateUsername):
		c.fail("Username already exists. Please try again.")
	default:
		c.report(err)
	}
	return nil
}

func (c *Console) login(ctx context.Context) error {
	username, err := c.read("Enter username: ")
	if err != nil {
		return err
	}
	password, err := c.read("Enter password: ")
	if err != nil {
		return err
	}

	sessionCtx := pkgApp.WithRequestID(ctx, c.idGenerator())
	user, err := c.buses.Login.Dispatch(sessionCtx, application.NewLoginQuery(application.LoginData{Username: username, Password: password}))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			c.fail("Invalid username or password.")
		} else {
			c.report(err)
		}
		return nil
	}

	c.succeed("Login successful!")
	return c.session(sessionCtx, user.Username)
}

func (c *Console) session(ctx context.Context, username string) error {
	for {
		c.println("")
		c.println(c.styles.heading.Render("1. View Flights"))
		c.println(c.styles.heading.Render("2. Book Flight"))
		c.println(c.styles.heading.Render("3. View Reservations"))
		c.println(c.styles.heading.Render("4. Logout"))

		choice, err := c.readChoice()
		if err != nil {
			return err
		}

		switch choice {
		case "1":
			c.viewFlights(ctx)
		case "2":
			err = c.bookFlight(ctx, username)
		case "3":
			c.viewReservations(ctx, username)
		case "4":
			pkgApp.LogInfo(ctx, c.logger, "logout", map[string]interface{}{"username": username})
			return nil
		default:
			c.fail("Invalid choice. Please try again.")
		}
		if err != nil {
			return err
		}
	}
}

func (c *Console) addFlight(ctx context.Context) error {
	flightID, err := c.read("Enter flight ID: ")
	if err != nil {
		return err
	}
	origin, err := c.read("Enter origin: ")
	if err != nil {
		return err
	}
	destination, err := c.read("Enter destination: ")
	if err != nil {
		return err
	}
	seats, err := c.readInt("Enter number of seats available: ", "seats_available")
	if err != nil {
		if errors.Is(err, errInputClosed) {
			return err
		}
		c.report(err)
		return nil
	}

	command := application.NewAddFlightCommand(application.AddFlightData{
		FlightID:       flightID,
		Origin:         origin,
		Destination:    destination,
		SeatsAvailable: seats,
	})
	if err := c.buses.AddFlight.Dispatch(ctx, command); err != nil {
		c.report(err)
		return nil
	}

	c.succeed("Flight added successfully!")
	return nil
}

func (c *Console) viewFlights(ctx context.Context) {
	flights, err := c.buses.ListFlights.Dispatch(ctx, application.NewListFlightsQuery())
	if err != nil {
		c.report(err)
		return
	}
	if len(flights) == 0 {
		c.println("No flights available.")
		return
	}
	for _, flight := range flights {
		c.println(fmt.Sprintf("Flight ID: %s, Origin: %s, Destination: %s, Seats Available: %d",
			flight.FlightID, flight.Origin, flight.Destination, flight.SeatsAvailable))
	}
}

func (c *Console) bookFlight(ctx context.Context, username string) error {
	c.viewFlights(ctx)

	flightID, err := c.read("Enter flight ID to book: ")
	if err != nil {
		return err
	}

	flight, err := c.buses.FindFlight.Dispatch(ctx, application.NewFindFlightQuery(application.FindFlightData{FlightID: flightID}))
	if err != nil && !errors.Is(err, domain.ErrFlightNotFound) {
		c.report(err)
		return nil
	}
	if err != nil || !flight.Bookable() {
		c.fail("Flight not found or no seats available.")
		return nil
	}

	seats, err := c.readInt("Enter number of seats to book: ", "seats")
	if err != nil {
		if errors.Is(err, errInputClosed) {
			return err
		}
		c.report(err)
		return nil
	}

	command := application.NewBookFlightCommand(application.BookFlightData{
		Username: username,
		FlightID: flightID,
		Seats:    seats,
	})
	switch err := c.buses.BookFlight.Dispatch(ctx, command); {
	case err == nil:
		c.succeed("Flight booked successfully!")
	case errors.Is(err, domain.ErrInsufficientSeats):
		c.fail("Not enough seats available.")
	case errors.Is(err, domain.ErrFlightNotFound), errors.Is(err, domain.ErrNoSeatsAvailable):
		c.fail("Flight not found or no seats available.")
	default:
		c.report(err)
	}
	return nil
}

func (c *Console) viewReservations(ctx context.Context, username string) {
	reservations, err := c.buses.ListReservations.Dispatch(ctx, application.NewListReservationsQuery(application.ListReservationsData{Username: username}))
	if err != nil {
		c.report(err)
		return
	}
	if len(reservations) == 0 {
		c.println("No reservations found.")
		return
	}
	for _, reservation := range reservations {
		c.println(fmt.Sprintf("Flight ID: %s, Seats: %d", reservation.FlightID, reservation.Seats))
	}
}

func (c *Console) read(prompt string) (string, error) {
	fmt.Fprint(c.out, prompt)
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return "", err
		}
		return "", errInputClosed
	}
	return strings.TrimRight(c.in.Text(), "\r"), nil
}

func (c *Console) readChoice() (string, error) {
	choice, err := c.read("Enter choice: ")
	return strings.TrimSpace(choice), err
}

func (c *Console) readInt(prompt, field string) (int, error) {
	raw, err := c.read(prompt)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, &domain.ValidationError{Field: field, Value: raw, Reason: "not a whole number"}
	}
	return n, nil
}

// report imprime o erro e devolve o controle ao menu.
func (c *Console) report(err error) {
	switch {
	case domain.IsValidationError(err):
		c.fail("Invalid input: " + err.Error())
	case domain.IsPersistenceError(err):
		c.fail("Could not save changes: " + err.Error())
	default:
		c.fail("Error: " + err.Error())
	}
}

func (c *Console) closed(err error) error {
	if errors.Is(err, errInputClosed) {
		return nil
	}
	return err
}

func (c *Console) succeed(msg string) {
	c.println(c.styles.success.Render(msg))
}

func (c *Console) fail(msg string) {
	c.println(c.styles.failure.Render(msg))
}

func (c *Console) println(line string) {
	fmt.Fprintln(c.out, line)
}
