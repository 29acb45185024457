package application

import (
	"github.com/mateusmacedo/go-airline/pkg/domain"
)

const (
	RegisterUserCommand = "RegisterUser"
	AddFlightCommand    = "AddFlight"
	BookFlightCommand   = "BookFlight"
)

// RegisterUserData contém os dados necessários para registrar um usuário.
type RegisterUserData struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type registerUserCommand struct {
	data RegisterUserData
}

func (c registerUserCommand) CommandName() string {
	return RegisterUserCommand
}

func (c registerUserCommand) Payload() RegisterUserData {
	return c.data
}

func NewRegisterUserCommand(data RegisterUserData) domain.Command[RegisterUserData] {
	return registerUserCommand{data: data}
}

// AddFlightData contém os dados de um novo voo.
type AddFlightData struct {
	FlightID       string `json:"flight_id"`
	Origin         string `json:"origin"`
	Destination    string `json:"destination"`
	SeatsAvailable int    `json:"seats_available"`
}

type addFlightCommand struct {
	data AddFlightData
}

func (c addFlightCommand) CommandName() string {
	return AddFlightCommand
}

func (c addFlightCommand) Payload() AddFlightData {
	return c.data
}

func NewAddFlightCommand(data AddFlightData) domain.Command[AddFlightData] {
	return addFlightCommand{data: data}
}

// BookFlightData identifica quem reserva, em qual voo e quantos assentos.
type BookFlightData struct {
	Username string `json:"username"`
	FlightID string `json:"flight_id"`
	Seats    int    `json:"seats"`
}

type bookFlightCommand struct {
	data BookFlightData
}

func (c bookFlightCommand) CommandName() string {
	return BookFlightCommand
}

func (c bookFlightCommand) Payload() BookFlightData {
	return c.data
}

func NewBookFlightCommand(data BookFlightData) domain.Command[BookFlightData] {
	return bookFlightCommand{data: data}
}
