package domain

// Reservation registra assentos reservados por um usuário em um voo.
type Reservation struct {
	FlightID string `json:"flight_id"`
	Seats    int    `json:"seats"`
}

// User é um passageiro registrado. A senha é guardada em texto puro, como exige o formato
// do users.json; isso não é seguro e hashing está fora do escopo.
type User struct {
	Username     string        `json:"username"`
	Password     string        `json:"password"`
	Reservations []Reservation `json:"reservations"`
}

func NewUser(username, password string) User {
	return User{
		Username:     username,
		Password:     password,
		Reservations: []Reservation{},
	}
}

// Clone devolve uma cópia independente, incluindo a lista de reservas.
func (u User) Clone() User {
	reservations := make([]Reservation, len(u.Reservations))
	copy(reservations, u.Reservations)
	u.Reservations = reservations
	return u
}

func (u User) Matches(username, password string) bool {
	return u.Username == username && u.Password == password
}
