package domain

type Flight struct {
	FlightID       string `json:"flight_id"`
	Origin         string `json:"origin"`
	Destination    string `json:"destination"`
	SeatsAvailable int    `json:"seats_available"`
}

// Bookable informa se o voo ainda tem algum assento livre.
func (f Flight) Bookable() bool {
	return f.SeatsAvailable > 0
}
