package domain

import "context"

// Snapshot é o conteúdo completo dos dois documentos persistidos.
type Snapshot struct {
	Users   []User
	Flights []Flight
}

// Store persiste as coleções inteiras; cada gravação sobrescreve o documento correspondente.
type Store interface {
	Load(ctx context.Context) (Snapshot, error)
	SaveUsers(ctx context.Context, users []User) error
	SaveFlights(ctx context.Context, flights []Flight) error
	// SaveBooking grava usuários e voos como uma única unidade: ou ambos, ou nenhum.
	SaveBooking(ctx context.Context, users []User, flights []Flight) error
}
