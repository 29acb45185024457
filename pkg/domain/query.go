package domain

// Query representa uma consulta no sistema, sem efeitos colaterais.
type Query[T any] interface {
	QueryName() string
	Payload() T
}
