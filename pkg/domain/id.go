package domain

// IDGenerator produz identificadores únicos (eventos, sessões, requisições).
type IDGenerator[T comparable] func() T
