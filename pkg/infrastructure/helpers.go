package infrastructure

import (
	"context"

	"github.com/google/uuid"

	"github.com/mateusmacedo/go-airline/pkg/application"
	"github.com/mateusmacedo/go-airline/pkg/domain"
)

func GenerateUUID() string {
	return uuid.New().String()
}

// UUIDGenerator é o IDGenerator padrão usado pelos comandos da aplicação.
func UUIDGenerator() domain.IDGenerator[string] {
	return GenerateUUID
}

func LogError(ctx context.Context, logger application.AppLogger, message string, err error, fields map[string]interface{}) {
	application.LogError(ctx, logger, message, err, fields)
}
