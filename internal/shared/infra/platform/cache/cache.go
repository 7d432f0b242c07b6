package cache

import (
	"context"
	"time"
)

// Cache es una caché clave-valor con valores en JSON.
type Cache interface {
	// Get rellena dest (un puntero). Un miss devuelve (false, nil).
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set guarda val durante ttl; ttl <= 0 usa el TTL por defecto de la caché.
	Set(ctx context.Context, key string, val interface{}, ttl time.Duration) error

	Delete(ctx context.Context, key string) error
}
