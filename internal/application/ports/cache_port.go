package ports

import (
	"context"
	"time"
)

// Cache puerto de caché para agregados de lectura. Get devuelve found=false si la clave no
// existe o expiró.
type Cache interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}
