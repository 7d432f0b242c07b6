package cache

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// cacheOpTimeout acota cada operación de caché hecha en el camino de la petición.
const cacheOpTimeout = 200 * time.Millisecond

// StoreInCache guarda el valor de forma síncrona con un timeout corto. Un fallo
// sólo se registra. La escritura termina antes de que la petición responda, así
// que una invalidación posterior (Edit/Delete) siempre la pisa.
func StoreInCache(ctx context.Context, cache Cache, key string, value interface{}, ttl time.Duration, log *zap.Logger) {
	if cache == nil {
		return
	}

	cacheCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cacheOpTimeout)
	defer cancel()

	if err := cache.Set(cacheCtx, key, value, ttl); err != nil {
		log.Warn("⚠️ Cache update failed",
			zap.String("key", key),
			zap.Error(err))
	}
}

// InvalidateCache borra la clave de forma síncrona con un timeout corto. Tras
// una escritura la invalidación no puede quedar en background: una lectura
// inmediata vería el valor viejo.
func InvalidateCache(ctx context.Context, cache Cache, key string, log *zap.Logger) {
	if cache == nil {
		return
	}

	cacheCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cacheOpTimeout)
	defer cancel()

	if err := cache.Delete(cacheCtx, key); err != nil {
		log.Warn("⚠️ Cache deletion failed",
			zap.String("key", key),
			zap.Error(err))
	}
}
