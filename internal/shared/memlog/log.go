package memlog

import "sync"

// Log es un registro en memoria de solo-añadir, ordenado por inserción y seguro
// para uso concurrente. Lo comparten el servicio de Event Log y el consumidor.
type Log[T any] struct {
	mu      sync.RWMutex
	entries []T
}

// New crea un registro vacío.
func New[T any]() *Log[T] {
	return &Log[T]{entries: make([]T, 0)}
}

// Append añade una entrada bajo bloqueo exclusivo.
func (l *Log[T]) Append(entry T) {
	l.mu.Lock()
	l.entries = append(l.entries, entry)
	l.mu.Unlock()
}

// Snapshot devuelve una copia de todas las entradas. Nunca devuelve nil.
func (l *Log[T]) Snapshot() []T {
	l.mu.RLock()
	out := make([]T, len(l.entries))
	copy(out, l.entries)
	l.mu.RUnlock()
	return out
}

// Filter copia bajo el bloqueo y filtra después de liberarlo.
func (l *Log[T]) Filter(keep func(T) bool) []T {
	snapshot := l.Snapshot()
	out := make([]T, 0, len(snapshot))
	for _, entry := range snapshot {
		if keep(entry) {
			out = append(out, entry)
		}
	}
	return out
}

func (l *Log[T]) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}
