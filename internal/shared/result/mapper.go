package result

import (
	"fmt"
	"net/http"
	"reflect"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Class es la clase de respuesta en la que se traduce un Outcome.
type Class int

const (
	ClassOK Class = iota
	ClassNotFound
	ClassBadRequest
	ClassInternal
)

// StatusCode devuelve el código HTTP asociado a la clase.
func (c Class) StatusCode() int {
	switch c {
	case ClassOK:
		return http.StatusOK
	case ClassNotFound:
		return http.StatusNotFound
	case ClassBadRequest:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// absenceRule decide si un valor de cierto Kind cuenta como "ausente".
type absenceRule struct {
	numeric bool
	absent  func(v reflect.Value) bool
}

var (
	nilRule  = absenceRule{absent: func(v reflect.Value) bool { return v.IsNil() }}
	zeroRule = absenceRule{numeric: true, absent: func(v reflect.Value) bool { return v.IsZero() }}
)

// exemption decide si un tipo queda fuera de la regla de ausencia.
type exemption func(t reflect.Type) bool

var (
	mu sync.RWMutex

	// --- Tabla de reglas por Kind ---
	// Referencias: nil == ausente. Numéricos: cero == ausente.
	// Los Kinds que no aparecen (bool, string, struct, array) nunca son ausentes.
	kindRules = map[reflect.Kind]absenceRule{
		reflect.Pointer:    nilRule,
		reflect.Map:        nilRule,
		reflect.Slice:      nilRule,
		reflect.Interface:  nilRule,
		reflect.Chan:       nilRule,
		reflect.Func:       nilRule,
		reflect.Int:        zeroRule,
		reflect.Int8:       zeroRule,
		reflect.Int16:      zeroRule,
		reflect.Int32:      zeroRule,
		reflect.Int64:      zeroRule,
		reflect.Uint:       zeroRule,
		reflect.Uint8:      zeroRule,
		reflect.Uint16:     zeroRule,
		reflect.Uint32:     zeroRule,
		reflect.Uint64:     zeroRule,
		reflect.Uintptr:    zeroRule,
		reflect.Float32:    zeroRule,
		reflect.Float64:    zeroRule,
		reflect.Complex64:  zeroRule,
		reflect.Complex128: zeroRule,
	}

	// --- Tabla de tipos exentos ---
	// El cero de estos tipos es un valor válido, no un "no encontrado".
	exemptTypes = map[reflect.Type]struct{}{
		reflect.TypeOf(Unit{}):           {},
		reflect.TypeOf(uuid.UUID{}):      {},
		reflect.TypeOf(time.Time{}):      {},
		reflect.TypeOf(time.Duration(0)): {},
	}

	exemptions = []exemption{
		func(t reflect.Type) bool {
			_, ok := exemptTypes[t]
			return ok
		},
		isEnumeration,
	}
)

var stringerType = reflect.TypeOf((*fmt.Stringer)(nil)).Elem()

// isEnumeration trata como enumeración cualquier tipo numérico con nombre propio
// que implemente fmt.Stringer (p. ej. `type Priority int` con String()).
//
// Límites: un tipo con nombre sin String() no se distingue de un contador y su
// cero sigue siendo 404; para eximirlo hay que registrarlo con RegisterExempt.
// rune y byte son alias de int32 y uint8, así que reflect no puede separarlos de
// esos enteros: un carácter en cero también da 404.
func isEnumeration(t reflect.Type) bool {
	if t.PkgPath() == "" || t.Name() == "" {
		return false
	}
	if rule, ok := kindRules[t.Kind()]; !ok || !rule.numeric {
		return false
	}
	return t.Implements(stringerType) || reflect.PointerTo(t).Implements(stringerType)
}

// RegisterKind añade o sustituye la regla de ausencia de un Kind. numeric indica
// si los tipos con nombre de ese Kind pueden ser enumeraciones.
func RegisterKind(kind reflect.Kind, numeric bool, absent func(v reflect.Value) bool) {
	mu.Lock()
	defer mu.Unlock()
	kindRules[kind] = absenceRule{numeric: numeric, absent: absent}
}

// RegisterExempt exime al tipo T de la regla de ausencia.
func RegisterExempt[T any]() {
	mu.Lock()
	defer mu.Unlock()
	exemptTypes[reflect.TypeOf((*T)(nil)).Elem()] = struct{}{}
}

// Classify traduce un Outcome a su clase de respuesta.
func Classify[T any](o *Outcome[T]) Class {
	if o == nil {
		return ClassInternal
	}
	if !o.isSuccess {
		return ClassBadRequest
	}
	if isAbsent(o.value) {
		return ClassNotFound
	}
	return ClassOK
}

func isAbsent[T any](value T) bool {
	// Usamos el tipo estático de T para que un T interfaz nil también se evalúe.
	v := reflect.ValueOf(&value).Elem()
	t := v.Type()

	mu.RLock()
	defer mu.RUnlock()

	for _, exempt := range exemptions {
		if exempt(t) {
			return false
		}
	}

	rule, ok := kindRules[t.Kind()]
	return ok && rule.absent(v)
}
