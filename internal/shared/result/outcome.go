// en internal/shared/result/outcome.go
package result

// Unit es el marcador de "sin payload" para los handlers que no devuelven valor
// (Edit, Delete). El mapper lo reconoce por tipo, nunca por nombre.
type Unit struct{}

// Outcome es el resultado de cualquier handler: Success(valor) o Failure(mensaje).
// Un Success con valor nil sigue siendo un Success.
type Outcome[T any] struct {
	isSuccess bool
	value     T
	message   string
}

// Success construye un resultado exitoso.
func Success[T any](value T) *Outcome[T] {
	return &Outcome[T]{isSuccess: true, value: value}
}

// Failure construye un resultado fallido con un mensaje para el cliente.
func Failure[T any](message string) *Outcome[T] {
	return &Outcome[T]{isSuccess: false, message: message}
}

func (o *Outcome[T]) IsSuccess() bool {
	return o.isSuccess
}

// Value devuelve el valor; en un Failure es el zero value de T.
func (o *Outcome[T]) Value() T {
	return o.value
}

// Message devuelve el mensaje de fallo; vacío en un Success.
func (o *Outcome[T]) Message() string {
	return o.message
}

// Map transforma el valor de un Success conservando Failure y nil tal cual.
func Map[T, U any](o *Outcome[T], fn func(T) U) *Outcome[U] {
	if o == nil {
		return nil
	}
	if !o.isSuccess {
		return Failure[U](o.message)
	}
	return Success(fn(o.value))
}
