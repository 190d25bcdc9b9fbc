package autowire

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	ErrNilFunction      = errors.New("callable cannot be nil")
	ErrNilType          = errors.New("type cannot be nil")
	ErrNotFunction      = errors.New("callable must be a function")
	ErrNotConstructible = errors.New("type cannot be auto-wired: not a struct or pointer to struct")
)

var (
	_ error = UnsatisfiedFieldError{}
	_ error = UnsatisfiedParameterError{}
	_ error = FieldTypeError{}
	_ error = PanicError{}
)

// UnsatisfiedFieldError indicates a required struct field could not be
// filled from extras, an inject tag, or the resolver.
type UnsatisfiedFieldError struct {
	Target reflect.Type
	Field  string
	Type   reflect.Type
}

func (e UnsatisfiedFieldError) Error() string {
	return fmt.Sprintf("cannot auto-wire %s: no value for field %s (%s)", e.Target, e.Field, e.Type)
}

// UnsatisfiedParameterError indicates a function parameter could not be
// resolved by declared type or matched against the extras.
type UnsatisfiedParameterError struct {
	Fn    reflect.Type
	Index int
	Type  reflect.Type
}

func (e UnsatisfiedParameterError) Error() string {
	return fmt.Sprintf("cannot invoke %s: no value for parameter %d (%s)", e.Fn, e.Index, e.Type)
}

// FieldTypeError indicates an extras override was not assignable to the
// field it named.
type FieldTypeError struct {
	Target reflect.Type
	Field  string
	Want   reflect.Type
	Got    reflect.Type
}

func (e FieldTypeError) Error() string {
	return fmt.Sprintf("cannot auto-wire %s: field %s wants %s, override is %s", e.Target, e.Field, e.Want, e.Got)
}

// PanicError captures a panic raised while invoking a callable.
type PanicError struct {
	Fn    reflect.Type
	Value any
	Stack []byte
}

func (e PanicError) Error() string {
	return fmt.Sprintf("callable %s panicked: %v", e.Fn, e.Value)
}
