package types

import (
	"errors"
	"reflect"
)

// ErrNoValue is carried by a Result whose success value was nil.
var ErrNoValue = errors.New("result carries no value")

// Result is the uniform outcome carrier for mutating catalog operations:
// either a success holding a value, or a failure holding a typed error.
// A success built from a nil value degrades to a failure, so "nothing"
// can never masquerade as success.
type Result[T any] struct {
	value T
	err   error
}

// Success creates a successful Result. Passing a nil value yields a
// failure carrying ErrNoValue.
func Success[T any](value T) Result[T] {
	if isNil(value) {
		return Result[T]{err: ErrNoValue}
	}
	return Result[T]{value: value}
}

// Failure creates a failed Result carrying err.
func Failure[T any](err error) Result[T] {
	if err == nil {
		err = ErrNoValue
	}
	return Result[T]{err: err}
}

// IsSuccess reports whether the Result holds a value.
func (r Result[T]) IsSuccess() bool {
	return r.err == nil
}

// Value returns the carried value (zero value on failure).
func (r Result[T]) Value() T {
	return r.value
}

// Err returns the carried error, nil on success.
func (r Result[T]) Err() error {
	return r.err
}

// Unpack returns the conventional (value, error) pair.
func (r Result[T]) Unpack() (T, error) {
	return r.value, r.err
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Slice, reflect.Map, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
