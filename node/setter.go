package node

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	ErrNoSuchMethod  = errors.New("setter method not found")
	ErrTooManyParams = errors.New("setter has too many params")
	ErrNotASetter    = errors.New("method is not a recognizable setter")
)

// Setter describes a method that receives a bound value.
type Setter struct {
	Name   string
	Arg    reflect.Type // nil for zero-argument setters
	HasErr bool
}

// ParseSetter inspects the method name on *recv and returns its Setter description.
//
// Supports interfaces:
//   - func()
//   - func() error
//   - func(v Type)
//   - func(v Type) error
func ParseSetter(recv reflect.Type, name string) (Setter, error) {
	m, ok := reflect.PointerTo(recv).MethodByName(name)
	if !ok {
		return Setter{}, fmt.Errorf("%w: %s.%s", ErrNoSuchMethod, recv, name)
	}

	fnType := m.Type // includes the receiver as the first argument
	if fnType.IsVariadic() {
		return Setter{}, fmt.Errorf("%w: %s.%s is variadic", ErrNotASetter, recv, name)
	}

	setter := Setter{Name: name}

	switch fnType.NumIn() - 1 {
	case 0:
	case 1:
		setter.Arg = fnType.In(1)
	default:
		return Setter{}, fmt.Errorf("%w: %s.%s", ErrTooManyParams, recv, name)
	}

	switch fnType.NumOut() {
	default:
		return Setter{}, fmt.Errorf("%w: %s.%s returns %d values", ErrNotASetter, recv, name, fnType.NumOut())
	case 0:
	case 1:
		if !isError(fnType.Out(0)) {
			return Setter{}, fmt.Errorf("%w: %s.%s returns %s", ErrNotASetter, recv, name, fnType.Out(0))
		}
		setter.HasErr = true
	}

	return setter, nil
}

// Call invokes the setter on recv, which must be addressable. arg is ignored
// by zero-argument setters.
func (s Setter) Call(recv reflect.Value, arg reflect.Value) error {
	fn := recv.Addr().MethodByName(s.Name)

	var in []reflect.Value
	if s.Arg != nil {
		in = []reflect.Value{arg}
	}

	out := fn.Call(in)
	if s.HasErr && !out[0].IsNil() {
		return out[0].Interface().(error)
	}

	return nil
}
