package node

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	ErrAppendImmutable = errors.New("cannot append to immutable member")
	ErrUnsupportedType = errors.New("unsupported type")
	ErrArrayOfArray    = errors.New("array of array unsupported")
)

// Validate classifies the member and reports its static misuse, if any.
// Zero-argument setters have nothing to classify and report DispatcherUnsupported
// with a nil error.
func (d *Discoverer) Validate(m Member) (DispatcherEnum, error) {
	if m.Err != nil {
		return DispatcherUnsupported, m.Err
	}

	if m.IsSetter() && m.Type == nil {
		return DispatcherUnsupported, nil
	}

	dispatch := d.Classify(m.Type)

	switch dispatch {
	case DispatcherPrimitive:
		if m.Directive.Append {
			return dispatch, fmt.Errorf("%w: can't append to primitive type %s", ErrAppendImmutable, TypeName(m.Type))
		}
	case DispatcherString:
		if m.Directive.Append {
			return dispatch, fmt.Errorf("%w: can't append to string", ErrAppendImmutable)
		}
	case DispatcherArray:
		if m.Directive.Append {
			return dispatch, fmt.Errorf("%w: can't append to array %s, arrays are always replaced", ErrAppendImmutable, TypeName(m.Type))
		}
		if err := d.validateItem(Base(m.Type).Elem()); err != nil {
			return dispatch, err
		}
	case DispatcherTarget:
	default:
		return dispatch, fmt.Errorf("%w %s", ErrUnsupportedType, TypeName(m.Type))
	}

	return dispatch, nil
}

func (d *Discoverer) validateItem(elem reflect.Type) error {
	switch d.Classify(elem) {
	case DispatcherArray:
		return fmt.Errorf("%w: %s", ErrArrayOfArray, TypeName(elem))
	case DispatcherUnsupported:
		return fmt.Errorf("%w %s", ErrUnsupportedType, TypeName(elem))
	}
	return nil
}

// Check validates every member reachable from the struct type t without a
// document, following nested targets and array items once per type.
func (d *Discoverer) Check(t reflect.Type) error {
	var (
		dealer Dealer[reflect.Type]
		errs   []error
	)

	dealer.Needs(Base(t))
	for {
		cur, ok := dealer.NextNeeds()
		if !ok {
			break
		}

		for _, m := range d.Members(cur) {
			dispatch, err := d.Validate(m)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", m.Name, err))
				continue
			}

			switch dispatch {
			case DispatcherTarget:
				dealer.Needs(Base(m.Type))
			case DispatcherArray:
				if elem := Base(Base(m.Type).Elem()); d.Classify(elem) == DispatcherTarget {
					dealer.Needs(elem)
				}
			}
		}
	}

	return errors.Join(errs...)
}

// Check validates t with the default discoverer.
func Check(t reflect.Type) error {
	return defaultDiscoverer.Check(t)
}
