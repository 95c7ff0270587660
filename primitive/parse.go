package primitive

import (
	"encoding"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"xpathbind/options"
)

var (
	ErrCategoryNotAllowed = errors.New("conversion category is not allowed")
	ErrNotAChar           = errors.New("text is not a single character")
	ErrInvalidEnum        = errors.New("value is not a valid enum member")
	ErrUnsupportedKind    = errors.New("kind cannot be parsed from text")
)

type validEnum interface{ IsValid() bool }

// Parse converts text into a value of rtype, which must be of the given kind.
// The text is used as is; trimming is the caller's business.
func Parse(kind KindEnum, rtype reflect.Type, text string, allowed options.CategoryEnum) (reflect.Value, error) {
	if !IsAllowed(kind, allowed) {
		return reflect.Value{}, fmt.Errorf("%w: %s into %s", ErrCategoryNotAllowed, kind, rtype)
	}

	out := reflect.New(rtype).Elem()

	switch kind {
	default:
		return reflect.Value{}, fmt.Errorf("%w: %s", ErrUnsupportedKind, kind)

	case KindString:
		out.SetString(text)

	case KindBool:
		b, err := parseBool(text, allowed)
		if err != nil {
			return reflect.Value{}, err
		}
		out.SetBool(b)

	case KindTime:
		t, err := parseTime(text, allowed)
		if err != nil {
			return reflect.Value{}, err
		}
		out.Set(reflect.ValueOf(t))

	case KindDuration:
		d, err := parseDuration(text, allowed)
		if err != nil {
			return reflect.Value{}, err
		}
		out.SetInt(int64(d))

	case KindChar:
		if utf8.RuneCountInString(text) != 1 {
			return reflect.Value{}, fmt.Errorf("%w: '%s'", ErrNotAChar, text)
		}
		r, _ := utf8.DecodeRuneInString(text)
		if out.CanInt() {
			if out.OverflowInt(int64(r)) {
				return reflect.Value{}, fmt.Errorf("char '%s' overflows %s", text, rtype)
			}
			out.SetInt(int64(r))
		} else if out.CanUint() {
			if out.OverflowUint(uint64(r)) {
				return reflect.Value{}, fmt.Errorf("char '%s' overflows %s", text, rtype)
			}
			out.SetUint(uint64(r))
		} else {
			return reflect.Value{}, fmt.Errorf("%w: char into %s", ErrUnsupportedKind, rtype)
		}

	case KindText:
		ptr := reflect.New(rtype)
		if err := ptr.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(text)); err != nil {
			return reflect.Value{}, err
		}
		out.Set(ptr.Elem())

	case KindPrimitiveEnum:
		base := underlyingKind(rtype)
		if base == 0 {
			return reflect.Value{}, fmt.Errorf("%w: %s", ErrUnsupportedKind, rtype)
		}
		if base != KindString && !IsAllowed(base, allowed) {
			return reflect.Value{}, fmt.Errorf("%w: %s into %s", ErrCategoryNotAllowed, base, rtype)
		}
		if err := setBasic(out, base, text, allowed); err != nil {
			return reflect.Value{}, err
		}
		if v, ok := out.Interface().(validEnum); ok && !v.IsValid() {
			return reflect.Value{}, fmt.Errorf("%w: '%s' for %s", ErrInvalidEnum, text, rtype)
		}

	case KindInt, KindInt8, KindInt16, KindInt32, KindInt64,
		KindUint, KindUint8, KindUint16, KindUint32, KindUint64,
		KindFloat32, KindFloat64:
		if err := setBasic(out, kind, text, allowed); err != nil {
			return reflect.Value{}, err
		}
	}

	return out, nil
}

// setBasic stores text into out, whose underlying type is of the basic kind.
func setBasic(out reflect.Value, kind KindEnum, text string, allowed options.CategoryEnum) error {
	switch {
	case kind.IsSigned():
		n, err := strconv.ParseInt(text, 10, kind.Bits())
		if err != nil {
			return err
		}
		out.SetInt(n)
	case kind.IsUnsigned():
		n, err := strconv.ParseUint(text, 10, kind.Bits())
		if err != nil {
			return err
		}
		out.SetUint(n)
	case kind.IsFloat():
		f, err := strconv.ParseFloat(text, kind.Bits())
		if err != nil {
			return err
		}
		out.SetFloat(f)
	case kind == KindBool:
		b, err := parseBool(text, allowed)
		if err != nil {
			return err
		}
		out.SetBool(b)
	case kind == KindString:
		out.SetString(text)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedKind, kind)
	}

	return nil
}

func parseBool(text string, allowed options.CategoryEnum) (bool, error) {
	b, err := strconv.ParseBool(text)
	if err == nil {
		return b, nil
	}

	if allowed.Has(options.CategoryTextualBool) {
		switch strings.ToLower(text) {
		case "yes", "on", "y":
			return true, nil
		case "no", "off", "n":
			return false, nil
		}
	}

	if allowed.Has(options.CategoryNumericBool) {
		if n, nerr := strconv.ParseInt(text, 10, 64); nerr == nil {
			return n != 0, nil
		}
	}

	return false, err
}

func parseTime(text string, allowed options.CategoryEnum) (time.Time, error) {
	var errs []error

	if allowed.Has(options.CategoryDatetime) {
		t, err := time.Parse(time.RFC3339Nano, text)
		if err == nil {
			return t, nil
		}
		errs = append(errs, err)
	}

	if allowed.Has(options.CategoryTimestamp) {
		n, err := strconv.ParseInt(text, 10, 64)
		if err == nil {
			return time.Unix(n, 0).UTC(), nil
		}
		errs = append(errs, err)
	}

	return time.Time{}, errors.Join(errs...)
}

func parseDuration(text string, allowed options.CategoryEnum) (time.Duration, error) {
	var errs []error

	if allowed.Has(options.CategoryDuration) {
		d, err := time.ParseDuration(text)
		if err == nil {
			return d, nil
		}
		errs = append(errs, err)
	}

	if allowed.Has(options.CategoryNanoseconds) {
		n, err := strconv.ParseInt(text, 10, 64)
		if err == nil {
			return time.Duration(n), nil
		}
		errs = append(errs, err)
	}

	if allowed.Has(options.CategorySeconds) {
		f, err := strconv.ParseFloat(text, 64)
		if err == nil {
			return time.Duration(f * float64(time.Second)), nil
		}
		errs = append(errs, err)
	}

	return 0, errors.Join(errs...)
}
