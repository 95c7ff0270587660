package primitive_test

import (
	"net/netip"
	"reflect"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xpathbind/options"
	"xpathbind/primitive"
)

type Color string

func (c Color) IsValid() bool { return c == "red" || c == "green" }

type Level int8

func parse[T any](t *testing.T, kind primitive.KindEnum, text string, allowed options.CategoryEnum) (T, error) {
	t.Helper()

	v, err := primitive.Parse(kind, reflect.TypeFor[T](), text, allowed)
	if err != nil {
		var zero T
		return zero, err
	}

	return v.Interface().(T), nil
}

func TestParseNumbers(t *testing.T) {
	t.Parallel()

	i, err := parse[int](t, primitive.KindInt, "10", options.CategoryDefault)
	require.NoError(t, err)
	assert.Equal(t, 10, i)

	i8, err := parse[int8](t, primitive.KindInt8, "-128", options.CategoryDefault)
	require.NoError(t, err)
	assert.Equal(t, int8(-128), i8)

	_, err = parse[int8](t, primitive.KindInt8, "128", options.CategoryDefault)
	assert.ErrorIs(t, err, strconv.ErrRange)

	u16, err := parse[uint16](t, primitive.KindUint16, "65535", options.CategoryDefault)
	require.NoError(t, err)
	assert.Equal(t, uint16(65535), u16)

	f, err := parse[float64](t, primitive.KindFloat64, "2.5", options.CategoryDefault)
	require.NoError(t, err)
	assert.InDelta(t, 2.5, f, 1e-9)

	_, err = parse[int](t, primitive.KindInt, "ten", options.CategoryDefault)
	assert.ErrorIs(t, err, strconv.ErrSyntax)

	_, err = parse[int](t, primitive.KindInt, "10", options.CategoryNone)
	assert.ErrorIs(t, err, primitive.ErrCategoryNotAllowed)
}

func TestParseBool(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text    string
		allowed options.CategoryEnum
		want    bool
		wantErr bool
	}{
		{"true", options.CategoryNone | options.CategoryTextNumber, true, false},
		{"0", options.CategoryTextNumber, false, false},
		{"yes", options.CategoryTextualBool, true, false},
		{"Off", options.CategoryTextualBool, false, false},
		{"yes", options.CategoryTextNumber, false, true},
		{"42", options.CategoryNumericBool, true, false},
		{"42", options.CategoryTextualBool, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, err := parse[bool](t, primitive.KindBool, tt.text, tt.allowed)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTimeAndDuration(t *testing.T) {
	t.Parallel()

	ts, err := parse[time.Time](t, primitive.KindTime, "2024-05-01T10:00:00Z", options.CategoryDefault)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), ts)

	ts, err = parse[time.Time](t, primitive.KindTime, "0", options.CategoryTimestamp)
	require.NoError(t, err)
	assert.Equal(t, time.Unix(0, 0).UTC(), ts)

	_, err = parse[time.Time](t, primitive.KindTime, "0", options.CategoryDatetime)
	assert.Error(t, err)

	d, err := parse[time.Duration](t, primitive.KindDuration, "2h45m", options.CategoryDefault)
	require.NoError(t, err)
	assert.Equal(t, 2*time.Hour+45*time.Minute, d)

	d, err = parse[time.Duration](t, primitive.KindDuration, "1500", options.CategoryNanoseconds)
	require.NoError(t, err)
	assert.Equal(t, 1500*time.Nanosecond, d)

	d, err = parse[time.Duration](t, primitive.KindDuration, "1.5", options.CategorySeconds)
	require.NoError(t, err)
	assert.Equal(t, 1500*time.Millisecond, d)
}

func TestParseEnums(t *testing.T) {
	t.Parallel()

	c, err := parse[Color](t, primitive.KindPrimitiveEnum, "red", options.CategoryDefault)
	require.NoError(t, err)
	assert.Equal(t, Color("red"), c)

	_, err = parse[Color](t, primitive.KindPrimitiveEnum, "blue", options.CategoryDefault)
	assert.ErrorIs(t, err, primitive.ErrInvalidEnum)

	_, err = parse[Color](t, primitive.KindPrimitiveEnum, "red", options.CategoryDefault&^options.CategoryEnumString)
	assert.ErrorIs(t, err, primitive.ErrCategoryNotAllowed)

	l, err := parse[Level](t, primitive.KindPrimitiveEnum, "-3", options.CategoryDefault)
	require.NoError(t, err)
	assert.Equal(t, Level(-3), l)
}

func TestParseCharAndText(t *testing.T) {
	t.Parallel()

	r, err := parse[rune](t, primitive.KindChar, "ж", options.CategoryDefault)
	require.NoError(t, err)
	assert.Equal(t, 'ж', r)

	_, err = parse[rune](t, primitive.KindChar, "ab", options.CategoryDefault)
	assert.ErrorIs(t, err, primitive.ErrNotAChar)

	_, err = parse[int8](t, primitive.KindChar, "ж", options.CategoryDefault)
	assert.Error(t, err)

	addr, err := parse[netip.Addr](t, primitive.KindText, "10.0.0.1", options.CategoryDefault)
	require.NoError(t, err)
	assert.Equal(t, netip.MustParseAddr("10.0.0.1"), addr)

	_, err = parse[netip.Addr](t, primitive.KindText, "nope", options.CategoryDefault)
	assert.Error(t, err)
}

func TestKindPredicates(t *testing.T) {
	t.Parallel()

	assert.True(t, primitive.KindUint8.IsNumber())
	assert.True(t, primitive.KindUint8.IsUnsigned())
	assert.False(t, primitive.KindUint8.IsSigned())
	assert.True(t, primitive.KindFloat32.IsFloat())
	assert.False(t, primitive.KindBool.IsNumber())
	assert.Equal(t, 16, primitive.KindInt16.Bits())
	assert.Panics(t, func() { primitive.KindString.Bits() })
}
