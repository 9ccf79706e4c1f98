package paramtype

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestIntConvert(t *testing.T) {
	v, err := Int.Convert("42")
	require.NoError(t, err)
	require.Equal(t, int64(42), v)

	_, err = Int.Convert("forty")
	require.EqualError(t, err, "'forty' is not a valid integer.")

	v, err = IntType{Bits: 8, Unsigned: true}.Convert("255")
	require.NoError(t, err)
	require.Equal(t, uint64(255), v)

	_, err = IntType{Bits: 8}.Convert("255")
	require.Error(t, err)
}

func TestBoolConvert(t *testing.T) {
	for _, s := range []string{"1", "true", "Yes", "on", "T"} {
		v, err := Bool.Convert(s)
		require.NoError(t, err, s)
		require.Equal(t, true, v, s)
	}
	for _, s := range []string{"0", "false", "No", "off"} {
		v, err := Bool.Convert(s)
		require.NoError(t, err, s)
		require.Equal(t, false, v, s)
	}
	_, err := Bool.Convert("maybe")
	require.EqualError(t, err, "'maybe' is not a valid boolean.")
}

func TestUUIDAndDuration(t *testing.T) {
	id := uuid.New()
	v, err := UUID.Convert(id.String())
	require.NoError(t, err)
	require.Equal(t, id, v)

	_, err = UUID.Convert("nope")
	require.EqualError(t, err, "'nope' is not a valid UUID.")

	v, err = Duration.Convert("1h30m")
	require.NoError(t, err)
	require.Equal(t, 90*time.Minute, v)
}

func TestIntRange(t *testing.T) {
	lo, hi := int64(1), int64(5)
	r := IntRange{Min: &lo, Max: &hi}
	require.Equal(t, "1<=x<=5", r.DescribeRange())

	v, err := r.Convert("3")
	require.NoError(t, err)
	require.Equal(t, int64(3), v)

	_, err = r.Convert("9")
	require.EqualError(t, err, "9 is not in the range 1<=x<=5.")

	r.Clamp = true
	v, err = r.Convert("9")
	require.NoError(t, err)
	require.Equal(t, int64(5), v)
	v, err = r.Convert("-3")
	require.NoError(t, err)
	require.Equal(t, int64(1), v)
}

func TestIntRangeWidths(t *testing.T) {
	zero, ten := int64(0), int64(10)
	for _, tt := range []struct {
		name  string
		r     IntRange
		in    string
		want  any
		error string
	}{
		{"unsigned above max int64", IntRange{IntType: IntType{Bits: 64, Unsigned: true}, Max: &ten}, "18446744073709551615", nil, "18446744073709551615 is not in the range x<=10."},
		{"unsigned in range", IntRange{IntType: IntType{Bits: 64, Unsigned: true}, Max: &ten}, "7", uint64(7), ""},
		{"unsigned clamped", IntRange{IntType: IntType{Bits: 64, Unsigned: true}, Max: &ten, Clamp: true}, "18446744073709551615", uint64(10), ""},
		{"narrow clamped", IntRange{IntType: IntType{Bits: 8}, Min: &zero, Max: &ten, Clamp: true}, "1000", int64(10), ""},
		{"narrow clamped low", IntRange{IntType: IntType{Bits: 8}, Min: &zero, Max: &ten, Clamp: true}, "-1000", int64(0), ""},
		{"narrow out of width", IntRange{IntType: IntType{Bits: 8}, Min: &zero}, "1000", nil, "'1000' is not a valid integer."},
		{"narrow unsigned out of width", IntRange{IntType: IntType{Bits: 8, Unsigned: true}, Min: &zero}, "256", nil, "'256' is not a valid integer."},
	} {
		t.Run(tt.name, func(t *testing.T) {
			v, err := tt.r.Convert(tt.in)
			if tt.error != "" {
				require.EqualError(t, err, tt.error)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, v)
		})
	}
}

func TestFloatRange(t *testing.T) {
	lo := 0.5
	r := FloatRange{Min: &lo}
	require.Equal(t, "x>=0.5", r.DescribeRange())
	_, err := r.Convert("0.1")
	require.Error(t, err)
	v, err := r.Convert("2.5")
	require.NoError(t, err)
	require.Equal(t, 2.5, v)
}

func TestDecimal(t *testing.T) {
	v, err := DecimalType{}.Convert("10.25")
	require.NoError(t, err)
	require.True(t, decimal.RequireFromString("10.25").Equal(v.(decimal.Decimal)))

	max := decimal.RequireFromString("10")
	d := DecimalType{Max: &max, Clamp: true}
	require.Equal(t, "DECIMAL RANGE", d.Name())
	v, err = d.Convert("11.5")
	require.NoError(t, err)
	require.True(t, max.Equal(v.(decimal.Decimal)))

	_, err = DecimalType{}.Convert("abc")
	require.EqualError(t, err, "'abc' is not a valid decimal.")
}

func TestDateTime(t *testing.T) {
	v, err := DateTime{}.Convert("2024-03-01")
	require.NoError(t, err)
	require.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), v)

	v, err = DateTime{}.Convert("2024-03-01 10:11:12")
	require.NoError(t, err)
	require.Equal(t, time.Date(2024, 3, 1, 10, 11, 12, 0, time.UTC), v)

	_, err = DateTime{Formats: []string{"02/01/2006"}}.Convert("2024-03-01")
	require.EqualError(t, err, "'2024-03-01' does not match the format '02/01/2006'.")

	require.Equal(t, "[2006-01-02|2006-01-02T15:04:05|2006-01-02 15:04:05]", DateTime{}.Name())
}
