package paramtype

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/exp/constraints"
)

// IntRange is an IntType restricted to [Min, Max]. With Clamp, out of range
// values are moved to the nearest bound instead of being rejected.
type IntRange struct {
	IntType
	Min   *int64
	Max   *int64
	Clamp bool
}

func (IntRange) Name() string { return "INTEGER RANGE" }

func (r IntRange) Convert(value string) (any, error) {
	// Bounds are checked at full width so clamping works for narrow fields.
	v, err := IntType{Unsigned: r.Unsigned}.Convert(value)
	if err != nil {
		return nil, err
	}
	if u, ok := v.(uint64); ok {
		u, ok = checkUnsignedRange(u, r.Min, r.Max, r.Clamp)
		if !ok {
			return nil, fail(value, "%s is not in the range %s.", value, r.DescribeRange())
		}
		if r.Bits > 0 && r.Bits < 64 && u >= 1<<r.Bits {
			return nil, fail(value, "'%s' is not a valid integer.", value)
		}
		return u, nil
	}
	n, ok := checkRange(v.(int64), r.Min, r.Max, r.Clamp)
	if !ok {
		return nil, fail(value, "%s is not in the range %s.", value, r.DescribeRange())
	}
	if r.Bits > 0 && r.Bits < 64 && (n < -(1<<(r.Bits-1)) || n > 1<<(r.Bits-1)-1) {
		return nil, fail(value, "'%s' is not a valid integer.", value)
	}
	return n, nil
}

func (r IntRange) DescribeRange() string {
	return describeRange(r.Min, r.Max)
}

// FloatRange is a FloatType restricted to [Min, Max].
type FloatRange struct {
	FloatType
	Min   *float64
	Max   *float64
	Clamp bool
}

func (FloatRange) Name() string { return "FLOAT RANGE" }

func (r FloatRange) Convert(value string) (any, error) {
	v, err := r.FloatType.Convert(value)
	if err != nil {
		return nil, err
	}
	f, ok := checkRange(v.(float64), r.Min, r.Max, r.Clamp)
	if !ok {
		return nil, fail(value, "%s is not in the range %s.", value, r.DescribeRange())
	}
	return f, nil
}

func (r FloatRange) DescribeRange() string {
	return describeRange(r.Min, r.Max)
}

// DecimalType parses arbitrary precision decimals, optionally bounded.
type DecimalType struct {
	Min   *decimal.Decimal
	Max   *decimal.Decimal
	Clamp bool
}

func (t DecimalType) Name() string {
	if t.Min != nil || t.Max != nil {
		return "DECIMAL RANGE"
	}
	return "DECIMAL"
}

func (t DecimalType) Convert(value string) (any, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return nil, fail(value, "'%s' is not a valid decimal.", value)
	}
	if t.Min != nil && d.LessThan(*t.Min) {
		if !t.Clamp {
			return nil, fail(value, "%s is not in the range %s.", value, t.DescribeRange())
		}
		d = *t.Min
	}
	if t.Max != nil && d.GreaterThan(*t.Max) {
		if !t.Clamp {
			return nil, fail(value, "%s is not in the range %s.", value, t.DescribeRange())
		}
		d = *t.Max
	}
	return d, nil
}

func (t DecimalType) DescribeRange() string {
	switch {
	case t.Min != nil && t.Max != nil:
		return fmt.Sprintf("%s<=x<=%s", t.Min, t.Max)
	case t.Min != nil:
		return fmt.Sprintf("x>=%s", t.Min)
	case t.Max != nil:
		return fmt.Sprintf("x<=%s", t.Max)
	}
	return ""
}

func checkRange[T constraints.Integer | constraints.Float](v T, min, max *T, clamp bool) (T, bool) {
	if min != nil && v < *min {
		if !clamp {
			return v, false
		}
		v = *min
	}
	if max != nil && v > *max {
		if !clamp {
			return v, false
		}
		v = *max
	}
	return v, true
}

// checkUnsignedRange compares u against signed bounds without wrapping.
func checkUnsignedRange(u uint64, min, max *int64, clamp bool) (uint64, bool) {
	if min != nil && *min > 0 && u < uint64(*min) {
		if !clamp {
			return u, false
		}
		u = uint64(*min)
	}
	if max != nil && (*max < 0 || u > uint64(*max)) {
		if !clamp || *max < 0 {
			return u, false
		}
		u = uint64(*max)
	}
	return u, true
}

func describeRange[T constraints.Integer | constraints.Float](min, max *T) string {
	switch {
	case min != nil && max != nil:
		return fmt.Sprintf("%v<=x<=%v", *min, *max)
	case min != nil:
		return fmt.Sprintf("x>=%v", *min)
	case max != nil:
		return fmt.Sprintf("x<=%v", *max)
	}
	return ""
}
