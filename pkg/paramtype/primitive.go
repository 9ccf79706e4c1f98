package paramtype

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	String   ParamType = StringType{}
	Int      ParamType = IntType{Bits: 64}
	Float    ParamType = FloatType{Bits: 64}
	Bool     ParamType = BoolType{}
	UUID     ParamType = UUIDType{}
	Duration ParamType = DurationType{}
)

type StringType struct{}

func (StringType) Name() string { return "TEXT" }

func (StringType) Convert(value string) (any, error) {
	return value, nil
}

// IntType parses base-10 integers. Convert returns int64, or uint64 when Unsigned.
type IntType struct {
	Bits     int
	Unsigned bool
}

func (IntType) Name() string { return "INTEGER" }

func (t IntType) Convert(value string) (any, error) {
	bits := t.Bits
	if bits == 0 {
		bits = 64
	}
	s := strings.TrimSpace(value)
	if t.Unsigned {
		n, err := strconv.ParseUint(s, 10, bits)
		if err != nil {
			return nil, fail(value, "'%s' is not a valid integer.", value)
		}
		return n, nil
	}
	n, err := strconv.ParseInt(s, 10, bits)
	if err != nil {
		return nil, fail(value, "'%s' is not a valid integer.", value)
	}
	return n, nil
}

// FloatType parses floating point numbers. Convert returns float64.
type FloatType struct {
	Bits int
}

func (FloatType) Name() string { return "FLOAT" }

func (t FloatType) Convert(value string) (any, error) {
	bits := t.Bits
	if bits == 0 {
		bits = 64
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(value), bits)
	if err != nil {
		return nil, fail(value, "'%s' is not a valid float.", value)
	}
	return f, nil
}

type BoolType struct{}

func (BoolType) Name() string { return "BOOLEAN" }

func (BoolType) Convert(value string) (any, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "t", "yes", "y", "on":
		return true, nil
	case "0", "false", "f", "no", "n", "off":
		return false, nil
	}
	return nil, fail(value, "'%s' is not a valid boolean.", value)
}

type UUIDType struct{}

func (UUIDType) Name() string { return "UUID" }

func (UUIDType) Convert(value string) (any, error) {
	u, err := uuid.Parse(strings.TrimSpace(value))
	if err != nil {
		return nil, fail(value, "'%s' is not a valid UUID.", value)
	}
	return u, nil
}

// DurationType parses Go duration strings such as "1h30m".
type DurationType struct{}

func (DurationType) Name() string { return "DURATION" }

func (DurationType) Convert(value string) (any, error) {
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return nil, fail(value, "'%s' is not a valid duration.", value)
	}
	return d, nil
}
