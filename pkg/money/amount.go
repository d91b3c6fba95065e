package money

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// Amount is a currency value in hundredths (two decimal places). It is
// persisted as a DECIMAL string and rendered as a JSON number.
type Amount int64

const scale = 100

// Max is the largest value a DECIMAL(12,2) column holds.
const Max Amount = 999_999_999_999

var ErrOutOfRange = errors.New("money: amount out of range")

func FromFloat(f float64) Amount {
	return Amount(math.Round(f * scale))
}

func FromUnits(units int64) Amount {
	return Amount(units * scale)
}

func (a Amount) Float64() float64 {
	return float64(a) / scale
}

func (a Amount) String() string {
	sign := ""
	v := int64(a)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/scale, v%scale)
}

// Parse reads a decimal string, rounding half-up beyond two fraction digits.
func Parse(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("money: empty amount")
	}
	if strings.ContainsAny(s, "eE") {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("money: invalid amount %q", s)
		}
		if math.IsNaN(f) || math.Abs(f) > Max.Float64() {
			return 0, ErrOutOfRange
		}
		return FromFloat(f), nil
	}

	neg := false
	switch s[0] {
	case '-':
		neg = true
		s = s[1:]
	case '+':
		s = s[1:]
	}

	intPart, fracPart, _ := strings.Cut(s, ".")
	if intPart == "" {
		intPart = "0"
	}
	units, err := strconv.ParseInt(intPart, 10, 64)
	if errors.Is(err, strconv.ErrRange) {
		return 0, ErrOutOfRange
	}
	if err != nil || units < 0 {
		return 0, fmt.Errorf("money: invalid amount %q", s)
	}
	if units > int64(Max/scale) {
		return 0, ErrOutOfRange
	}
	for _, r := range fracPart {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("money: invalid amount %q", s)
		}
	}

	frac := fracPart + "000"
	cents, _ := strconv.ParseInt(frac[:2], 10, 64)
	v := units*scale + cents
	if frac[2] >= '5' {
		v++
	}
	if v > int64(Max) {
		return 0, ErrOutOfRange
	}
	if neg {
		v = -v
	}
	return Amount(v), nil
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalJSON reports unparseable or out of range values as a
// *json.UnmarshalTypeError, which the decoder tags with the field name.
func (a *Amount) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "null" {
		return nil
	}
	v, err := Parse(s)
	if err != nil {
		return &json.UnmarshalTypeError{Value: "amount " + s, Type: reflect.TypeOf(a).Elem()}
	}
	*a = v
	return nil
}

func (a Amount) Value() (driver.Value, error) {
	return a.String(), nil
}

func (a *Amount) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*a = 0
	case int64:
		*a = FromUnits(v)
	case float64:
		*a = FromFloat(v)
	case []byte:
		p, err := Parse(string(v))
		if err != nil {
			return err
		}
		*a = p
	case string:
		p, err := Parse(v)
		if err != nil {
			return err
		}
		*a = p
	default:
		return fmt.Errorf("money: cannot scan %T", src)
	}
	return nil
}

// GormDataType keeps AutoMigrate on DECIMAL(12,2) across dialects.
func (Amount) GormDataType() string {
	return "decimal(12,2)"
}
