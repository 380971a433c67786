package flowrt

import (
	"math"
	"strconv"
	"strings"
)

// Number is a NiFi numeric value: either a whole number or a decimal.
// Arithmetic between two whole numbers stays whole and division truncates.
type Number struct {
	whole     int64
	decimal   float64
	isDecimal bool
}

func Int(value int64) Number {
	return Number{whole: value}
}

func Float(value float64) Number {
	return Number{decimal: value, isDecimal: true}
}

// ToNumber parses text as a whole number when it has no decimal point or
// exponent, and as a decimal otherwise. Empty or invalid text is 0.
func ToNumber(text string) Number {
	text = strings.TrimSpace(text)
	if text == "" {
		return Int(0)
	}

	if !strings.ContainsAny(text, ".eE") {
		if value, err := strconv.ParseInt(text, 10, 64); err == nil {
			return Int(value)
		}
	}

	if value, err := strconv.ParseFloat(text, 64); err == nil {
		return Float(value)
	}

	return Int(0)
}

func (n Number) IsDecimal() bool {
	return n.isDecimal
}

func (n Number) IsZero() bool {
	return n.Float64() == 0
}

func (n Number) Float64() float64 {
	if n.isDecimal {
		return n.decimal
	}

	return float64(n.whole)
}

// Int64 returns the value truncated toward zero.
func (n Number) Int64() int64 {
	if n.isDecimal {
		return int64(n.decimal)
	}

	return n.whole
}

func (n Number) Int() int {
	return int(n.Int64())
}

func (n Number) ToDecimal() Number {
	return Float(n.Float64())
}

func (n Number) Plus(other Number) Number {
	if n.isDecimal || other.isDecimal {
		return Float(n.Float64() + other.Float64())
	}

	return Int(n.whole + other.whole)
}

func (n Number) Minus(other Number) Number {
	if n.isDecimal || other.isDecimal {
		return Float(n.Float64() - other.Float64())
	}

	return Int(n.whole - other.whole)
}

func (n Number) Multiply(other Number) Number {
	if n.isDecimal || other.isDecimal {
		return Float(n.Float64() * other.Float64())
	}

	return Int(n.whole * other.whole)
}

// Divide truncates when both operands are whole. Division of a whole number by
// zero falls back to decimal division and yields an infinity or NaN.
func (n Number) Divide(other Number) Number {
	if n.isDecimal || other.isDecimal || other.whole == 0 {
		return Float(n.Float64() / other.Float64())
	}

	return Int(n.whole / other.whole)
}

// Mod returns the remainder with the sign of the dividend.
func (n Number) Mod(other Number) Number {
	if n.isDecimal || other.isDecimal || other.whole == 0 {
		return Float(math.Mod(n.Float64(), other.Float64()))
	}

	return Int(n.whole % other.whole)
}

func (n Number) compare(other Number) int {
	if !n.isDecimal && !other.isDecimal {
		switch {
		case n.whole < other.whole:
			return -1
		case n.whole > other.whole:
			return 1
		default:
			return 0
		}
	}

	a, b := n.Float64(), other.Float64()
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func (n Number) Equal(other Number) bool {
	return n.compare(other) == 0
}

func (n Number) Gt(other Number) bool {
	return n.compare(other) > 0
}

func (n Number) Ge(other Number) bool {
	return n.compare(other) >= 0
}

func (n Number) Lt(other Number) bool {
	return n.compare(other) < 0
}

func (n Number) Le(other Number) bool {
	return n.compare(other) <= 0
}

func (n Number) Abs() Number {
	if n.isDecimal {
		return Float(math.Abs(n.decimal))
	}

	if n.whole < 0 {
		return Int(-n.whole)
	}

	return n
}

func (n Number) Ceil() Number {
	if !n.isDecimal {
		return n
	}

	return Float(math.Ceil(n.decimal))
}

func (n Number) Floor() Number {
	if !n.isDecimal {
		return n
	}

	return Float(math.Floor(n.decimal))
}

// Round rounds half up to a whole number.
func (n Number) Round() Number {
	if !n.isDecimal {
		return n
	}

	return Int(int64(math.Floor(n.decimal + 0.5)))
}

func (n Number) Sqrt() Number {
	return Float(math.Sqrt(n.Float64()))
}

// String renders whole numbers without a fraction and decimals with at least
// one fractional digit.
func (n Number) String() string {
	if !n.isDecimal {
		return strconv.FormatInt(n.whole, 10)
	}

	text := strconv.FormatFloat(n.decimal, 'f', -1, 64)
	if !strings.ContainsAny(text, ".IN") {
		text += ".0"
	}

	return text
}
