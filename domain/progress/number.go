package progress

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

var thousandsSeparators = strings.NewReplacer(",", "", "،", "")

// ToNumber coerces a cell value into a finite number. Anything it cannot read is 0.
func ToNumber(v any) float64 {
	switch x := v.(type) {
	case nil:
		return 0
	case string:
		return parseNumber(x)
	case []byte:
		return parseNumber(string(x))
	case float64:
		return finite(x)
	case float32:
		return finite(float64(x))
	case int:
		return float64(x)
	case int64:
		return float64(x)
	case int32:
		return float64(x)
	case uint:
		return float64(x)
	case uint64:
		return float64(x)
	case uint32:
		return float64(x)
	case bool:
		if x {
			return 1
		}
		return 0
	case fmt.Stringer:
		return parseNumber(x.String())
	}
	return 0
}

func parseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	s = thousandsSeparators.Replace(s)
	if !isPlainDecimal(s) {
		return 0
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return finite(n)
}

// isPlainDecimal accepts [+-]digits[.digits], also ".5" and "5.".
func isPlainDecimal(s string) bool {
	if s != "" && (s[0] == '+' || s[0] == '-') {
		s = s[1:]
	}
	digits, dots := 0, 0
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c >= '0' && c <= '9':
			digits++
		case c == '.':
			dots++
		default:
			return false
		}
	}
	return digits > 0 && dots <= 1
}

func finite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
