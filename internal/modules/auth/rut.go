package auth

import (
	"regexp"
	"strconv"
	"strings"
)

// rutPattern accepts 12.345.678-5, 12345678-5 and 123456785.
var rutPattern = regexp.MustCompile(`^(?:\d{1,2}\.\d{3}\.\d{3}-[0-9kK]|\d{7,8}-?[0-9kK])$`)

// CheckDigit computes the mod-11 verifier for a RUT body. Weights 2..7 cycle
// from the rightmost digit; 11 maps to "0" and 10 to "K". ok is false when
// body is not all digits.
func CheckDigit(body string) (dv string, ok bool) {
	if body == "" {
		return "", false
	}
	sum, weight := 0, 2
	for i := len(body) - 1; i >= 0; i-- {
		c := body[i]
		if c < '0' || c > '9' {
			return "", false
		}
		sum += int(c-'0') * weight
		weight++
		if weight > 7 {
			weight = 2
		}
	}
	switch r := 11 - sum%11; r {
	case 11:
		return "0", true
	case 10:
		return "K", true
	default:
		return strconv.Itoa(r), true
	}
}

// ValidRUT reports whether s is a well formed RUT with a matching check digit.
func ValidRUT(s string) bool {
	s = strings.TrimSpace(s)
	if !rutPattern.MatchString(s) {
		return false
	}
	clean := strings.NewReplacer(".", "", "-", "").Replace(s)
	body, dv := clean[:len(clean)-1], strings.ToUpper(clean[len(clean)-1:])
	want, ok := CheckDigit(body)
	return ok && want == dv
}
