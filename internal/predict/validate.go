package predict

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Field error messages.
const (
	MsgRequired    = "Value is required"
	MsgNotANumber  = "Must be a number"
	msgOutOfRangeF = "Must be between %g and %g"
)

// FieldErrors maps a column to its error message.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	cols := make([]string, 0, len(fe))
	for c := range fe {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = c + ": " + fe[c]
	}
	return "invalid inputs: " + strings.Join(parts, "; ")
}

// Options tunes validation.
type Options struct {
	// EnforceRanges rejects values outside the declared range. Off by default:
	// declared ranges are advisory and any parseable number is accepted.
	EnforceRanges bool
}

// Validate converts raw into a numeric record, checking every schema column in
// declared order. Any parseable number is accepted regardless of the declared
// range. The record is returned only when no column failed; otherwise the
// error map lists exactly the failing columns.
func Validate(s Schema, raw map[string]string) (map[string]float64, FieldErrors) {
	return ValidateWith(s, raw, Options{})
}

// ValidateWith is Validate with options.
func ValidateWith(s Schema, raw map[string]string, opts Options) (map[string]float64, FieldErrors) {
	record := make(map[string]float64, len(s.Columns))
	errs := FieldErrors{}

	for _, col := range s.Columns {
		v, msg := parseField(raw[col])
		if msg != "" {
			errs[col] = msg
			continue
		}
		if opts.EnforceRanges {
			if r, ok := s.Range(col); ok && !r.Contains(v) {
				errs[col] = fmt.Sprintf(msgOutOfRangeF, r.Min, r.Max)
				continue
			}
		}
		record[col] = v
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return record, nil
}

// CheckField validates a single raw value for column and returns its error
// message, or "" when the value is acceptable.
func CheckField(s Schema, column, raw string, opts Options) string {
	v, msg := parseField(raw)
	if msg != "" {
		return msg
	}
	if opts.EnforceRanges {
		if r, ok := s.Range(column); ok && !r.Contains(v) {
			return fmt.Sprintf(msgOutOfRangeF, r.Min, r.Max)
		}
	}
	return ""
}

// parseField reads the longest leading decimal literal of raw, so "12abc"
// is 12 and "1_000" is 1. Values without a numeric prefix are rejected, and so
// are infinities and NaN since the JSON body cannot carry them.
func parseField(raw string) (float64, string) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, MsgRequired
	}
	prefix := decimalPrefix(s)
	if prefix == "" {
		return 0, MsgNotANumber
	}
	v, err := strconv.ParseFloat(prefix, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, MsgNotANumber
	}
	return v, ""
}

// decimalPrefix returns the longest prefix of s of the form
// [+-] digits [. digits] [(e|E) [+-] digits], or "" when s has none.
func decimalPrefix(s string) string {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	start := i
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	digits := i - start
	if i < len(s) && s[i] == '.' {
		j := i + 1
		for j < len(s) && isDigit(s[j]) {
			j++
		}
		if digits > 0 || j > i+1 {
			digits += j - i - 1
			i = j
		}
	}
	if digits == 0 {
		return ""
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		k := j
		for k < len(s) && isDigit(s[k]) {
			k++
		}
		if k > j {
			i = k
		}
	}
	return s[:i]
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
