// Package formatting parses and renders configuration values such as byte
// sizes, and recovers JSON from model output.
package formatting

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Size is a byte count rendered with base-1024 units.
type Size int64

const (
	Byte Size = 1 << (10 * iota)
	KB
	MB
	GB
	TB
	PB
)

var suffixes = map[string]Size{
	"":    Byte,
	"B":   Byte,
	"K":   KB,
	"KB":  KB,
	"KIB": KB,
	"M":   MB,
	"MB":  MB,
	"MIB": MB,
	"G":   GB,
	"GB":  GB,
	"GIB": GB,
	"T":   TB,
	"TB":  TB,
	"TIB": TB,
	"P":   PB,
	"PB":  PB,
	"PIB": PB,
}

var ladder = []struct {
	size Size
	unit string
}{
	{PB, "PB"}, {TB, "TB"}, {GB, "GB"}, {MB, "MB"}, {KB, "KB"},
}

// String renders the size with one decimal place, dropping a trailing ".0".
func (s Size) String() string {
	return FormatBytes(int64(s), 1)
}

// FormatBytes renders n using the largest unit that keeps the value at or above one.
// Trailing zeros in the fractional part are trimmed.
func FormatBytes(n int64, precision int) string {
	precision = max(precision, 0)
	for _, step := range ladder {
		if n >= int64(step.size) {
			v := strconv.FormatFloat(float64(n)/float64(step.size), 'f', precision, 64)
			if strings.Contains(v, ".") {
				v = strings.TrimRight(strings.TrimRight(v, "0"), ".")
			}
			return v + " " + step.unit
		}
	}
	return strconv.FormatInt(n, 10) + " B"
}

// ParseBytes reads sizes like "512", "1.5MB", "10 mb" or "2GiB".
func ParseBytes(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty byte size")
	}

	split := strings.IndexFunc(s, func(r rune) bool {
		return !unicode.IsDigit(r) && r != '.'
	})
	num, unit := s, ""
	if split >= 0 {
		num, unit = s[:split], strings.TrimSpace(s[split:])
	}
	if num == "" {
		return 0, fmt.Errorf("byte size %q has no number", s)
	}

	value, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, fmt.Errorf("byte size %q: %w", s, err)
	}

	mult, ok := suffixes[strings.ToUpper(unit)]
	if !ok {
		return 0, fmt.Errorf("byte size %q: unknown unit %q", s, unit)
	}

	return int64(value * float64(mult)), nil
}
