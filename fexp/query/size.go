package query

import (
	"errors"
	"fmt"
	"math"
	"math/bits"
	"strconv"
	"strings"
)

const (
	KB uint64 = 1024
	MB        = KB * 1024
	GB        = MB * 1024
)

var (
	ErrSizeUnit     = errors.New("unknown size unit")
	ErrSizeNumber   = errors.New("invalid size number")
	ErrSizeOverflow = errors.New("size overflows uint64")
)

var unitMultipliers = map[string]uint64{
	"B":  1,
	"KB": KB,
	"MB": MB,
	"GB": GB,
}

// FormatSize renders a byte count with two decimals in the largest binary
// unit not exceeding it, or as plain bytes below 1 KB.
func FormatSize(size uint64) string {
	switch {
	case size >= GB:
		return fmt.Sprintf("%.2f GB", float64(size)/float64(GB))
	case size >= MB:
		return fmt.Sprintf("%.2f MB", float64(size)/float64(MB))
	case size >= KB:
		return fmt.Sprintf("%.2f KB", float64(size)/float64(KB))
	default:
		return fmt.Sprintf("%d B", size)
	}
}

// ParseSize reads the output of FormatSize back into bytes. It accepts an
// optional space between number and unit, a fractional number, and the units
// B, KB, MB and GB in any case. The result is rounded to the nearest byte, so
// a round trip is exact only up to the two decimals FormatSize keeps.
func ParseSize(s string) (uint64, error) {
	s = strings.TrimSpace(s)

	i := strings.LastIndexFunc(s, func(r rune) bool { return r >= '0' && r <= '9' || r == '.' })
	if i < 0 {
		return 0, fmt.Errorf("%w: %q", ErrSizeNumber, s)
	}
	number := strings.TrimSpace(s[:i+1])
	unit := strings.ToUpper(strings.TrimSpace(s[i+1:]))
	if unit == "" {
		unit = "B"
	}

	multiplier, ok := unitMultipliers[unit]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrSizeUnit, unit)
	}

	value, err := strconv.ParseFloat(number, 64)
	if err != nil || value < 0 || math.IsNaN(value) {
		return 0, fmt.Errorf("%w: %q", ErrSizeNumber, number)
	}

	bytes := math.Round(value * float64(multiplier))
	if bytes >= math.MaxUint64 {
		return 0, ErrSizeOverflow
	}
	return uint64(bytes), nil
}

// parseSizeDirective parses the payload of an @size directive: an unsigned
// integer followed by exactly two unit characters, KB, MB or GB (any case).
// Plain bytes and single-letter units are rejected.
func parseSizeDirective(payload string) (uint64, error) {
	payload = strings.TrimSpace(payload)
	if len(payload) < 2 {
		return 0, fmt.Errorf("%w: %q", ErrSizeNumber, payload)
	}

	number, unit := payload[:len(payload)-2], strings.ToUpper(payload[len(payload)-2:])
	multiplier, ok := unitMultipliers[unit]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrSizeUnit, unit)
	}

	value, err := strconv.ParseUint(number, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrSizeNumber, number)
	}

	hi, lo := bits.Mul64(value, multiplier)
	if hi != 0 {
		return 0, ErrSizeOverflow
	}
	return lo, nil
}
