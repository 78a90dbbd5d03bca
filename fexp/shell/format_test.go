package shell

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatTime(t *testing.T) {
	cest := time.FixedZone("CEST", 2*60*60)
	assert.Equal(t, "2023-06-01 10:30:05", FormatTime(time.Date(2023, 6, 1, 12, 30, 5, 999, cest)))
	assert.Equal(t, "1970-01-01 00:00:00", FormatTime(time.Unix(0, 0)))
}

func TestPadRight(t *testing.T) {
	assert.Equal(t, "ab   ", PadRight("ab", 5))
	assert.Equal(t, "abcdef", PadRight("abcdef", 3))
	assert.Equal(t, "", PadRight("", 0))

	// Wide runes take two cells each.
	assert.Equal(t, "日本 ", PadRight("日本", 5))
}
