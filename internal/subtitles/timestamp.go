package subtitles

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"subspeak/internal/services"
)

// ParseTimestamp converts an SRT timestamp (HH:MM:SS,mmm) into seconds.
func ParseTimestamp(value string) (float64, error) {
	hms := strings.Split(value, ":")
	if len(hms) != 3 {
		return 0, timestampError(value, errors.New("want HH:MM:SS,mmm"))
	}
	secParts := strings.Split(hms[2], ",")
	if len(secParts) != 2 {
		return 0, timestampError(value, errors.New("want comma before milliseconds"))
	}
	fields := [4]string{hms[0], hms[1], secParts[0], secParts[1]}
	var numbers [4]int
	for i, field := range fields {
		n, err := strconv.Atoi(strings.TrimSpace(field))
		if err != nil {
			return 0, timestampError(value, err)
		}
		if n < 0 {
			return 0, timestampError(value, fmt.Errorf("negative field %d", n))
		}
		numbers[i] = n
	}
	hours, minutes, seconds, millis := numbers[0], numbers[1], numbers[2], numbers[3]
	return float64(hours*3600+minutes*60+seconds) + float64(millis)/1000, nil
}

// FormatTimestamp renders seconds as HH:MM:SS,mmm. Negative values clamp to zero.
func FormatTimestamp(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	total := int64(math.Round(seconds * 1000))
	millis := total % 1000
	total /= 1000
	secs := total % 60
	total /= 60
	minutes := total % 60
	hours := total / 60
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, secs, millis)
}

func timestampError(value string, err error) error {
	return services.Wrap(services.ErrFormat, "parse timestamp", strconv.Quote(value), err)
}
