package conditions

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"trigger-engine/internal/common/errors"
)

// MaxTimerDuration is the longest interval a timer condition may express.
const MaxTimerDuration = 30 * 24 * time.Hour

var timerPattern = regexp.MustCompile(`^(\d+)(s|m|h|d)$`)

// TimerExpression is a validated interval string of the form "<n><unit>"
// where unit is one of s, m, h, d. The parsed duration must be greater than
// zero and at most 30 days.
type TimerExpression struct {
	raw      string
	duration time.Duration
}

// NewTimerExpression parses and validates a timer interval string.
func NewTimerExpression(raw string) (TimerExpression, error) {
	if raw == "" {
		return TimerExpression{}, errors.EmptyValue("timer_expression")
	}

	match := timerPattern.FindStringSubmatch(raw)
	if match == nil {
		return TimerExpression{}, errors.InvalidValue("timer_expression", raw,
			"expected format <number><unit> with unit s, m, h or d")
	}

	value, err := strconv.ParseUint(match[1], 10, 64)
	if err != nil {
		return TimerExpression{}, errors.InvalidValue("timer_expression", raw, "number out of range")
	}

	var unit time.Duration
	switch match[2] {
	case "s":
		unit = time.Second
	case "m":
		unit = time.Minute
	case "h":
		unit = time.Hour
	case "d":
		unit = 24 * time.Hour
	}

	if value == 0 {
		return TimerExpression{}, errors.InvalidValue("timer_expression", raw,
			"duration must be greater than 0")
	}
	// Bound before multiplying: a huge count would overflow the int64
	// nanosecond representation and could wrap back into range.
	if value > uint64(MaxTimerDuration/unit) {
		return TimerExpression{}, errors.InvalidValue("timer_expression", raw,
			fmt.Sprintf("duration exceeds maximum of %s", MaxTimerDuration))
	}

	return TimerExpression{raw: raw, duration: time.Duration(value) * unit}, nil
}

// Duration returns the parsed interval.
func (t TimerExpression) Duration() time.Duration {
	return t.duration
}

// String returns the original interval string.
func (t TimerExpression) String() string {
	return t.raw
}
