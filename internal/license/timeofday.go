package license

import (
	"time"

	licenseerrors "github.com/sgthedux/sgth-sub001/internal/license/errors"
)

// ParseTimeOfDay converts an HH:MM string to its minute of day. Sub-day
// permits are validated and measured on this scale.
func ParseTimeOfDay(v string) (int, error) {
	t, err := time.Parse("15:04", v)
	if err != nil {
		return 0, licenseerrors.ErrInvalidTimeFormat
	}
	return t.Hour()*60 + t.Minute(), nil
}
