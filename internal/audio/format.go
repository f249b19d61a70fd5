package audio

import (
	"fmt"
	"time"
)

// FormatDuration renders a position or duration as M:SS with zero-padded
// seconds. Unknown or invalid durations render as 0:00.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		return "0:00"
	}
	minutes := int(d / time.Minute)
	seconds := int(d/time.Second) % 60
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}
