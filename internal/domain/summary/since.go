package summary

import (
	"fmt"
	"time"
)

// FormatSince renders an age as whole minutes and the seconds remainder.
// Negative ages, from clock skew or late timestamps, render as zero.
func FormatSince(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int64(d / time.Second)
	return fmt.Sprintf("%dm %ds", secs/60, secs%60)
}
