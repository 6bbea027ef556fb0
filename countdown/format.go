package countdown

import "fmt"

// FormatTimeLeft renders total seconds as "Xd Xh Xm Xs". All four units are
// always present; negative input renders as zero.
func FormatTimeLeft(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	days := seconds / 86400
	hours := (seconds % 86400) / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60
	return fmt.Sprintf("%dd %dh %dm %ds", days, hours, minutes, secs)
}
