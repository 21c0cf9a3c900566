package browse

import "fmt"

var sizeUnits = []string{"B", "KB", "MB", "GB", "TB", "PB", "EB", "ZB", "YB"}

// FormatSize converts a byte count to a human readable string. Zero,
// negative or unknown (-1) sizes render as "0 B". The byte unit is
// printed without decimals, larger units with one.
func FormatSize(size int64) string {
	if size <= 0 {
		return "0 B"
	}

	value := float64(size)
	unit := 0
	for value >= 1024 && unit < len(sizeUnits)-1 {
		value /= 1024.0
		unit++
	}

	if unit == 0 {
		return fmt.Sprintf("%d B", size)
	}
	return fmt.Sprintf("%.1f %s", value, sizeUnits[unit])
}
