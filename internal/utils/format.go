package utils

import "strconv"

// FormatWithCommas renders an integer with thousands separators for CLI
// output: 3645257 becomes "3,645,257".
func FormatWithCommas(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := false
	if len(s) > 0 && s[0] == '-' {
		neg = true
		s = s[1:]
	}
	if len(s) <= 3 {
		if neg {
			return "-" + s
		}
		return s
	}

	grouped := make([]byte, 0, len(s)+len(s)/3)
	lead := len(s) % 3
	if lead > 0 {
		grouped = append(grouped, s[:lead]...)
	}
	for i := lead; i < len(s); i += 3 {
		if len(grouped) > 0 {
			grouped = append(grouped, ',')
		}
		grouped = append(grouped, s[i:i+3]...)
	}
	if neg {
		return "-" + string(grouped)
	}
	return string(grouped)
}
