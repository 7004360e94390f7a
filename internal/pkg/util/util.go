package util

import (
	"strconv"
	"strings"
	"time"
)

// Slugify Derive a URL-safe slug from a display name.
// Lowercase, spaces to hyphens, everything outside [a-z0-9-] dropped.
func Slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.ReplaceAll(s, " ", "-")
	var out []byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '-' {
			out = append(out, c)
		}
	}
	return string(out)
}

// StrToInt64 Convert string to int64
func StrToInt64(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}

// StrToInt Convert string to int
func StrToInt(s string) (int, error) {
	return strconv.Atoi(s)
}

// Int64ToStr Convert int64 to string
func Int64ToStr(i int64) string {
	return strconv.FormatInt(i, 10)
}

// IntToStr Convert int to string
func IntToStr(i int) string {
	return strconv.Itoa(i)
}

// UnixToTime Convert unix timestamp to time.Time
func UnixToTime(ts int64) time.Time {
	return time.Unix(ts, 0)
}

// DefaultIfEmpty Return default value if string is empty
func DefaultIfEmpty(s, defaultVal string) string {
	if s == "" {
		return defaultVal
	}
	return s
}
