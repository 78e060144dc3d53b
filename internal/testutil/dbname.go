package testutil

import (
	"strconv"
	"strings"
	"time"
)

// maxDBNamePrefix leaves room for the suffix under MongoDB's 64-byte limit.
const maxDBNamePrefix = 48

// SanitizeDBName turns a test name into a unique MongoDB database name.
// Characters outside [A-Za-z0-9_-] become underscores so subtests with
// Hangul or spaces in their names stay within the byte limit.
func SanitizeDBName(testName string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			return r
		default:
			return '_'
		}
	}, testName)

	if len(name) > maxDBNamePrefix {
		name = name[:maxDBNamePrefix]
	}
	return name + "_" + strconv.FormatInt(time.Now().UnixNano()%1_000_000, 10)
}
