package amadeus

import (
	"regexp"
	"strconv"
)

var durationRe = regexp.MustCompile(`PT(?:(\d+)H)?(?:(\d+)M)?`)

// ParseDuration converts an ISO-8601 style "PT3H25M" into minutes. Empty or
// unparseable input yields 0.
func ParseDuration(s string) int {
	if s == "" {
		return 0
	}
	m := durationRe.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	return atoiOrZero(m[1])*60 + atoiOrZero(m[2])
}

func atoiOrZero(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
