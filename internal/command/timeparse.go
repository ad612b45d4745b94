package command

import (
	"regexp"
	"strconv"
	"strings"
)

// Accepts forms like "9", "9am", "9:00", "9:00pm", "09 00 pm", "0900pm".
var timeRe = regexp.MustCompile(`(?i)^(\d{1,2})(?::|\s)?(\d{2})?\s*(am|pm)?$`)

// NormalizeTime renders common time inputs as "H:MM" or "H:MM AM/PM".
// Anything that does not look like a time is returned unchanged.
func NormalizeTime(input string) string {
	s := strings.TrimSpace(input)
	if s == "" {
		return ""
	}
	m := timeRe.FindStringSubmatch(s)
	if m == nil {
		return s
	}

	h, _ := strconv.Atoi(m[1])
	mm := m[2]
	if mm == "" {
		mm = "00"
	}
	if m[3] != "" {
		return strconv.Itoa(h) + ":" + mm + " " + strings.ToUpper(m[3])
	}
	return strconv.Itoa(h) + ":" + mm
}
