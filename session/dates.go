package session

import (
	"fmt"
	"strings"
	"time"
)

// Date layouts accepted at login. Operators paste dates out of spreadsheets
// and emails, so ISO, US, and day-first dashed forms all normalize.
var dateLayouts = []string{
	"2006-01-02", // ISO
	"01/02/2006", // US
	"02-01-2006", // DD-MM-YYYY
}

// NormalizeDate parses a date in any accepted form and returns both the ISO
// and US renderings. Both forms are retained for the session: queries use
// ISO, the feed displays US.
func NormalizeDate(raw string) (iso, us string, err error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", "", fmt.Errorf("date is required")
	}
	for _, layout := range dateLayouts {
		if t, parseErr := time.Parse(layout, raw); parseErr == nil {
			return t.Format("2006-01-02"), t.Format("01/02/2006"), nil
		}
	}
	return "", "", fmt.Errorf("invalid date %q: expected YYYY-MM-DD or MM/DD/YYYY", raw)
}
