package model

import "time"

// RoleAdmin sees every market and may change the market filter. Any other
// role value is a market id and pins the session to that market.
const RoleAdmin = "admin"

// Session carries the reviewer identity and the normalized date range. Dates
// are kept in both ISO (YYYY-MM-DD) and US (MM/DD/YYYY) forms because the
// feed displays US dates while queries use ISO.
type Session struct {
	Token     string    `json:"token"`
	Role      string    `json:"role"`
	StartISO  string    `json:"startDate"`
	EndISO    string    `json:"endDate"`
	StartUS   string    `json:"startDateUS"`
	EndUS     string    `json:"endDateUS"`
	CreatedAt time.Time `json:"-"`
}

func (s *Session) IsAdmin() bool {
	return s.Role == RoleAdmin
}
