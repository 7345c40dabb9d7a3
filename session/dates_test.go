package session

import "testing"

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantISO string
		wantUS  string
		wantErr bool
	}{
		{"iso", "2025-01-03", "2025-01-03", "01/03/2025", false},
		{"us", "01/03/2025", "2025-01-03", "01/03/2025", false},
		{"day_first_dashed", "03-01-2025", "2025-01-03", "01/03/2025", false},
		{"whitespace_trimmed", " 2025-01-03 ", "2025-01-03", "01/03/2025", false},
		{"empty", "", "", "", true},
		{"garbage", "next tuesday", "", "", true},
		{"us_with_dashes", "01-13-2025", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			iso, us, err := NormalizeDate(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Expected an error for %q", tt.raw)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizeDate(%q): %v", tt.raw, err)
			}
			if iso != tt.wantISO || us != tt.wantUS {
				t.Errorf("NormalizeDate(%q) = (%q, %q), want (%q, %q)", tt.raw, iso, us, tt.wantISO, tt.wantUS)
			}
		})
	}
}

func TestAuthenticate(t *testing.T) {
	markets := []string{"M1", "M2"}

	tests := []struct {
		name     string
		username string
		password string
		selected string
		wantRole string
		wantErr  bool
	}{
		{"admin_ok", "admin", "admin", "admin", "admin", false},
		{"admin_bad_password", "admin", "hunter2", "admin", "", true},
		{"admin_must_select_admin", "admin", "admin", "M1", "", true},
		{"market_user_ok", "m1_user", "password123", "M1", "M1", false},
		{"market_user_bad_password", "m1_user", "wrong", "M1", "", true},
		{"market_user_wrong_market", "m1_user", "password123", "M2", "", true},
		{"unknown_user", "nobody", "password123", "M1", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			role, err := authenticate(tt.username, tt.password, tt.selected, markets)
			if tt.wantErr {
				if err == nil {
					t.Fatal("Expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("authenticate: %v", err)
			}
			if role != tt.wantRole {
				t.Errorf("Expected role %q, got %q", tt.wantRole, role)
			}
		})
	}
}
