package main

import "testing"

/* ─── monthWindow tests ──────────────────────────────────────────────── */

// TestMonthWindow_Lengths verifies day counts across regular months, February,
// and a leap-year February.
func TestMonthWindow_Lengths(t *testing.T) {
	cases := []struct {
		month string
		days  int
	}{
		{"2024-01", 31},
		{"2024-02", 29},
		{"2023-02", 28},
		{"2024-04", 30},
		{"2024-12", 31},
	}

	for _, tc := range cases {
		t.Run(tc.month, func(t *testing.T) {
			start, days, err := monthWindow(tc.month)
			if err != nil {
				t.Fatalf("monthWindow(%q) returned error: %v", tc.month, err)
			}
			if days != tc.days {
				t.Errorf("monthWindow(%q) days = %d, want %d", tc.month, days, tc.days)
			}
			if start.Day() != 1 {
				t.Errorf("monthWindow(%q) start day = %d, want 1", tc.month, start.Day())
			}
		})
	}
}

// TestMonthWindow_RejectsInvalid verifies that malformed month strings error
// instead of defaulting silently.
func TestMonthWindow_RejectsInvalid(t *testing.T) {
	for _, month := range []string{"2024-13", "2024", "March 2024", "2024-00"} {
		if _, _, err := monthWindow(month); err == nil {
			t.Errorf("monthWindow(%q) succeeded, want error", month)
		}
	}
}
