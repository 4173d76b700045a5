package internal

import "testing"

func TestSanitizeFilename(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Monthly Cost Report", "Monthly_Cost_Report"},
		{"Q1/Q2 Report (v2)", "Q1_Q2_Report__v2_"},
		{"already_clean-name.csv", "already_clean-name.csv"},
		{"tabs\tand\nnewlines", "tabs_and_newlines"},
		{"", ""},
		{"ünïcode & emoji 💸", "_n_code___emoji__"},
	}

	for _, c := range cases {
		got := SanitizeFilename(c.in)
		if got != c.want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestSanitizeFilenameIdempotent(t *testing.T) {
	names := []string{
		"Monthly Cost Report",
		"Q1/Q2 Report (v2)",
		"plain",
	}
	for _, name := range names {
		once := SanitizeFilename(name)
		twice := SanitizeFilename(once)
		if once != twice {
			t.Errorf("SanitizeFilename not idempotent for %q: %q != %q", name, once, twice)
		}
	}
}
