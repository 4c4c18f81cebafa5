package misc

import (
	"testing"
	"time"
)

func TestGetenv(t *testing.T) {
	tests := []struct {
		name   string
		key    string
		val    string
		def    string
		expect string
	}{
		{"value present", "X_FOO", "bar", "zzz", "bar"},
		{"value empty -> default", "X_EMPTY", "", "defv", "defv"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			got := Getenv(tt.key, tt.def)
			if got != tt.expect {
				t.Errorf("Getenv(%s) = %q, want %q", tt.key, got, tt.expect)
			}
		})
	}
}

func TestGetDuration(t *testing.T) {
	tests := []struct {
		name   string
		key    string
		val    string
		def    time.Duration
		expect time.Duration
	}{
		{"go syntax", "X_OK", "5s", 0, 5 * time.Second},
		{"bare seconds", "X_SECONDS", "120", 0, 120 * time.Second},
		{"negative -> zero", "X_NEG", "-3", time.Second, 0},
		{"bad format -> default", "X_BAD", "oops", 3 * time.Second, 3 * time.Second},
		{"empty -> default", "X_EMPTY", "", 7 * time.Second, 7 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			got := GetDuration(tt.key, tt.def)
			if got != tt.expect {
				t.Errorf("GetDuration(%s) = %v, want %v", tt.key, got, tt.expect)
			}
		})
	}
}

func TestGetBool(t *testing.T) {
	tests := []struct {
		name   string
		val    string
		def    bool
		expect bool
	}{
		{"truthy word", "yes", false, true},
		{"digit one", "1", false, true},
		{"falsy word", "no", true, false},
		{"digit zero", "0", true, false},
		{"mixed case", "TRUE", false, true},
		{"empty -> default", "", true, true},
		{"garbage -> default", "maybe", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("X_BOOL", tt.val)
			got := GetBool("X_BOOL", tt.def)
			if got != tt.expect {
				t.Errorf("GetBool(%q) = %v, want %v", tt.val, got, tt.expect)
			}
		})
	}
}
