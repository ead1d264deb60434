package booking

import "testing"

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"19:00", 1140, false},
		{"00:00", 0, false},
		{"23:59", 1439, false},
		{"18:30", 1110, false},
		{"24:00", 0, true},
		{"12:60", 0, true},
		{"noon", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseClock(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseClock(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if err == nil && got != tt.want {
			t.Fatalf("ParseClock(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestFormatClock(t *testing.T) {
	if got := FormatClock(1140); got != "19:00" {
		t.Fatalf("FormatClock(1140) = %q, want 19:00", got)
	}
	if got := FormatClock(65); got != "01:05" {
		t.Fatalf("FormatClock(65) = %q, want 01:05", got)
	}
}
