package sheets

import "testing"

func TestNormalizeClock(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"9", "09:00", true},
		{"9:30", "09:30", true},
		{"09:00", "09:00", true},
		{" 14:00 ", "14:00", true},
		{"09:00 AM", "09:00", true},
		{"9:30 am", "09:30", true},
		{"2 PM", "14:00", true},
		{"2:15 pm", "14:15", true},
		{"12 PM", "12:00", true},
		{"12 AM", "00:00", true},
		{"0:00", "00:00", true},
		{"23:59", "23:59", true},
		{"24:00", "", false},
		{"10:65", "", false},
		{"", "", false},
		{"mediodía", "", false},
		{"10:3a", "", false},
	}
	for _, tc := range cases {
		got, ok := NormalizeClock(tc.in)
		if ok != tc.ok {
			t.Fatalf("NormalizeClock(%q): ok=%v, want %v", tc.in, ok, tc.ok)
		}
		if ok && got != tc.want {
			t.Fatalf("NormalizeClock(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
