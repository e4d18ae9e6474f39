package domain

import "testing"

func TestBedrooms(t *testing.T) {
	cases := []struct {
		config string
		want   int
	}{
		{"2BHK", 2},
		{"3 BHK", 3},
		{"10BHK", 10},
		{"Studio", 0},
		{"", 0},
	}

	for _, tc := range cases {
		p := Property{Configuration: tc.config}
		if got := p.Bedrooms(); got != tc.want {
			t.Errorf("Bedrooms(%q) = %d, want %d", tc.config, got, tc.want)
		}
	}
}
