package money

import "testing"

func TestFormat(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "R$ 0.00"},
		{850, "R$ 850.00"},
		{2000, "R$ 2,000.00"},
		{34250, "R$ 34,250.00"},
		{160000, "R$ 160,000.00"},
		{1234567.891, "R$ 1,234,567.89"},
		{-128000, "R$ -128,000.00"},
	}

	for _, tc := range cases {
		if got := Format(tc.in); got != tc.want {
			t.Fatalf("Format(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
