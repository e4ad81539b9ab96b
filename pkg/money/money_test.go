package money

import "testing"

func TestString(t *testing.T) {
	cases := map[int]string{
		0:      "0.00",
		5:      "0.05",
		129900: "1299.00",
		101:    "1.01",
	}
	for cents, want := range cases {
		if got := String(cents); got != want {
			t.Fatalf("String(%d) = %q, want %q", cents, got, want)
		}
	}
}
