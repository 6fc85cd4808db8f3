package app

import "testing"

func TestIDClockStrictlyIncreasing(t *testing.T) {
	var c idClock
	prev := c.Next()
	for i := 0; i < 1000; i++ {
		next := c.Next()
		if next <= prev {
			t.Fatalf("id %d not greater than %d", next, prev)
		}
		prev = next
	}
}
