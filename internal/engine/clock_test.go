package engine

import "testing"

func TestClockPhaseCadence(t *testing.T) {
	tests := []struct {
		name     string
		duration float64
		deltas   []float64
		expected []int
	}{
		{"sub-phase deltas", 0.25, []float64{0.125, 0.125, 0.125, 0.125}, []int{0, 1, 0, 1}},
		{"multi-phase delta", 0.25, []float64{1.0}, []int{4}},
		{"mixed", 0.25, []float64{0.375, 0.75, 0.125}, []int{1, 3, 1}},
		{"zero delta", 0.25, []float64{0, -1}, []int{0, 0}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := NewClock(tc.duration)
			for i, d := range tc.deltas {
				if got := c.Advance(d); got != tc.expected[i] {
					t.Errorf("Advance(%v) #%d = %d, expected %d", d, i, got, tc.expected[i])
				}
			}
		})
	}
}

func TestClockProgressAndReset(t *testing.T) {
	c := NewClock(0.5)
	c.Advance(0.75)
	if c.Progress() != 0.5 {
		t.Errorf("Progress() = %v, expected 0.5", c.Progress())
	}
	c.Reset()
	if c.Progress() != 0 {
		t.Errorf("Progress() after reset = %v", c.Progress())
	}
}
