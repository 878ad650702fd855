package core

import (
	"errors"
	"testing"
)

func TestCoordStep(t *testing.T) {
	origin := C(2, 8)

	tests := []struct {
		dir      Dir
		expected Coord
	}{
		{DirUp, C(2, 7)},
		{DirRight, C(3, 8)},
		{DirDown, C(2, 9)},
		{DirLeft, C(1, 8)},
	}

	for _, tc := range tests {
		t.Run(tc.dir.String(), func(t *testing.T) {
			if got := origin.Step(tc.dir); got != tc.expected {
				t.Errorf("Step(%v) = %v, expected %v", tc.dir, got, tc.expected)
			}
		})
	}
}

func TestDirOpposite(t *testing.T) {
	for _, d := range AllDirs {
		if d.Opposite().Opposite() != d {
			t.Errorf("%v: opposite twice should be identity", d)
		}
		if d.Opposite() == d {
			t.Errorf("%v: opposite should differ", d)
		}
	}
}

func TestParseDir(t *testing.T) {
	for _, d := range AllDirs {
		parsed, err := ParseDir(d.String())
		if err != nil {
			t.Fatalf("ParseDir(%q): %v", d.String(), err)
		}
		if parsed != d {
			t.Errorf("ParseDir(%q) = %v", d.String(), parsed)
		}
	}
	if _, err := ParseDir("sideways"); err == nil {
		t.Error("expected error for unknown direction")
	}
}

func TestCoordAsMapKey(t *testing.T) {
	// Wide boards must not alias each other.
	m := map[Coord]int{C(100, 0): 1, C(0, 1): 2}
	if m[C(100, 0)] != 1 || m[C(0, 1)] != 2 {
		t.Error("coordinates should be distinct keys")
	}
}

func TestPlayerColor(t *testing.T) {
	if PlayerColor(Neutral) != ColorGray {
		t.Error("neutral should be gray")
	}
	if PlayerColor(1) == PlayerColor(2) {
		t.Error("first two players should have distinct colors")
	}
}

func TestParseOrientationRejectsSlashes(t *testing.T) {
	for _, name := range []string{"/", "\\", "forward-slash", "back-slash"} {
		_, err := ParseOrientation(name)
		if !errors.Is(err, ErrSlashOrientation) {
			t.Errorf("ParseOrientation(%q) error = %v, expected ErrSlashOrientation", name, err)
		}
	}
	for _, o := range AllOrientations {
		parsed, err := ParseOrientation(o.String())
		if err != nil || parsed != o {
			t.Errorf("ParseOrientation(%q) = %v, %v", o.String(), parsed, err)
		}
	}
}
