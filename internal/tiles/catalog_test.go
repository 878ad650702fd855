package tiles

import (
	"errors"
	"testing"

	"github.com/vovakirdan/ricochet/internal/core"
)

func TestRegisterRejectsDuplicates(t *testing.T) {
	c := NewCatalog()
	if err := c.Register(1, Props{Name: "a"}); err != nil {
		t.Fatalf("Register() failed: %v", err)
	}
	if err := c.Register(1, Props{Name: "b"}); !errors.Is(err, ErrDuplicateKind) {
		t.Errorf("expected ErrDuplicateKind, got %v", err)
	}
	if err := c.Register(2, Props{Name: "a"}); !errors.Is(err, ErrDuplicateName) {
		t.Errorf("expected ErrDuplicateName, got %v", err)
	}
}

func TestDefaultCatalog(t *testing.T) {
	c := Default()

	tests := []struct {
		name     string
		kind     Kind
		passable bool
		capable  bool
	}{
		{"floor", Floor, true, true},
		{"block", Block, false, false},
		{"spawn", Spawn, true, false},
		{"core", CoreTile, true, false},
		{"portal", Portal, true, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p, ok := c.Lookup(tc.kind)
			if !ok {
				t.Fatalf("kind %d not registered", tc.kind)
			}
			if p.Name != tc.name {
				t.Errorf("Name = %q, expected %q", p.Name, tc.name)
			}
			if p.Passable != tc.passable {
				t.Errorf("Passable = %v, expected %v", p.Passable, tc.passable)
			}
			if p.ReflectorCapable != tc.capable {
				t.Errorf("ReflectorCapable = %v, expected %v", p.ReflectorCapable, tc.capable)
			}
			if k, ok := c.ByName(tc.name); !ok || k != tc.kind {
				t.Errorf("ByName(%q) = %d, %v", tc.name, k, ok)
			}
		})
	}

	if p, _ := c.Lookup(CoreTile); !p.Goal {
		t.Error("core tile should be a goal")
	}
	if p, _ := c.Lookup(SplitVertical); !p.IsSplit() || len(p.SplitDirs) != 2 {
		t.Error("split-vertical should split in two directions")
	}
	if p, _ := c.Lookup(SolidBottomRight); p.FixedReflector != core.OrientBottomRight || !p.SolidBack {
		t.Errorf("solid-bottom-right props = %+v", p)
	}
}

func TestKindsSorted(t *testing.T) {
	kinds := Default().Kinds()
	if len(kinds) != Default().Len() {
		t.Fatalf("Kinds() returned %d, Len() %d", len(kinds), Default().Len())
	}
	for i := 1; i < len(kinds); i++ {
		if kinds[i-1] >= kinds[i] {
			t.Fatalf("kinds not sorted at %d: %v", i, kinds)
		}
	}
}
