package metro

import (
	"errors"
	"testing"
)

func TestPlainTrackExcludesBothDirections(t *testing.T) {
	a := NewInactiveStation("a", Point{0, 0})
	b := NewInactiveStation("b", Point{100, 0})
	k := newTrack(a, b, false)

	if !k.CanEnter(true) || !k.CanEnter(false) {
		t.Fatalf("fresh track should admit either direction")
	}
	if err := k.Enter(true); err != nil {
		t.Fatalf("Enter: %s", err)
	}
	// one occupant total, regardless of direction
	if k.CanEnter(true) || k.CanEnter(false) {
		t.Errorf("occupied plain track should reject both directions")
	}
	if err := k.Enter(false); !errors.Is(err, ErrTrackFull) {
		t.Errorf("second Enter: got %v, want ErrTrackFull", err)
	}
	k.Leave(true)
	if !k.CanEnter(false) {
		t.Errorf("Leave should free the track")
	}
}

func TestDualTrackIndependentDirections(t *testing.T) {
	a := NewInactiveStation("a", Point{0, 0})
	b := NewInactiveStation("b", Point{100, 0})
	k := newTrack(a, b, true)

	if err := k.Enter(true); err != nil {
		t.Fatalf("Enter forward: %s", err)
	}
	if !k.CanEnter(false) {
		t.Errorf("opposite direction should not contend")
	}
	if err := k.Enter(false); err != nil {
		t.Fatalf("Enter backward: %s", err)
	}
	if err := k.Enter(true); !errors.Is(err, ErrTrackFull) {
		t.Errorf("forward re-entry: got %v, want ErrTrackFull", err)
	}
	k.Leave(true)
	if !k.CanEnter(true) {
		t.Errorf("forward slot should be free again")
	}
	if k.CanEnter(false) {
		t.Errorf("backward slot should still be held")
	}
}
