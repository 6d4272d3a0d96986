package metro

import "fmt"

// Track is the mutual-exclusion resource for one segment between two
// consecutive stations on a line. A plain track admits one train total;
// a dual track admits one per direction, so opposing trains never
// contend.
type Track struct {
	// a and b are the endpoints, kept for rendering only.
	a, b *Station
	dual bool
	// occupied[0] is the only slot a plain track uses; a dual track
	// uses [0] for forward and [1] for backward.
	occupied [2]bool
}

func newTrack(a, b *Station, dual bool) *Track {
	return &Track{a: a, b: b, dual: dual}
}

func (k *Track) Dual() bool {
	return k.dual
}

func (k *Track) Endpoints() (a, b *Station) {
	return k.a, k.b
}

func (k *Track) slot(forward bool) int {
	if k.dual && !forward {
		return 1
	}
	return 0
}

// CanEnter reports whether a train travelling in the given direction may
// occupy the track.
func (k *Track) CanEnter(forward bool) bool {
	return !k.occupied[k.slot(forward)]
}

// Enter occupies the track for the given direction.
func (k *Track) Enter(forward bool) error {
	if !k.CanEnter(forward) {
		return fmt.Errorf("enter %s: %w", k, ErrTrackFull)
	}
	k.occupied[k.slot(forward)] = true
	return nil
}

// Leave clears the occupancy for the given direction.
func (k *Track) Leave(forward bool) {
	k.occupied[k.slot(forward)] = false
}

// Occupied reports the occupancy seen by a train travelling in the given
// direction.
func (k *Track) Occupied(forward bool) bool {
	return k.occupied[k.slot(forward)]
}

func (k *Track) String() string {
	kind := "track"
	if k.dual {
		kind = "dual track"
	}
	return fmt.Sprintf("%s %s–%s", kind, k.a.Name, k.b.Name)
}
