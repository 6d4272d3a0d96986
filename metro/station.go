package metro

import (
	"fmt"

	"golang.org/x/exp/slices"
)

const (
	// DefaultPlatforms is how many trains a station holds at once.
	DefaultPlatforms = 2
	// MaxGenerated is the most passengers one stopping event generates.
	MaxGenerated = 4
)

// Station is a platform-capacity-limited resource. It holds the trains
// currently present, queues waiting passengers in arrival order, and,
// if active, generates new passengers each time a train stops.
//
// Behavioral variants are capability flags, not subtypes: a cargo
// station lets cargo-capable trains stop and stamps generated
// passengers with a weight; an active station generates passengers at
// all.
type Station struct {
	Name string
	Pos  Point
	// Active stations generate passengers whenever a train stops.
	Active bool
	// Cargo stations accept cargo-capable trains for a full stop and
	// route their own passengers only to other cargo stations.
	Cargo bool
	// MaxWaiting bounds the waiting queue of an active station.
	MaxWaiting int
	Platforms  int

	waiting []*Passenger
	lines   []*Line
	trains  []*Train
}

// NewStation returns an active station: it generates passengers, up to
// maxWaiting queued at once.
func NewStation(name string, pos Point, maxWaiting int) *Station {
	return &Station{
		Name:       name,
		Pos:        pos,
		Active:     true,
		MaxWaiting: maxWaiting,
		Platforms:  DefaultPlatforms,
	}
}

// NewInactiveStation returns a station that never generates passengers.
func NewInactiveStation(name string, pos Point) *Station {
	return &Station{
		Name:      name,
		Pos:       pos,
		Platforms: DefaultPlatforms,
	}
}

// NewCargoStation returns an active station that handles cargo.
func NewCargoStation(name string, pos Point, maxWaiting int) *Station {
	s := NewStation(name, pos, maxWaiting)
	s.Cargo = true
	return s
}

func (s *Station) registerLine(l *Line) {
	s.lines = append(s.lines, l)
}

func (s *Station) Lines() []*Line {
	return slices.Clone(s.lines)
}

// WaitingCount is the current length of the waiting queue.
func (s *Station) WaitingCount() int {
	return len(s.waiting)
}

// Occupancy is the number of trains currently on the platforms.
func (s *Station) Occupancy() int {
	return len(s.trains)
}

// CanEnter reports whether a platform is free. Entry is type-blind;
// whether the train may actually stop here is CanStop's business.
func (s *Station) CanEnter() bool {
	return len(s.trains) < s.Platforms
}

// CanStop reports whether t may make a full stop here: cargo-capable
// trains only stop at cargo stations, and a platform must be free.
func (s *Station) CanStop(t *Train) bool {
	if t.CargoCapable() && !s.Cargo {
		return false
	}
	return s.CanEnter()
}

// Enter adds t to the platforms without a passenger exchange.
func (s *Station) Enter(t *Train) error {
	if !s.CanEnter() {
		return fmt.Errorf("station %s: enter %s: %w", s.Name, t.Name, ErrStationFull)
	}
	s.trains = append(s.trains, t)
	return nil
}

// Stop admits t for a full stop. If the station is active it generates
// new passengers and then invites t to run its boarding step.
func (s *Station) Stop(t *Train, w *World) error {
	if !s.CanStop(t) {
		return fmt.Errorf("station %s: stop %s: %w", s.Name, t.Name, ErrStationAction)
	}
	if err := s.Enter(t); err != nil {
		return err
	}
	if s.Active {
		s.generate(w)
		if err := t.boardAll(w); err != nil {
			return err
		}
	}
	return nil
}

// Leave removes t from the platforms. Leaving while not present is a
// contract violation.
func (s *Station) Leave(t *Train) error {
	i := slices.Index(s.trains, t)
	if i == -1 {
		return fmt.Errorf("station %s: leave %s: not present: %w", s.Name, t.Name, ErrStationAction)
	}
	s.trains = slices.Delete(s.trains, i, i+1)
	return nil
}

// validDestination reports whether d is a destination the generation
// policy may hand out: never the station itself, and cargo stations
// only route to other cargo stations.
func (s *Station) validDestination(d *Station) bool {
	if d == s {
		return false
	}
	if s.Cargo && !d.Cargo {
		return false
	}
	return true
}

// destinations is the deduplicated candidate set across every line this
// station belongs to, in first-appearance order so a seeded run
// reproduces exactly.
func (s *Station) destinations() []*Station {
	seen := make(map[*Station]bool)
	var out []*Station
	for _, l := range s.lines {
		for _, d := range l.stations {
			if seen[d] || !s.validDestination(d) {
				continue
			}
			seen[d] = true
			out = append(out, d)
		}
	}
	return out
}

// generate appends up to MaxGenerated new passengers to the waiting
// queue, clamped to the queue room left. Generation stops early if no
// valid destination exists.
func (s *Station) generate(w *World) {
	n := w.rng.Intn(MaxGenerated) + 1
	if room := s.MaxWaiting - len(s.waiting); n > room {
		n = room
	}
	cands := s.destinations()
	if len(cands) == 0 {
		return
	}
	for i := 0; i < n; i++ {
		dest := cands[w.rng.Intn(len(cands))]
		weight := 0
		if s.Cargo {
			weight = w.rng.Intn(MaxCargo) + 1
		}
		s.waiting = append(s.waiting, w.newPassenger(s, dest, weight))
	}
}

func (s *Station) String() string {
	return fmt.Sprintf("station %s (%d/%d platforms, %d waiting)", s.Name, len(s.trains), s.Platforms, len(s.waiting))
}
