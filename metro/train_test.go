package metro

import (
	"errors"
	"testing"
)

// runUntil ticks t (dt = 1s) until cond holds, failing the test if it
// never does within budget.
func runUntil(t *testing.T, tr *Train, w *World, budget int, desc string, cond func() bool) {
	t.Helper()
	for i := 0; i < budget; i++ {
		if cond() {
			return
		}
		if err := tr.Update(1, w); err != nil {
			t.Fatalf("update %d: %s", i, err)
		}
	}
	t.Fatalf("train never reached: %s (now %s)", desc, tr)
}

// A train runs the full length of its line, reverses at the end, and
// comes back.
func TestRoundTrip(t *testing.T) {
	l, ss := threeStationLine(false)
	w := NewWorld(1)
	tr := NewTrain("t", l, ss[0], true, 10)

	runUntil(t, tr, w, 100, "in station at s3", func() bool {
		return tr.Station() == ss[2] && tr.State() == StateInStation && tr.exchanged
	})
	if tr.Forward() {
		t.Fatalf("train should have reversed at the end of the line")
	}
	runUntil(t, tr, w, 100, "back in station at s1", func() bool {
		return tr.Station() == ss[0] && tr.State() == StateInStation && tr.exchanged
	})
	if !tr.Forward() {
		t.Fatalf("train should have reversed again at the start of the line")
	}
}

// Direction is unchanged at interior stations.
func TestNoReversalAtInteriorStation(t *testing.T) {
	l, ss := threeStationLine(false)
	w := NewWorld(1)
	tr := NewTrain("t", l, ss[0], true, 10)

	runUntil(t, tr, w, 100, "in station at s2", func() bool {
		return tr.Station() == ss[1] && tr.State() == StateInStation && tr.exchanged
	})
	if !tr.Forward() {
		t.Errorf("direction must not change at an interior station")
	}
}

// Two trains contend for a one-platform station: the first in tick
// order wins, the second retries until the first departs.
func TestPlatformContention(t *testing.T) {
	s1 := NewInactiveStation("s1", Point{0, 0})
	s1.Platforms = 1
	s2 := NewInactiveStation("s2", Point{100, 0})
	l := NewLine("test")
	l.AddStation(s1, false)
	l.AddStation(s2, false)

	w := NewWorld(1)
	t1 := NewTrain("t1", l, s1, true, 10)
	t2 := NewTrain("t2", l, s1, true, 10)
	sim := NewSim(w, []*Station{s1, s2}, []*Line{l}, []*Train{t1, t2})

	sim.Tick(1)
	if t1.State() != StateInStation {
		t.Fatalf("t1 should have entered: %s", t1)
	}
	if t2.State() != StateFromDepot {
		t.Fatalf("t2 should still be waiting at the depot: %s", t2)
	}
	if got := s1.Occupancy(); got != 1 {
		t.Fatalf("occupancy %d on a 1-platform station", got)
	}

	for i := 0; i < 20 && t2.State() == StateFromDepot; i++ {
		sim.Tick(1)
		if got := s1.Occupancy(); got > s1.Platforms {
			t.Fatalf("occupancy %d exceeds %d platforms", got, s1.Platforms)
		}
	}
	if t2.State() != StateInStation {
		t.Fatalf("t2 never entered after t1 departed: %s", t2)
	}
}

// Cargo boarding respects the weight bound independently of seat count.
func TestCargoWeightBound(t *testing.T) {
	c1 := NewCargoStation("c1", Point{0, 0}, 10)
	c2 := NewCargoStation("c2", Point{100, 0}, 10)
	l := NewLine("test")
	l.AddStation(c1, false)
	l.AddStation(c2, false)

	w := NewWorld(1)
	tr := NewCargoTrain("freight", l, c1, true, 10, 100)
	for _, weight := range []int{45, 45} {
		if err := tr.Board(w.newPassenger(c1, c2, weight), w); err != nil {
			t.Fatalf("board %dkg: %s", weight, err)
		}
	}
	if got := tr.CargoWeight(); got != 90 {
		t.Fatalf("carried weight %d, want 90", got)
	}

	heavy := w.newPassenger(c1, c2, 15)
	if err := tr.Board(heavy, w); !errors.Is(err, ErrTrainFull) {
		t.Fatalf("15kg over bound: got %v, want ErrTrainFull", err)
	}
	light := w.newPassenger(c1, c2, 5)
	if err := tr.Board(light, w); err != nil {
		t.Fatalf("5kg within bound: %s", err)
	}
	if got := tr.CargoWeight(); got != 95 {
		t.Errorf("carried weight %d, want 95", got)
	}
}

// A waiting passenger only boards a train headed its way; the rest keep
// their place in the queue.
func TestBoardingMatchesDirection(t *testing.T) {
	l, ss := threeStationLine(false)
	w := NewWorld(1)

	backward := w.newPassenger(ss[1], ss[0], 0)
	forward := w.newPassenger(ss[1], ss[2], 0)
	ss[1].waiting = []*Passenger{backward, forward}

	tr := NewTrain("t", l, ss[1], true, 10)
	if err := tr.boardAll(w); err != nil {
		t.Fatalf("boardAll: %s", err)
	}
	if got := tr.PassengerCount(); got != 1 {
		t.Fatalf("boarded %d, want 1", got)
	}
	if tr.Passengers()[0] != forward {
		t.Errorf("boarded the wrong passenger")
	}
	if got := ss[1].WaitingCount(); got != 1 || ss[1].waiting[0] != backward {
		t.Errorf("backward passenger should still head the queue")
	}
}

// A passenger rides to its destination and gets off there.
func TestAlightAtDestination(t *testing.T) {
	l, ss := threeStationLine(false)
	w := NewWorld(1)
	p := w.newPassenger(ss[0], ss[1], 0)
	ss[0].waiting = []*Passenger{p}

	tr := NewTrain("t", l, ss[0], true, 10)
	runUntil(t, tr, w, 100, "exchanged at s2", func() bool {
		return tr.Station() == ss[1] && tr.State() == StateInStation && tr.exchanged
	})
	if got := tr.PassengerCount(); got != 0 {
		t.Errorf("%d passengers still aboard at their destination", got)
	}
}

// A cargo-capable train may enter a plain station but not exchange
// passengers there.
func TestPassingThrough(t *testing.T) {
	c1 := NewCargoStation("c1", Point{0, 0}, 10)
	plain := NewStation("plain", Point{100, 0}, 10)
	c2 := NewCargoStation("c2", Point{200, 0}, 10)
	l := NewLine("test")
	l.AddStation(c1, false)
	l.AddStation(plain, false)
	l.AddStation(c2, false)

	w := NewWorld(1)
	tr := NewCargoTrain("freight", l, plain, true, 10, 200)

	if err := tr.Update(1, w); err != nil {
		t.Fatalf("update: %s", err)
	}
	if tr.State() != StatePassingThrough {
		t.Fatalf("got %s, want passing-through", tr.State())
	}
	if got := plain.Occupancy(); got != 1 {
		t.Errorf("passing through still occupies a platform: got %d", got)
	}
	if got := plain.WaitingCount(); got != 0 {
		t.Errorf("a pass-through must not trigger generation: %d waiting", got)
	}

	if err := tr.Update(1, w); err != nil {
		t.Fatalf("update: %s", err)
	}
	if tr.State() != StateReadyDepart {
		t.Fatalf("got %s, want ready-depart", tr.State())
	}
	if got := plain.Occupancy(); got != 0 {
		t.Errorf("platform not released on departure: got %d", got)
	}
}

// A second departure attempt with no intervening state change fails
// cleanly instead of double-releasing the platform.
func TestDepartIdempotence(t *testing.T) {
	l, ss := threeStationLine(false)
	w := NewWorld(1)
	tr := NewTrain("t", l, ss[0], true, 10)
	if _, err := tr.tryArrive(w); err != nil {
		t.Fatalf("tryArrive: %s", err)
	}

	if err := tr.depart(); err != nil {
		t.Fatalf("depart: %s", err)
	}
	if got := ss[0].Occupancy(); got != 0 {
		t.Fatalf("occupancy %d after depart", got)
	}
	track := tr.Track()
	if err := tr.depart(); !errors.Is(err, ErrStationAction) {
		t.Fatalf("second depart: got %v, want ErrStationAction", err)
	}
	if track.Occupied(true) || track.Occupied(false) {
		t.Errorf("depart must not occupy the track")
	}
	if got := ss[0].Occupancy(); got != 0 {
		t.Errorf("occupancy corrupted by second depart: %d", got)
	}
}
