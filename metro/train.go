package metro

import (
	"fmt"
	"math"

	"golang.org/x/exp/slices"
)

const (
	// trainSpeed is how fast a train moves along a track, units/second.
	trainSpeed = 50.0
	// stopTime is how long a train waits in a station before departing.
	stopTime = 2.0
	// arrivalThreshold is how close a train must be to its target
	// station before it requests entry.
	arrivalThreshold = 10.0
)

type TrainState int

const (
	// StateFromDepot is the initial state: off-network, headed for the
	// starting station.
	StateFromDepot TrainState = iota
	StateInStation
	StateReadyDepart
	StateOnRoute
	StateWaitingEntry
	// StatePassingThrough is a train occupying a platform it may not
	// stop at (a cargo-capable train in a plain station).
	StatePassingThrough
)

func (st TrainState) String() string {
	switch st {
	case StateFromDepot:
		return "from-depot"
	case StateInStation:
		return "in-station"
	case StateReadyDepart:
		return "ready-depart"
	case StateOnRoute:
		return "on-route"
	case StateWaitingEntry:
		return "waiting-entry"
	case StatePassingThrough:
		return "passing-through"
	}
	return fmt.Sprintf("TrainState(%d)", int(st))
}

// Train is the per-entity state machine: it owns a position on the
// network, requests track and platform occupancy from the resources its
// line hands it, and drives passenger exchange when it stops.
type Train struct {
	Name string

	line    *Line
	station *Station // current station, or the target while moving
	track   *Track   // occupied while on route
	forward bool
	state   TrainState
	pos     Point

	maxPassengers int
	passengers    []*Passenger

	// maxCargo > 0 marks a cargo-capable train. cargo is the summed
	// weight aboard and never exceeds maxCargo.
	maxCargo int
	cargo    int

	// departIn counts down the station wait; exchanged marks that the
	// alight/board step already ran for this visit.
	departIn  float64
	exchanged bool
}

func NewTrain(name string, line *Line, start *Station, forward bool, maxPassengers int) *Train {
	return &Train{
		Name:          name,
		line:          line,
		station:       start,
		forward:       forward,
		pos:           start.Pos,
		maxPassengers: maxPassengers,
	}
}

// NewCargoTrain returns a train that additionally respects a cargo
// weight bound and may only stop at cargo stations.
func NewCargoTrain(name string, line *Line, start *Station, forward bool, maxPassengers, maxCargo int) *Train {
	t := NewTrain(name, line, start, forward, maxPassengers)
	t.maxCargo = maxCargo
	return t
}

func (t *Train) Line() *Line         { return t.line }
func (t *Train) Station() *Station   { return t.station }
func (t *Train) Track() *Track       { return t.track }
func (t *Train) State() TrainState   { return t.state }
func (t *Train) Forward() bool       { return t.forward }
func (t *Train) Position() Point     { return t.pos }
func (t *Train) MaxPassengers() int  { return t.maxPassengers }
func (t *Train) MaxCargoWeight() int { return t.maxCargo }
func (t *Train) CargoWeight() int    { return t.cargo }
func (t *Train) PassengerCount() int { return len(t.passengers) }

// CargoCapable reports whether this train carries weighted cargo (and
// therefore may only stop at cargo stations).
func (t *Train) CargoCapable() bool {
	return t.maxCargo > 0
}

// Passengers returns a copy of the bag of passengers aboard.
func (t *Train) Passengers() []*Passenger {
	return slices.Clone(t.passengers)
}

// Update advances the state machine by dt seconds. Contention resolves
// itself by retrying next tick; a returned error is a contract
// violation and the caller should sideline this train.
func (t *Train) Update(dt float64, w *World) error {
	prev := t.state
	var err error
	switch t.state {
	case StateFromDepot:
		_, err = t.tryArrive(w)

	case StateInStation:
		t.pos = t.station.Pos
		if !t.exchanged {
			t.reverseAtEnds()
			t.alightAll(w)
			if err = t.boardAll(w); err != nil {
				break
			}
			t.departIn = stopTime
			t.exchanged = true
		}
		if t.departIn <= 0 {
			err = t.depart()
		}
		t.departIn -= dt

	case StateReadyDepart:
		if t.track.CanEnter(t.forward) {
			if err = t.track.Enter(t.forward); err == nil {
				t.state = StateOnRoute
			}
		}

	case StateOnRoute:
		if t.nearStation() {
			t.state = StateWaitingEntry
		} else {
			t.move(dt)
		}

	case StateWaitingEntry:
		var ok bool
		ok, err = t.tryArrive(w)
		if ok {
			t.track.Leave(t.forward)
		}

	case StatePassingThrough:
		t.pos = t.station.Pos
		t.reverseAtEnds()
		err = t.depart()
	}

	if prev != t.state {
		w.emit(EventStateChange{
			Train:   t.Name,
			From:    prev,
			To:      t.state,
			Station: t.station.Name,
		})
	}
	return err
}

// tryArrive resolves an entry request against the target station: a
// full stop when permitted, bare entry (passing through) when only the
// platform is available, otherwise failure and a retry next tick.
func (t *Train) tryArrive(w *World) (ok bool, err error) {
	switch {
	case t.station.CanStop(t):
		if err := t.station.Stop(t, w); err != nil {
			return false, err
		}
		t.state = StateInStation
		t.exchanged = false
	case t.station.CanEnter():
		if err := t.station.Enter(t); err != nil {
			return false, err
		}
		t.state = StatePassingThrough
	default:
		return false, nil
	}
	return true, nil
}

// depart releases the platform and targets the next station and track
// in the current direction. The reversal policy keeps the indices in
// bounds on a well-formed network; a bounds error here means direction
// logic and line topology desynchronised.
func (t *Train) depart() error {
	if err := t.station.Leave(t); err != nil {
		return err
	}
	track, err := t.line.NextTrack(t.station, t.forward)
	if err != nil {
		return err
	}
	next, err := t.line.NextStation(t.station, t.forward)
	if err != nil {
		return err
	}
	t.track = track
	t.station = next
	t.state = StateReadyDepart
	return nil
}

// reverseAtEnds flips direction at the ends of the line. Evaluated once
// per station visit, before departure; interior stations leave the
// direction unchanged.
func (t *Train) reverseAtEnds() {
	if t.line.EndOfLine(t.station) {
		t.forward = false
	} else if t.line.StartOfLine(t.station) {
		t.forward = true
	}
}

// CanBoard reports whether p fits aboard: a free passenger slot, and
// for cargo-capable trains the weight bound too.
func (t *Train) CanBoard(p *Passenger) bool {
	if len(t.passengers) >= t.maxPassengers {
		return false
	}
	if t.CargoCapable() && t.cargo+p.CargoWeight > t.maxCargo {
		return false
	}
	return true
}

// Board puts p aboard.
func (t *Train) Board(p *Passenger, w *World) error {
	if !t.CanBoard(p) {
		return fmt.Errorf("train %s: board %s: %w", t.Name, p, ErrTrainFull)
	}
	t.passengers = append(t.passengers, p)
	t.cargo += p.CargoWeight
	w.emit(EventBoard{
		Passenger:   p.ID,
		Train:       t.Name,
		CargoWeight: p.CargoWeight,
		Origin:      p.Origin.Name,
		Destination: p.Destination.Name,
	})
	return nil
}

// boardAll runs the boarding step: every waiting passenger that wants
// this train and fits comes aboard. The queue keeps its order, and
// passengers that stay (wrong direction, no room) wait for the next
// train.
func (t *Train) boardAll(w *World) error {
	rest := t.station.waiting[:0]
	for i, p := range t.station.waiting {
		want, err := p.ShouldBoard(t)
		if err != nil {
			rest = append(rest, t.station.waiting[i:]...)
			t.station.waiting = rest
			return err
		}
		if want && t.CanBoard(p) {
			if err := t.Board(p, w); err != nil {
				rest = append(rest, t.station.waiting[i:]...)
				t.station.waiting = rest
				return err
			}
		} else {
			rest = append(rest, p)
		}
	}
	t.station.waiting = rest
	return nil
}

// alightAll lets every passenger whose destination is the current
// station off, in boarding order.
func (t *Train) alightAll(w *World) {
	rest := t.passengers[:0]
	for _, p := range t.passengers {
		if p.ShouldAlight(t) {
			t.cargo -= p.CargoWeight
			w.emit(EventAlight{
				Passenger: p.ID,
				Train:     t.Name,
				Station:   t.station.Name,
			})
		} else {
			rest = append(rest, p)
		}
	}
	t.passengers = rest
}

func (t *Train) nearStation() bool {
	return t.pos.DistanceTo(t.station.Pos) < arrivalThreshold
}

func (t *Train) move(dt float64) {
	angle := math.Atan2(t.station.Pos.Y-t.pos.Y, t.station.Pos.X-t.pos.X)
	t.pos.X += math.Cos(angle) * dt * trainSpeed
	t.pos.Y += math.Sin(angle) * dt * trainSpeed
}

func (t *Train) String() string {
	dir := "backward"
	if t.forward {
		dir = "forward"
	}
	return fmt.Sprintf("train %s (%s, %s, %s→%s, %d/%d aboard)",
		t.Name, t.state, dir, t.line.Name, t.station.Name, len(t.passengers), t.maxPassengers)
}
