package metro

import "fmt"

// MaxCargo is the heaviest cargo a single passenger can carry, in kg.
const MaxCargo = 50

// PassengerID is a sequential identifier allocated by a World.
type PassengerID int

// Passenger is an immutable itinerary: where it boarded, where it wants
// to go, and how much cargo it carries (0 for ordinary passengers).
// Origin and Destination are always distinct.
type Passenger struct {
	ID          PassengerID
	Origin      *Station
	Destination *Station
	CargoWeight int
}

func (p *Passenger) HasCargo() bool {
	return p.CargoWeight > 0
}

// ShouldBoard reports whether p wants to board t: t's line must serve
// p's destination, and t must be headed the right way along it.
func (p *Passenger) ShouldBoard(t *Train) (bool, error) {
	if !t.line.HasStation(p.Destination) {
		return false, nil
	}
	forward, err := t.line.DirectionBetween(p.Origin, p.Destination)
	if err != nil {
		return false, err
	}
	return forward == t.forward, nil
}

// ShouldAlight reports whether p gets off at t's current station.
func (p *Passenger) ShouldAlight(t *Train) bool {
	return t.station == p.Destination
}

func (p *Passenger) String() string {
	return fmt.Sprintf("passenger %d (%s→%s, %dkg)", p.ID, p.Origin.Name, p.Destination.Name, p.CargoWeight)
}
