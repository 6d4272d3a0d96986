package metro

import "fmt"

// Event is a structured fact about the simulation: a train changed
// state, or a passenger boarded or alighted. The core only exposes the
// facts; sinks decide how (and whether) to format them.
type Event interface {
	fmt.Stringer
}

type EventStateChange struct {
	Train   string
	From    TrainState
	To      TrainState
	Station string
}

func (e EventStateChange) String() string {
	switch e.To {
	case StateFromDepot:
		return fmt.Sprintf("%s is travelling from the depot to %s", e.Train, e.Station)
	case StateInStation:
		return fmt.Sprintf("%s is in %s", e.Train, e.Station)
	case StateReadyDepart:
		return fmt.Sprintf("%s is ready to depart for %s", e.Train, e.Station)
	case StateOnRoute:
		return fmt.Sprintf("%s enroute to %s", e.Train, e.Station)
	case StateWaitingEntry:
		return fmt.Sprintf("%s is awaiting entry to %s", e.Train, e.Station)
	case StatePassingThrough:
		return fmt.Sprintf("%s is passing through %s", e.Train, e.Station)
	}
	return fmt.Sprintf("%s: %s → %s at %s", e.Train, e.From, e.To, e.Station)
}

type EventBoard struct {
	Passenger   PassengerID
	Train       string
	CargoWeight int
	Origin      string
	Destination string
}

func (e EventBoard) String() string {
	return fmt.Sprintf("Passenger %d carrying %d kg cargo is embarking at %s heading to %s",
		e.Passenger, e.CargoWeight, e.Origin, e.Destination)
}

type EventAlight struct {
	Passenger PassengerID
	Train     string
	Station   string
}

func (e EventAlight) String() string {
	return fmt.Sprintf("Passenger %d is disembarking at %s", e.Passenger, e.Station)
}
