package metro

import (
	"math/rand"

	"metrosim/notify"
)

// World owns the shared context threaded through every update: the
// seeded RNG behind passenger generation, the passenger ID allocator,
// and the event stream. There are no process globals; two Worlds never
// interfere, so runs are reproducible and tests run in isolation.
type World struct {
	rng    *rand.Rand
	nextID PassengerID

	eventsS *notify.MultiplexerSender[Event]
	Events  *notify.Multiplexer[Event]
}

func NewWorld(seed int64) *World {
	w := &World{
		rng:    rand.New(rand.NewSource(seed)),
		nextID: 1,
	}
	w.eventsS, w.Events = notify.NewMultiplexerSender[Event]("world")
	return w
}

func (w *World) newPassenger(origin, dest *Station, weight int) *Passenger {
	p := &Passenger{
		ID:          w.nextID,
		Origin:      origin,
		Destination: dest,
		CargoWeight: weight,
	}
	w.nextID++
	return p
}

func (w *World) emit(ev Event) {
	w.eventsS.Send(ev)
}
