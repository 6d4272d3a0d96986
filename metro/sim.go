package metro

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"metrosim/notify"
)

// Sim drives the whole network. Every tick it advances each registered
// train once, in registration order, so a contested resource always
// resolves the same way: first in order wins, the rest retry next tick.
type Sim struct {
	World *World
	RunID uuid.UUID

	Stations []*Station
	Lines    []*Line
	Trains   []*Train

	// failed holds the contract violation that sidelined a train, nil
	// while healthy. Sidelined trains are skipped, the rest keep going.
	failed []error
	tick   int

	snapshotS   *notify.MultiplexerSender[Snapshot]
	SnapshotMux *notify.Multiplexer[Snapshot]
}

func NewSim(w *World, stations []*Station, lines []*Line, trains []*Train) *Sim {
	s := &Sim{
		World:    w,
		RunID:    uuid.New(),
		Stations: stations,
		Lines:    lines,
		Trains:   trains,
		failed:   make([]error, len(trains)),
	}
	s.snapshotS, s.SnapshotMux = notify.NewMultiplexerSender[Snapshot]("sim")
	return s
}

// Tick advances every healthy train by dt seconds. Capacity contention
// is a normal outcome and never stops the run; a contract error
// sidelines only the offending train, with full context logged.
func (s *Sim) Tick(dt float64) {
	for i, t := range s.Trains {
		if s.failed[i] != nil {
			continue
		}
		err := t.Update(dt, s.World)
		if err == nil {
			continue
		}
		if Retryable(err) {
			// a full resource is next tick's problem
			continue
		}
		s.failed[i] = err
		zap.S().Errorw("train sidelined by contract violation",
			"run", s.RunID,
			"train", t.Name,
			"line", t.line.Name,
			"station", t.station.Name,
			"state", t.state.String(),
			"err", err,
		)
	}
	s.tick++
}

// Failed returns the contract violation that sidelined the i'th train,
// or nil while it is healthy.
func (s *Sim) Failed(i int) error {
	return s.failed[i]
}

// Run ticks the simulation at the given interval until ctx is done,
// publishing a snapshot after every tick.
func (s *Sim) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.Tick(now.Sub(last).Seconds())
			last = now
			s.snapshotS.Send(s.Snapshot())
		}
	}
}
