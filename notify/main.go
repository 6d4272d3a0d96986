// Package notify fans values out to however many sinks are listening:
// the log, the snapshot stream, the terminal view.
package notify

import (
	"sync"

	"go.uber.org/zap"
	"golang.org/x/exp/slices"
)

type subscriber[E any] struct {
	ch      chan E
	comment string
}

// MultiplexerSender is the write half of a Multiplexer. The simulation
// loop owns the sender; everything else only ever sees the Multiplexer.
type MultiplexerSender[E any] struct {
	m *Multiplexer[E]
}

// Send delivers e to every subscriber. It never blocks: a subscriber
// whose channel is full has the value dropped (subscribers should pass
// buffered channels).
func (ms *MultiplexerSender[E]) Send(e E) {
	ms.m.send(e)
}

func NewMultiplexerSender[E any](comment string) (*MultiplexerSender[E], *Multiplexer[E]) {
	m := &Multiplexer[E]{
		comment: comment,
	}
	return &MultiplexerSender[E]{m: m}, m
}

type Multiplexer[E any] struct {
	comment string
	lock    sync.Mutex
	subs    []subscriber[E]
}

func (m *Multiplexer[E]) Subscribe(comment string, c chan E) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.subs = append(m.subs, subscriber[E]{ch: c, comment: comment})
}

func (m *Multiplexer[E]) Unsubscribe(c chan E) {
	m.lock.Lock()
	defer m.lock.Unlock()
	i := slices.IndexFunc(m.subs, func(sub subscriber[E]) bool { return sub.ch == c })
	if i == -1 {
		panic("already unsubscribed")
	}
	m.subs = slices.Delete(m.subs, i, i+1)
}

func (m *Multiplexer[E]) send(e E) {
	m.lock.Lock()
	defer m.lock.Unlock()
	for _, sub := range m.subs {
		select {
		case sub.ch <- e:
		default:
			zap.S().Warnf("multiplexer %s: subscriber %s lagging, dropped %#v", m.comment, sub.comment, e)
		}
	}
}
