// Package stream republishes simulation snapshots over HTTP so a
// renderer can live elsewhere: an SSE stream for live consumers plus a
// plain JSON endpoint for one-shot reads.
package stream

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/r3labs/sse/v2"
	"go.uber.org/zap"

	"metrosim/metro"
)

type Server struct {
	sim *metro.Sim
	sse *sse.Server
	r   chi.Router

	lock   sync.RWMutex
	latest metro.Snapshot
}

func NewServer(sim *metro.Sim) *Server {
	s := &Server{
		sim:    sim,
		sse:    sse.New(),
		latest: sim.Snapshot(),
	}
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET"},
	}))
	r.Get("/snapshot", s.handleSnapshot)
	r.Get("/events", s.sse.ServeHTTP)
	s.r = r
	go s.forward()
	return s
}

// forward turns the tick-by-tick snapshot feed into an SSE stream.
func (s *Server) forward() {
	s.sse.CreateStream("snapshot")
	defer s.sse.RemoveStream("snapshot")
	ch := make(chan metro.Snapshot, 8)
	s.sim.SnapshotMux.Subscribe("stream", ch)
	defer s.sim.SnapshotMux.Unsubscribe(ch)
	for snap := range ch {
		s.lock.Lock()
		s.latest = snap
		s.lock.Unlock()
		data, err := json.Marshal(snap)
		if err != nil {
			zap.S().Errorf("stream: marshal snapshot: %s", err)
			continue
		}
		s.sse.TryPublish("snapshot", &sse.Event{Data: data})
	}
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	s.lock.RLock()
	snap := s.latest
	s.lock.RUnlock()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(snap); err != nil {
		zap.S().Errorf("stream: write snapshot: %s", err)
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.r.ServeHTTP(w, r)
}
