package stream

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"metrosim/metro"
)

func TestSnapshotEndpoint(t *testing.T) {
	w := metro.NewWorld(1)
	a := metro.NewInactiveStation("a", metro.Point{})
	b := metro.NewInactiveStation("b", metro.Point{X: 100})
	l := metro.NewLine("test")
	l.AddStation(a, false)
	l.AddStation(b, false)
	tr := metro.NewTrain("t1", l, a, true, 10)
	sim := metro.NewSim(w, []*metro.Station{a, b}, []*metro.Line{l}, []*metro.Train{tr})
	srv := NewServer(sim)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest("GET", "/snapshot", nil))
	if rec.Code != 200 {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var snap metro.Snapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode body: %s", err)
	}
	if snap.Run != sim.RunID {
		t.Errorf("run = %s, want %s", snap.Run, sim.RunID)
	}
	if len(snap.Trains) != 1 || snap.Trains[0].Name != "t1" {
		t.Errorf("trains = %+v, want one train t1", snap.Trains)
	}
}
