package metro

import "github.com/google/uuid"

// Snapshot is a read-only view of the network for renderers. The core
// has no opinion on how (or whether) it is consumed.
type Snapshot struct {
	Run      uuid.UUID         `json:"run"`
	Tick     int               `json:"tick"`
	Trains   []TrainSnapshot   `json:"trains"`
	Stations []StationSnapshot `json:"stations"`
	Lines    []LineSnapshot    `json:"lines"`
}

type TrainSnapshot struct {
	Name        string `json:"name"`
	State       string `json:"state"`
	Forward     bool   `json:"forward"`
	Pos         Point  `json:"pos"`
	Station     string `json:"station"`
	Passengers  int    `json:"passengers"`
	CargoWeight int    `json:"cargo_weight"`
	Failed      bool   `json:"failed"`
}

type StationSnapshot struct {
	Name      string `json:"name"`
	Pos       Point  `json:"pos"`
	Active    bool   `json:"active"`
	Cargo     bool   `json:"cargo"`
	Waiting   int    `json:"waiting"`
	Occupancy int    `json:"occupancy"`
	Platforms int    `json:"platforms"`
}

type LineSnapshot struct {
	Name     string          `json:"name"`
	Stations []string        `json:"stations"`
	Tracks   []TrackSnapshot `json:"tracks"`
}

type TrackSnapshot struct {
	Dual             bool `json:"dual"`
	OccupiedForward  bool `json:"occupied_forward"`
	OccupiedBackward bool `json:"occupied_backward"`
}

func (s *Sim) Snapshot() Snapshot {
	snap := Snapshot{
		Run:      s.RunID,
		Tick:     s.tick,
		Trains:   make([]TrainSnapshot, len(s.Trains)),
		Stations: make([]StationSnapshot, len(s.Stations)),
		Lines:    make([]LineSnapshot, len(s.Lines)),
	}
	for i, t := range s.Trains {
		snap.Trains[i] = TrainSnapshot{
			Name:        t.Name,
			State:       t.state.String(),
			Forward:     t.forward,
			Pos:         t.pos,
			Station:     t.station.Name,
			Passengers:  len(t.passengers),
			CargoWeight: t.cargo,
			Failed:      s.failed[i] != nil,
		}
	}
	for i, st := range s.Stations {
		snap.Stations[i] = StationSnapshot{
			Name:      st.Name,
			Pos:       st.Pos,
			Active:    st.Active,
			Cargo:     st.Cargo,
			Waiting:   len(st.waiting),
			Occupancy: len(st.trains),
			Platforms: st.Platforms,
		}
	}
	for i, l := range s.Lines {
		ls := LineSnapshot{
			Name:     l.Name,
			Stations: make([]string, len(l.stations)),
			Tracks:   make([]TrackSnapshot, len(l.tracks)),
		}
		for j, st := range l.stations {
			ls.Stations[j] = st.Name
		}
		for j, k := range l.tracks {
			ls.Tracks[j] = TrackSnapshot{
				Dual:             k.dual,
				OccupiedForward:  k.occupied[0],
				OccupiedBackward: k.occupied[k.slot(false)],
			}
		}
		snap.Lines[i] = ls
	}
	return snap
}
