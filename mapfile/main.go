// Package mapfile reads a network description and builds the
// simulation graph. The reader validates referential integrity once,
// up front; the core assumes a well-formed graph and never re-checks.
package mapfile

import (
	"encoding/json"
	"fmt"
	"os"

	"metrosim/metro"
)

// Capacity classes for the two train sizes.
const (
	bigPassengers   = 80
	smallPassengers = 10
	bigCargo        = 1000
	smallCargo      = 200
)

// Map is the on-disk network description.
type Map struct {
	Stations []StationDef `json:"stations"`
	Lines    []LineDef    `json:"lines"`
	Trains   []TrainDef   `json:"trains"`
}

type StationDef struct {
	Name string  `json:"name"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	// Type is plain, active, or cargo. Only active and cargo stations
	// generate passengers and need max_waiting.
	Type       string `json:"type"`
	MaxWaiting int    `json:"max_waiting"`
}

type LineDef struct {
	Name  string    `json:"name"`
	Stops []StopDef `json:"stations"`
}

type StopDef struct {
	Station string `json:"station"`
	// Double marks the track leading to this station as per-direction.
	Double bool `json:"double"`
}

type TrainDef struct {
	Name string `json:"name"`
	// Type is small, big, small-cargo, or big-cargo.
	Type    string `json:"type"`
	Line    string `json:"line"`
	Start   string `json:"start"`
	Forward bool   `json:"forward"`
}

// Network is the constructed graph, ready to hand to metro.NewSim.
type Network struct {
	Stations []*metro.Station
	Lines    []*metro.Line
	Trains   []*metro.Train
}

func Load(path string) (*Network, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read map: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Network, error) {
	var m Map
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse map: %w", err)
	}

	net := new(Network)
	stations := make(map[string]*metro.Station, len(m.Stations))
	for _, def := range m.Stations {
		if _, ok := stations[def.Name]; ok {
			return nil, fmt.Errorf("station %q: duplicate name", def.Name)
		}
		s, err := buildStation(def)
		if err != nil {
			return nil, err
		}
		stations[def.Name] = s
		net.Stations = append(net.Stations, s)
	}

	lines := make(map[string]*metro.Line, len(m.Lines))
	for _, def := range m.Lines {
		if _, ok := lines[def.Name]; ok {
			return nil, fmt.Errorf("line %q: duplicate name", def.Name)
		}
		if len(def.Stops) == 0 {
			return nil, fmt.Errorf("line %q: no stations", def.Name)
		}
		l := metro.NewLine(def.Name)
		for _, stop := range def.Stops {
			s, ok := stations[stop.Station]
			if !ok {
				return nil, fmt.Errorf("line %q: unknown station %q", def.Name, stop.Station)
			}
			l.AddStation(s, stop.Double)
		}
		lines[def.Name] = l
		net.Lines = append(net.Lines, l)
	}

	for _, def := range m.Trains {
		t, err := buildTrain(def, lines, stations)
		if err != nil {
			return nil, err
		}
		net.Trains = append(net.Trains, t)
	}
	return net, nil
}

func buildStation(def StationDef) (*metro.Station, error) {
	pos := metro.Point{X: def.X, Y: def.Y}
	switch def.Type {
	case "plain", "":
		return metro.NewInactiveStation(def.Name, pos), nil
	case "active":
		return metro.NewStation(def.Name, pos, def.MaxWaiting), nil
	case "cargo":
		return metro.NewCargoStation(def.Name, pos, def.MaxWaiting), nil
	}
	return nil, fmt.Errorf("station %q: unknown type %q", def.Name, def.Type)
}

func buildTrain(def TrainDef, lines map[string]*metro.Line, stations map[string]*metro.Station) (*metro.Train, error) {
	l, ok := lines[def.Line]
	if !ok {
		return nil, fmt.Errorf("train %q: unknown line %q", def.Name, def.Line)
	}
	start, ok := stations[def.Start]
	if !ok {
		return nil, fmt.Errorf("train %q: unknown start station %q", def.Name, def.Start)
	}
	if !l.HasStation(start) {
		return nil, fmt.Errorf("train %q: start %q is not on line %q", def.Name, def.Start, def.Line)
	}
	if len(l.Stations()) < 2 {
		return nil, fmt.Errorf("train %q: line %q has nowhere to go", def.Name, def.Line)
	}

	switch def.Type {
	case "small":
		return metro.NewTrain(def.Name, l, start, def.Forward, smallPassengers), nil
	case "big":
		return metro.NewTrain(def.Name, l, start, def.Forward, bigPassengers), nil
	case "small-cargo":
		return metro.NewCargoTrain(def.Name, l, start, def.Forward, smallPassengers, smallCargo), nil
	case "big-cargo":
		return metro.NewCargoTrain(def.Name, l, start, def.Forward, bigPassengers, bigCargo), nil
	}
	return nil, fmt.Errorf("train %q: unknown type %q (want one of %v)",
		def.Name, def.Type, []string{"small", "big", "small-cargo", "big-cargo"})
}
