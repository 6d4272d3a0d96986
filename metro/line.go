package metro

import (
	"fmt"

	"golang.org/x/exp/slices"
)

// Line is an ordered sequence of stations with one track resource
// between each consecutive pair. The sequence is fixed once trains
// start running; AddStation is for network construction only.
type Line struct {
	Name     string
	stations []*Station
	tracks   []*Track
}

func NewLine(name string) *Line {
	return &Line{Name: name}
}

// AddStation appends s to the line, building the track between the
// previous last station and s. dual selects a per-direction track.
func (l *Line) AddStation(s *Station, dual bool) {
	if len(l.stations) > 0 {
		last := l.stations[len(l.stations)-1]
		l.tracks = append(l.tracks, newTrack(last, s, dual))
	}
	s.registerLine(l)
	l.stations = append(l.stations, s)
}

func (l *Line) Stations() []*Station {
	return slices.Clone(l.stations)
}

func (l *Line) Tracks() []*Track {
	return slices.Clone(l.tracks)
}

func (l *Line) HasStation(s *Station) bool {
	return slices.Contains(l.stations, s)
}

// lastIndex returns the last matching occurrence of s, or -1. Loop
// lines place the same station at both ends, so the last occurrence is
// the one topology queries want.
func (l *Line) lastIndex(s *Station) int {
	for i := len(l.stations) - 1; i >= 0; i-- {
		if l.stations[i] == s {
			return i
		}
	}
	return -1
}

// NextStation returns the station after s in the given direction.
// Asking past either end of the line is a contract violation, not a
// retryable condition.
func (l *Line) NextStation(s *Station, forward bool) (*Station, error) {
	i := l.lastIndex(s)
	if i == -1 {
		return nil, fmt.Errorf("line %s: next station of %s: not on line: %w", l.Name, s.Name, ErrLineAction)
	}
	if forward {
		i++
	} else {
		i--
	}
	if i < 0 || i >= len(l.stations) {
		return nil, fmt.Errorf("line %s: next station of %s: index %d: %w", l.Name, s.Name, i, ErrLineBounds)
	}
	return l.stations[i], nil
}

// NextTrack returns the track a train at s takes in the given direction.
func (l *Line) NextTrack(s *Station, forward bool) (*Track, error) {
	i := l.lastIndex(s)
	if i == -1 {
		return nil, fmt.Errorf("line %s: next track of %s: not on line: %w", l.Name, s.Name, ErrLineAction)
	}
	if !forward {
		i--
	}
	if i < 0 || i >= len(l.tracks) {
		return nil, fmt.Errorf("line %s: next track of %s: index %d: %w", l.Name, s.Name, i, ErrLineBounds)
	}
	return l.tracks[i], nil
}

// DirectionBetween reports whether a train must travel forward to get
// from a to b. Asking about a station and itself is a contract
// violation.
func (l *Line) DirectionBetween(a, b *Station) (bool, error) {
	if a == b {
		return false, fmt.Errorf("line %s: direction between %s and itself: %w", l.Name, a.Name, ErrLineAction)
	}
	return slices.Index(l.stations, b) > slices.Index(l.stations, a), nil
}

// StartOfLine reports whether s is the first station on the line.
func (l *Line) StartOfLine(s *Station) bool {
	return slices.Index(l.stations, s) == 0
}

// EndOfLine reports whether s is the last station on the line.
func (l *Line) EndOfLine(s *Station) bool {
	return slices.Index(l.stations, s) == len(l.stations)-1
}
