// Package view renders live snapshots in the terminal: one row per
// line with station occupancy and the trains between them.
package view

import (
	"context"
	"fmt"
	"strings"

	"github.com/gizak/termui/v3"
	"github.com/gizak/termui/v3/widgets"

	"metrosim/metro"
	"metrosim/notify"
)

// Run draws snapshots until ctx is done or the user quits with q or
// Ctrl-C. It owns the terminal for its whole lifetime.
func Run(ctx context.Context, mux *notify.Multiplexer[metro.Snapshot]) error {
	err := termui.Init()
	if err != nil {
		return fmt.Errorf("termui init: %s", err)
	}
	defer termui.Close()

	state := widgets.NewParagraph()
	state.Title = "metrosim"
	w, h := termui.TerminalDimensions()
	state.SetRect(0, 0, w, h)
	termui.Render(state)

	ch := make(chan metro.Snapshot, 8)
	mux.Subscribe("view", ch)
	defer mux.Unsubscribe(ch)

	uiEvents := termui.PollEvents()
	for {
		select {
		case <-ctx.Done():
			return nil
		case e := <-uiEvents:
			switch e.ID {
			case "q", "<C-c>":
				return nil
			case "<Resize>":
				w, h := termui.TerminalDimensions()
				state.SetRect(0, 0, w, h)
				termui.Render(state)
			}
		case snap := <-ch:
			state.Text = renderText(snap)
			termui.Render(state)
		}
	}
}

func renderText(snap metro.Snapshot) string {
	b := new(strings.Builder)
	fmt.Fprintf(b, "tick %d\n\n", snap.Tick)
	occupancy := map[string]int{}
	waiting := map[string]int{}
	for _, st := range snap.Stations {
		occupancy[st.Name] = st.Occupancy
		waiting[st.Name] = st.Waiting
	}
	for _, l := range snap.Lines {
		fmt.Fprintf(b, "[%s]", l.Name)
		for i, name := range l.Stations {
			if i > 0 {
				b.WriteString(trackGlyph(l.Tracks[i-1]))
			}
			fmt.Fprintf(b, " %s(%d/%d)", name, occupancy[name], waiting[name])
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	for _, t := range snap.Trains {
		dir := "↑"
		if !t.Forward {
			dir = "↓"
		}
		status := t.State
		if t.Failed {
			status = "FAILED"
		}
		fmt.Fprintf(b, "%s %s %-15s near %s pax=%d cargo=%dkg\n",
			t.Name, dir, status, t.Station, t.Passengers, t.CargoWeight)
	}
	return b.String()
}

func trackGlyph(k metro.TrackSnapshot) string {
	switch {
	case k.Dual && (k.OccupiedForward || k.OccupiedBackward):
		return " ═█═"
	case k.Dual:
		return " ═══"
	case k.OccupiedForward || k.OccupiedBackward:
		return " ─█─"
	default:
		return " ───"
	}
}
