package debugui

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/hearth/ecs"
)

// EventLog keeps the most recent envelopes seen on a bus.
type EventLog struct {
	entries []ecs.Envelope
	next    int
	full    bool
	paused  bool
	counts  map[ecs.EventKind]int
}

func NewEventLog(size int) *EventLog {
	if size <= 0 {
		size = 1
	}
	return &EventLog{
		entries: make([]ecs.Envelope, size),
		counts:  make(map[ecs.EventKind]int),
	}
}

// Attach subscribes the log to each kind on bus.
func (el *EventLog) Attach(bus *ecs.EventBus, kinds ...ecs.EventKind) []ecs.Subscription {
	subs := make([]ecs.Subscription, 0, len(kinds))
	for _, kind := range kinds {
		subs = append(subs, bus.Subscribe(kind, el.Record))
	}
	return subs
}

// Record appends env, overwriting the oldest entry once the log is full.
// Paused logs still count.
func (el *EventLog) Record(env ecs.Envelope) {
	el.counts[env.Kind]++
	if el.paused {
		return
	}
	el.entries[el.next] = env
	el.next = (el.next + 1) % len(el.entries)
	if el.next == 0 {
		el.full = true
	}
}

// Entries returns the retained envelopes, oldest first.
func (el *EventLog) Entries() []ecs.Envelope {
	if !el.full {
		return append([]ecs.Envelope(nil), el.entries[:el.next]...)
	}
	out := make([]ecs.Envelope, 0, len(el.entries))
	out = append(out, el.entries[el.next:]...)
	return append(out, el.entries[:el.next]...)
}

// Count returns how many events of kind were seen since the last Clear.
func (el *EventLog) Count(kind ecs.EventKind) int {
	return el.counts[kind]
}

func (el *EventLog) Clear() {
	clear(el.entries)
	el.next = 0
	el.full = false
	el.counts = make(map[ecs.EventKind]int)
}

func (el *EventLog) SetPaused(paused bool) {
	el.paused = paused
}

func (el *EventLog) Render() {
	if !imgui.BeginV("Event Log", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	imgui.Checkbox("Pause", &el.paused)
	imgui.SameLine()
	if imgui.Button("Clear") {
		el.Clear()
	}
	imgui.Separator()

	entries := el.Entries()
	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsScrollY
	if imgui.BeginTableV("EventTable", 3, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Time")
		imgui.TableSetupColumn("Kind")
		imgui.TableSetupColumn("Event")
		imgui.TableHeadersRow()

		for i := len(entries) - 1; i >= 0; i-- {
			env := entries[i]
			imgui.TableNextRow()
			imgui.TableNextColumn()
			imgui.Text(env.EmittedAt.Format("15:04:05.000"))
			imgui.TableNextColumn()
			imgui.Text(string(env.Kind))
			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%+v", env.Event))
		}

		imgui.EndTable()
	}

	imgui.End()
}
