// Package debugui is a Dear ImGui inspector for a running ecs.World.
// The host owns the ImGui context and backend; the inspector only draws
// windows and never changes the world except through field edits made in the
// component inspector.
package debugui

import (
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/hearth/ecs"
)

// SystemName is the name the inspector system registers under.
const SystemName = "debugui"

// Labeler returns a display label for an entity, or "" for none.
type Labeler func(w *ecs.World, id ecs.EntityId) string

// InputState mirrors whether ImGui wants the mouse or keyboard this frame.
// Hosts check it before handling their own input.
type InputState struct {
	WantCaptureMouse    bool
	WantCaptureKeyboard bool
}

// Options configures an Inspector.
type Options struct {
	EntitiesPerPage int
	HistoryFrames   int
	EventLogSize    int
	// EventKinds lists the event kinds the event log subscribes to.
	EventKinds []ecs.EventKind
	Label      Labeler
}

// Inspector groups the debug windows over one world.
type Inspector struct {
	world *ecs.World
	input InputState

	Entities  *EntityBrowser
	Component *ComponentInspector
	Kinds     *KindViewer
	Stats     *PerformanceStats
	Query     *QueryDebugger
	Events    *EventLog
}

// NewInspector builds every window for w and subscribes the event log.
func NewInspector(w *ecs.World, opts Options) *Inspector {
	if opts.EntitiesPerPage <= 0 {
		opts.EntitiesPerPage = 100
	}
	if opts.HistoryFrames <= 0 {
		opts.HistoryFrames = 120
	}
	if opts.EventLogSize <= 0 {
		opts.EventLogSize = 200
	}

	events := NewEventLog(opts.EventLogSize)
	events.Attach(w.Bus(), opts.EventKinds...)

	return &Inspector{
		world:     w,
		Entities:  NewEntityBrowser(opts.EntitiesPerPage, opts.Label),
		Component: NewComponentInspector(),
		Kinds:     NewKindViewer(),
		Stats:     NewPerformanceStats(opts.HistoryFrames),
		Query:     NewQueryDebugger(),
		Events:    events,
	}
}

// Input returns the capture state recorded by the last Render.
func (in *Inspector) Input() InputState {
	return in.input
}

// Render draws every window. Call it between the backend's frame begin and end.
func (in *Inspector) Render(dt float32) {
	io := imgui.CurrentIO()
	in.input = InputState{
		WantCaptureMouse:    io.WantCaptureMouse(),
		WantCaptureKeyboard: io.WantCaptureKeyboard(),
	}

	in.Entities.Render(in.world)
	in.Component.Render(in.world, in.Entities.Selected())
	if kind, ok := in.Kinds.Render(in.world); ok {
		in.Entities.FilterKind(kind)
	}
	in.Stats.Render(in.world, dt)
	in.Query.Render(in.world)
	in.Events.Render()
}

// InspectorSystem plugs an Inspector into the world's update loop. Drawing is
// deferred to the end of the tick so it sees the world after every system ran.
type InspectorSystem struct {
	ecs.SystemBase
	options   Options
	inspector *Inspector
}

func NewInspectorSystem(opts Options) *InspectorSystem {
	return &InspectorSystem{SystemBase: ecs.NewSystemBase(SystemName), options: opts}
}

func (s *InspectorSystem) Initialize(w *ecs.World) error {
	s.Bind(w)
	s.inspector = NewInspector(w, s.options)
	return nil
}

// Inspector returns the inspector built by Initialize.
func (s *InspectorSystem) Inspector() *Inspector {
	return s.inspector
}

func (s *InspectorSystem) Update(dt float64) {
	s.World.Commands().Defer(func() {
		s.inspector.Render(float32(dt))
	})
}
