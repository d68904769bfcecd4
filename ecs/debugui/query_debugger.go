package debugui

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/hearth/ecs"
)

// QueryMode picks how selected kinds combine.
type QueryMode int

const (
	MatchAll QueryMode = iota
	MatchAny
)

// QueryDebugger runs ad hoc all-of and any-of queries against the world.
type QueryDebugger struct {
	selected map[ecs.Kind]bool
	mode     QueryMode
}

func NewQueryDebugger() *QueryDebugger {
	return &QueryDebugger{selected: make(map[ecs.Kind]bool)}
}

// Toggle flips whether kind takes part in the query.
func (qd *QueryDebugger) Toggle(kind ecs.Kind) {
	if qd.selected[kind] {
		delete(qd.selected, kind)
		return
	}
	qd.selected[kind] = true
}

func (qd *QueryDebugger) SetMode(mode QueryMode) {
	qd.mode = mode
}

func (qd *QueryDebugger) Clear() {
	qd.selected = make(map[ecs.Kind]bool)
}

// Selected returns the chosen kinds in ascending order.
func (qd *QueryDebugger) Selected(w *ecs.World) []ecs.Kind {
	kinds := make([]ecs.Kind, 0, len(qd.selected))
	for _, kind := range w.Storage().Registry().Kinds() {
		if qd.selected[kind] {
			kinds = append(kinds, kind)
		}
	}
	return kinds
}

// Results runs the query. Nothing selected matches nothing.
func (qd *QueryDebugger) Results(w *ecs.World) []ecs.EntityId {
	kinds := qd.Selected(w)
	if len(kinds) == 0 {
		return nil
	}
	if qd.mode == MatchAny {
		return w.EntitiesWithAnyComponent(kinds...)
	}
	return w.EntitiesWithComponents(kinds...)
}

func (qd *QueryDebugger) Render(w *ecs.World) {
	if !imgui.BeginV("Query Debugger", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	registry := w.Storage().Registry()

	matchAny := qd.mode == MatchAny
	if imgui.Checkbox("Match any", &matchAny) {
		qd.mode = MatchAll
		if matchAny {
			qd.mode = MatchAny
		}
	}
	imgui.SameLine()
	if imgui.Button("Clear All") {
		qd.Clear()
	}
	imgui.Separator()

	for _, kind := range registry.Kinds() {
		selected := qd.selected[kind]
		if imgui.Checkbox(registry.Name(kind), &selected) {
			qd.Toggle(kind)
		}
	}

	imgui.Separator()

	results := qd.Results(w)
	if len(qd.selected) == 0 {
		imgui.Text("No component kinds selected")
		imgui.End()
		return
	}

	imgui.Text(fmt.Sprintf("Matching Entities: %d", len(results)))
	if imgui.TreeNodeStr("Entities") {
		for _, id := range results {
			imgui.BulletText(fmt.Sprintf("%d", id))
		}
		imgui.TreePop()
	}

	imgui.End()
}
