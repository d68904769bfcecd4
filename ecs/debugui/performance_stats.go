package debugui

import (
	"fmt"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/hearth/ecs"
)

// PerformanceStats plots frame times and shows per-system scheduler stats.
type PerformanceStats struct {
	historyFrames int
	frameHistory  []float32
	frameIndex    int
	recorded      int
}

func NewPerformanceStats(historyFrames int) *PerformanceStats {
	if historyFrames <= 0 {
		historyFrames = 1
	}
	return &PerformanceStats{
		historyFrames: historyFrames,
		frameHistory:  make([]float32, historyFrames),
	}
}

// Record adds one frame time, in seconds, to the history ring.
func (ps *PerformanceStats) Record(deltaTime float32) {
	ps.frameHistory[ps.frameIndex] = deltaTime * 1000.0
	ps.frameIndex = (ps.frameIndex + 1) % ps.historyFrames
	if ps.recorded < ps.historyFrames {
		ps.recorded++
	}
}

// AverageFrameMs averages the recorded frames. Slots never written are not
// counted.
func (ps *PerformanceStats) AverageFrameMs() float32 {
	if ps.recorded == 0 {
		return 0
	}
	var total float32
	for i := 0; i < ps.recorded; i++ {
		total += ps.frameHistory[i]
	}
	return total / float32(ps.recorded)
}

func (ps *PerformanceStats) Render(w *ecs.World, deltaTime float32) {
	if !imgui.BeginV("Performance Stats", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	ps.Record(deltaTime)
	stats := w.CollectStats()

	imgui.Text(fmt.Sprintf("Tick: %d (%s)", w.Ticks(), w.State()))
	imgui.Text(fmt.Sprintf("Entities: %d", stats.EntityCount))
	imgui.Text(fmt.Sprintf("Components: %d across %d kinds", stats.ComponentCount, stats.KindCount))
	imgui.Text(fmt.Sprintf("Subscribers: %d", stats.Subscribers))
	imgui.Text(fmt.Sprintf("Events: %d emitted, %d handler failures", stats.EventsEmitted, stats.EventFailures))

	avg := ps.AverageFrameMs()
	if avg > 0 {
		imgui.Text(fmt.Sprintf("Avg Frame Time: %.2f ms (%.0f FPS)", avg, 1000.0/avg))
	}

	imgui.Separator()
	imgui.Text("Frame Time Graph (ms)")
	imgui.PlotLinesFloatPtr("##frametime", &ps.frameHistory[0], int32(len(ps.frameHistory)))

	if imgui.TreeNodeStr("Systems") {
		const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
		if imgui.BeginTableV("SystemStatsTable", 5, tableFlags, imgui.NewVec2(0, 0), 0) {
			imgui.TableSetupColumn("System")
			imgui.TableSetupColumn("Runs")
			imgui.TableSetupColumn("Avg")
			imgui.TableSetupColumn("Max")
			imgui.TableSetupColumn("Failures")
			imgui.TableHeadersRow()

			for _, sys := range w.Stats().Systems {
				imgui.TableNextRow()
				imgui.TableNextColumn()
				imgui.Text(sys.Name)
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprintf("%d", sys.ExecutionCount))
				imgui.TableNextColumn()
				imgui.Text(sys.AvgDuration.String())
				imgui.TableNextColumn()
				imgui.Text(sys.MaxDuration.String())
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprintf("%d", sys.FailureCount))
			}

			imgui.EndTable()
		}
		imgui.TreePop()
	}

	imgui.End()
}

// FrameTimer measures wall time between frames for hosts without their own
// delta.
type FrameTimer struct {
	lastFrameTime time.Time
	now           func() time.Time
}

func NewFrameTimer(now func() time.Time) *FrameTimer {
	if now == nil {
		now = time.Now
	}
	return &FrameTimer{lastFrameTime: now(), now: now}
}

func (ft *FrameTimer) DeltaTime() float32 {
	now := ft.now()
	delta := float32(now.Sub(ft.lastFrameTime).Seconds())
	ft.lastFrameTime = now
	return delta
}
