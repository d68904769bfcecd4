// Package ebiten hosts a world and its debug inspector in an Ebiten window
// through the cimgui-go Ebiten backend.
package ebiten

import (
	ebitenbackend "github.com/AllenDang/cimgui-go/backend/ebiten-backend"
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/plus3/hearth/ecs"
	"github.com/plus3/hearth/ecs/debugui"
)

// Options configures a Host window.
type Options struct {
	Title  string
	Width  int
	Height int
	// Tick is the simulated time passed to each world update, in seconds.
	// Zero uses Ebiten's fixed TPS.
	Tick float64
	// Paused starts the host without advancing the world.
	Paused bool
}

// Host implements ebiten.Game. Each Ebiten update runs one world tick inside
// an ImGui frame so the inspector system can draw from its deferred command.
type Host struct {
	backend   *ebitenbackend.EbitenBackend
	world     *ecs.World
	inspector *debugui.InspectorSystem
	options   Options
	paused    bool
}

// NewHost creates the window and registers an inspector system on w. Call it
// before w.Initialize.
func NewHost(w *ecs.World, opts Options, inspector debugui.Options) *Host {
	if opts.Title == "" {
		opts.Title = "hearth"
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = 1280, 720
	}

	backend := ebitenbackend.NewEbitenBackend()
	backend.CreateWindow(opts.Title, opts.Width, opts.Height)
	imgui.CurrentIO().SetIniFilename("")

	sys := debugui.NewInspectorSystem(inspector)
	w.AddSystem(sys)

	return &Host{
		backend:   backend,
		world:     w,
		inspector: sys,
		options:   opts,
		paused:    opts.Paused,
	}
}

// Inspector returns the inspector, available once the world is initialized.
func (h *Host) Inspector() *debugui.Inspector {
	return h.inspector.Inspector()
}

func (h *Host) dt() float64 {
	if h.options.Tick > 0 {
		return h.options.Tick
	}
	return 1.0 / float64(ebiten.TPS())
}

func (h *Host) Update() error {
	input := h.Inspector().Input()
	if !input.WantCaptureKeyboard {
		if ebiten.IsKeyPressed(ebiten.KeyEscape) {
			return ebiten.Termination
		}
		if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
			h.paused = !h.paused
		}
	}

	h.backend.BeginFrame()
	if h.paused {
		// Still draw the inspector so a paused world can be examined.
		h.Inspector().Render(float32(h.dt()))
	} else {
		h.world.Update(h.dt())
	}
	h.backend.EndFrame()
	return nil
}

func (h *Host) Draw(screen *ebiten.Image) {
	h.backend.Draw(screen)
}

func (h *Host) Layout(outsideWidth, outsideHeight int) (int, int) {
	h.backend.Layout(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}

// Run blocks until the window closes or Escape is pressed.
func (h *Host) Run() error {
	ebiten.SetWindowTitle(h.options.Title)
	ebiten.SetWindowSize(h.options.Width, h.options.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	return ebiten.RunGame(h)
}
