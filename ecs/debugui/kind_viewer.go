package debugui

import (
	"fmt"
	"sort"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/hearth/ecs"
)

// KindViewer tables every registered component kind with its live count.
// Clicking a row reports the kind so the entity browser can filter on it.
type KindViewer struct {
	rows          []ecs.KindStats
	sortColumn    int
	sortAscending bool
	selected      ecs.Kind
	hasSelected   bool
}

func NewKindViewer() *KindViewer {
	return &KindViewer{sortColumn: 2}
}

// Refresh reloads the rows from the world, including registered kinds with
// no live components.
func (kv *KindViewer) Refresh(w *ecs.World) {
	registry := w.Storage().Registry()
	kinds := registry.Kinds()
	kv.rows = kv.rows[:0]
	for _, kind := range kinds {
		kv.rows = append(kv.rows, ecs.KindStats{
			Kind:  kind,
			Name:  registry.Name(kind),
			Count: w.Storage().Count(kind),
		})
	}
	kv.sortRows()
}

// Rows returns the rows from the last Refresh in display order.
func (kv *KindViewer) Rows() []ecs.KindStats {
	return kv.rows
}

// SortBy orders rows by column: kind, name or count.
func (kv *KindViewer) SortBy(column int, ascending bool) {
	kv.sortColumn = column
	kv.sortAscending = ascending
	kv.sortRows()
}

func (kv *KindViewer) sortRows() {
	sort.SliceStable(kv.rows, func(i, j int) bool {
		a, b := kv.rows[i], kv.rows[j]
		if !kv.sortAscending {
			a, b = b, a
		}
		switch kv.sortColumn {
		case 1:
			return a.Name < b.Name
		case 2:
			return a.Count < b.Count
		default:
			return a.Kind < b.Kind
		}
	})
}

// Render draws the table and returns the kind clicked this frame, if any.
func (kv *KindViewer) Render(w *ecs.World) (ecs.Kind, bool) {
	if !imgui.BeginV("Component Kinds", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return 0, false
	}

	kv.Refresh(w)

	maxCount := 0
	for _, row := range kv.rows {
		maxCount = max(maxCount, row.Count)
	}

	var clicked ecs.Kind
	var ok bool

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable | imgui.TableFlagsScrollY
	if imgui.BeginTableV("KindTable", 3, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Kind")
		imgui.TableSetupColumn("Name")
		imgui.TableSetupColumn("Count")
		imgui.TableHeadersRow()

		sortSpecs := imgui.TableGetSortSpecs()
		if sortSpecs.SpecsDirty() && sortSpecs.SpecsCount() > 0 {
			spec := sortSpecs.Specs()
			kv.SortBy(int(spec.ColumnIndex()), spec.SortDirection() == imgui.SortDirectionAscending)
			sortSpecs.SetSpecsDirty(false)
		}

		for _, row := range kv.rows {
			imgui.TableNextRow()

			imgui.TableNextColumn()
			isSelected := kv.hasSelected && kv.selected == row.Kind
			if imgui.SelectableBoolV(fmt.Sprintf("%d", row.Kind), isSelected, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				kv.selected, kv.hasSelected = row.Kind, true
				clicked, ok = row.Kind, true
			}

			imgui.TableNextColumn()
			imgui.Text(row.Name)

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", row.Count))

			if maxCount > 0 {
				barWidth := float32(row.Count) / float32(maxCount) * 80.0
				imgui.SameLine()
				drawList := imgui.WindowDrawList()
				pos := imgui.CursorScreenPos()
				color := imgui.ColorU32Vec4(imgui.NewVec4(0.2, 0.6, 0.8, 0.6))
				drawList.AddRectFilled(pos, imgui.NewVec2(pos.X+barWidth, pos.Y+10), color)
			}
		}

		imgui.EndTable()
	}

	imgui.End()
	return clicked, ok
}
