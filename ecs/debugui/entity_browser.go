package debugui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/hearth/ecs"
)

type EntityInfo struct {
	ID             ecs.EntityId
	Label          string
	Kinds          []ecs.Kind
	ComponentNames []string
}

type entityBrowserCache struct {
	entities       []EntityInfo
	lastEntities   int
	lastComponents int
	sortColumn     int
	sortAscending  bool
}

// EntityBrowser lists live entities with their component kinds.
type EntityBrowser struct {
	cache              *entityBrowserCache
	label              Labeler
	selectedEntityId   ecs.EntityId
	filterText         string
	filterKind         *ecs.Kind
	maxEntitiesPerPage int
	currentPage        int
}

func NewEntityBrowser(maxEntitiesPerPage int, label Labeler) *EntityBrowser {
	return &EntityBrowser{
		cache: &entityBrowserCache{
			sortColumn:    0,
			sortAscending: true,
		},
		label:              label,
		maxEntitiesPerPage: maxEntitiesPerPage,
	}
}

func (eb *EntityBrowser) Render(w *ecs.World) {
	if !imgui.BeginV("Entity Browser", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	eb.Refresh(w)

	imgui.InputTextWithHint("##search", "Search...", &eb.filterText, imgui.InputTextFlagsNone, nil)
	imgui.SameLine()
	if imgui.Button("Clear Filter") {
		eb.filterText = ""
		eb.filterKind = nil
	}

	filteredEntities := eb.Filtered()

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable | imgui.TableFlagsScrollY
	if imgui.BeginTableV("EntityTable", 4, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Entity ID")
		imgui.TableSetupColumn("Label")
		imgui.TableSetupColumn("Components")
		imgui.TableSetupColumn("Count")
		imgui.TableHeadersRow()

		sortSpecs := imgui.TableGetSortSpecs()
		if sortSpecs.SpecsDirty() && sortSpecs.SpecsCount() > 0 {
			spec := sortSpecs.Specs()
			eb.SortBy(int(spec.ColumnIndex()), spec.SortDirection() == imgui.SortDirectionAscending)
			sortSpecs.SetSpecsDirty(false)
			filteredEntities = eb.Filtered()
		}

		startIdx := min(eb.currentPage*eb.maxEntitiesPerPage, len(filteredEntities))
		endIdx := min(startIdx+eb.maxEntitiesPerPage, len(filteredEntities))

		for _, entity := range filteredEntities[startIdx:endIdx] {
			imgui.TableNextRow()

			imgui.TableNextColumn()
			isSelected := eb.selectedEntityId == entity.ID
			if imgui.SelectableBoolV(fmt.Sprintf("%d", entity.ID), isSelected, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				eb.selectedEntityId = entity.ID
			}

			imgui.TableNextColumn()
			imgui.Text(entity.Label)

			imgui.TableNextColumn()
			imgui.Text(strings.Join(entity.ComponentNames, ", "))

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", len(entity.Kinds)))
		}

		imgui.EndTable()
	}

	if len(filteredEntities) > eb.maxEntitiesPerPage {
		totalPages := (len(filteredEntities) + eb.maxEntitiesPerPage - 1) / eb.maxEntitiesPerPage
		imgui.Text(fmt.Sprintf("Page %d / %d (%d entities)", eb.currentPage+1, totalPages, len(filteredEntities)))
		imgui.SameLine()
		if imgui.Button("Prev") && eb.currentPage > 0 {
			eb.currentPage--
		}
		imgui.SameLine()
		if imgui.Button("Next") && eb.currentPage < totalPages-1 {
			eb.currentPage++
		}
	} else {
		eb.currentPage = 0
		imgui.Text(fmt.Sprintf("Total: %d entities", len(filteredEntities)))
	}

	imgui.End()
}

// Refresh rebuilds the entity list when the entity or component count moved.
// Edits that keep both counts are picked up on the next change.
func (eb *EntityBrowser) Refresh(w *ecs.World) {
	stats := w.CollectStats()
	if eb.cache.entities != nil &&
		eb.cache.lastEntities == stats.EntityCount &&
		eb.cache.lastComponents == stats.ComponentCount {
		return
	}
	eb.cache.lastEntities = stats.EntityCount
	eb.cache.lastComponents = stats.ComponentCount
	eb.rebuildCache(w)
}

func (eb *EntityBrowser) rebuildCache(w *ecs.World) {
	registry := w.Storage().Registry()
	entities := w.AllEntities()
	eb.cache.entities = make([]EntityInfo, 0, len(entities))

	for _, entity := range entities {
		components := w.EntityComponents(entity.Id)
		info := EntityInfo{
			ID:             entity.Id,
			Kinds:          make([]ecs.Kind, len(components)),
			ComponentNames: make([]string, len(components)),
		}
		for i, c := range components {
			info.Kinds[i] = c.Kind()
			info.ComponentNames[i] = registry.Name(c.Kind())
		}
		if eb.label != nil {
			info.Label = eb.label(w, entity.Id)
		}
		eb.cache.entities = append(eb.cache.entities, info)
	}

	if eb.selectedEntityId != 0 && !w.HasEntity(eb.selectedEntityId) {
		eb.selectedEntityId = 0
	}
	eb.sortEntities()
}

// SortBy orders the list by column: id, label, components or count.
func (eb *EntityBrowser) SortBy(column int, ascending bool) {
	eb.cache.sortColumn = column
	eb.cache.sortAscending = ascending
	eb.sortEntities()
}

func (eb *EntityBrowser) sortEntities() {
	sort.SliceStable(eb.cache.entities, func(i, j int) bool {
		a, b := eb.cache.entities[i], eb.cache.entities[j]
		if !eb.cache.sortAscending {
			a, b = b, a
		}

		switch eb.cache.sortColumn {
		case 1:
			return a.Label < b.Label
		case 2:
			return strings.Join(a.ComponentNames, ",") < strings.Join(b.ComponentNames, ",")
		case 3:
			return len(a.Kinds) < len(b.Kinds)
		default:
			return a.ID < b.ID
		}
	})
}

// SetFilter sets the search text matched against id, label and component names.
func (eb *EntityBrowser) SetFilter(text string) {
	eb.filterText = text
	eb.currentPage = 0
}

// FilterKind narrows the list to entities holding kind.
func (eb *EntityBrowser) FilterKind(kind ecs.Kind) {
	eb.filterKind = &kind
	eb.currentPage = 0
}

// Filtered returns the cached entities that pass the current filters.
func (eb *EntityBrowser) Filtered() []EntityInfo {
	if eb.filterText == "" && eb.filterKind == nil {
		return eb.cache.entities
	}

	filtered := make([]EntityInfo, 0, len(eb.cache.entities))
	filterLower := strings.ToLower(eb.filterText)

	for _, entity := range eb.cache.entities {
		if eb.filterKind != nil && !containsKind(entity.Kinds, *eb.filterKind) {
			continue
		}

		if eb.filterText != "" {
			idStr := fmt.Sprintf("%d", entity.ID)
			labelStr := strings.ToLower(entity.Label)
			componentsStr := strings.ToLower(strings.Join(entity.ComponentNames, " "))

			if !strings.Contains(idStr, filterLower) &&
				!strings.Contains(labelStr, filterLower) &&
				!strings.Contains(componentsStr, filterLower) {
				continue
			}
		}

		filtered = append(filtered, entity)
	}

	return filtered
}

func containsKind(kinds []ecs.Kind, kind ecs.Kind) bool {
	for _, k := range kinds {
		if k == kind {
			return true
		}
	}
	return false
}

// Selected returns the selected entity, or 0 for none.
func (eb *EntityBrowser) Selected() ecs.EntityId {
	return eb.selectedEntityId
}

// Select marks id as the selected entity.
func (eb *EntityBrowser) Select(id ecs.EntityId) {
	eb.selectedEntityId = id
}
