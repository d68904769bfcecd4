package debugui

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/hearth/ecs"
)

// ComponentInspector shows the components of one entity and lets primitive
// fields be edited in place.
type ComponentInspector struct {
	selectedEntityId ecs.EntityId
}

func NewComponentInspector() *ComponentInspector {
	return &ComponentInspector{}
}

func (ci *ComponentInspector) Render(w *ecs.World, selectedEntityId ecs.EntityId) {
	if !imgui.BeginV("Component Inspector", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	ci.selectedEntityId = selectedEntityId

	if ci.selectedEntityId == 0 {
		imgui.Text("No entity selected")
		imgui.End()
		return
	}
	if !w.HasEntity(ci.selectedEntityId) {
		imgui.Text(fmt.Sprintf("Entity %d no longer exists", ci.selectedEntityId))
		imgui.End()
		return
	}

	registry := w.Storage().Registry()
	components := w.EntityComponents(ci.selectedEntityId)

	imgui.Text(fmt.Sprintf("Entity ID: %d", ci.selectedEntityId))
	imgui.Text(fmt.Sprintf("Components: %d", len(components)))
	imgui.Separator()

	for _, component := range components {
		if imgui.TreeNodeStr(registry.Name(component.Kind())) {
			ci.renderComponent(component)
			imgui.TreePop()
		}
	}

	imgui.End()
}

func (ci *ComponentInspector) renderComponent(component ecs.Component) {
	val := reflect.ValueOf(component)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	for _, field := range globalReflectionCache.GetFields(val.Type()) {
		ci.renderField(field.Name, val.Field(field.Index), field)
	}
}

func (ci *ComponentInspector) renderField(name string, val reflect.Value, field FieldInfo) {
	if field.IsPointer {
		if val.IsNil() {
			imgui.Text(fmt.Sprintf("%s: nil", name))
			return
		}
		val = val.Elem()
	}
	label := fmt.Sprintf("##%s", name)

	switch val.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v := int32(val.Int())
		imgui.Text(fmt.Sprintf("%s:", name))
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputInt(label, &v) {
			SetField(val, int64(v))
		}

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v := int32(val.Uint())
		imgui.Text(fmt.Sprintf("%s:", name))
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputInt(label, &v) && v >= 0 {
			SetField(val, uint64(v))
		}

	case reflect.Float32, reflect.Float64:
		v := float32(val.Float())
		imgui.Text(fmt.Sprintf("%s:", name))
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputFloat(label, &v) {
			SetField(val, float64(v))
		}

	case reflect.Bool:
		v := val.Bool()
		if imgui.Checkbox(name, &v) {
			SetField(val, v)
		}

	case reflect.String:
		v := val.String()
		imgui.Text(fmt.Sprintf("%s:", name))
		imgui.SameLine()
		imgui.SetNextItemWidth(200)
		if imgui.InputTextWithHint(label, "", &v, imgui.InputTextFlagsNone, nil) {
			SetField(val, v)
		}

	case reflect.Struct:
		if imgui.TreeNodeStr(name) {
			for _, nf := range globalReflectionCache.GetFields(val.Type()) {
				ci.renderField(nf.Name, val.Field(nf.Index), nf)
			}
			imgui.TreePop()
		}

	case reflect.Slice:
		if imgui.TreeNodeStr(fmt.Sprintf("%s [%d items]", name, val.Len())) {
			for i := 0; i < val.Len(); i++ {
				imgui.BulletText(fmt.Sprintf("%+v", val.Index(i).Interface()))
			}
			imgui.TreePop()
		}

	case reflect.Map:
		if imgui.TreeNodeStr(fmt.Sprintf("%s map[%d items]", name, val.Len())) {
			for _, entry := range MapEntries(val) {
				imgui.BulletText(entry)
			}
			imgui.TreePop()
		}

	default:
		imgui.Text(fmt.Sprintf("%s: %v", name, val.Interface()))
	}
}

// SetField writes value into the settable field v, converting between the
// widget's type and the field's. Unsettable fields and mismatched kinds are
// left alone.
func SetField(v reflect.Value, value any) bool {
	if !v.CanSet() {
		return false
	}
	switch x := value.(type) {
	case int64:
		switch v.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			if v.OverflowInt(x) {
				return false
			}
			v.SetInt(x)
			return true
		}
	case uint64:
		switch v.Kind() {
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			if v.OverflowUint(x) {
				return false
			}
			v.SetUint(x)
			return true
		}
	case float64:
		if v.Kind() == reflect.Float32 || v.Kind() == reflect.Float64 {
			v.SetFloat(x)
			return true
		}
	case bool:
		if v.Kind() == reflect.Bool {
			v.SetBool(x)
			return true
		}
	case string:
		if v.Kind() == reflect.String {
			v.SetString(x)
			return true
		}
	}
	return false
}

// MapEntries formats a map as "key: value" lines sorted by their text.
// Set-like maps with empty struct values list only the keys.
func MapEntries(m reflect.Value) []string {
	entries := make([]string, 0, m.Len())
	setLike := m.Type().Elem().Kind() == reflect.Struct && m.Type().Elem().NumField() == 0
	iter := m.MapRange()
	for iter.Next() {
		if setLike {
			entries = append(entries, fmt.Sprintf("%v", iter.Key().Interface()))
			continue
		}
		entries = append(entries, fmt.Sprintf("%v: %+v", iter.Key().Interface(), iter.Value().Interface()))
	}
	sort.Strings(entries)
	return entries
}
