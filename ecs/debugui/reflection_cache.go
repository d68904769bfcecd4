package debugui

import (
	"reflect"
	"sync"
)

// FieldInfo describes one exported struct field shown by the component
// inspector.
type FieldInfo struct {
	Name  string
	Index int
	// Type is the field type with one pointer level removed.
	Type      reflect.Type
	IsPointer bool
	// Editable fields get an input widget; the rest are displayed read-only.
	Editable bool
}

// ReflectionCache remembers the exported fields of each component type.
// Component types are a closed set, so entries are never evicted.
type ReflectionCache struct {
	fields sync.Map // reflect.Type -> []FieldInfo
}

func NewReflectionCache() *ReflectionCache {
	return &ReflectionCache{}
}

// GetFields returns the exported fields of struct type t, looking through one
// pointer. Non-struct types have no fields.
func (rc *ReflectionCache) GetFields(t reflect.Type) []FieldInfo {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if cached, ok := rc.fields.Load(t); ok {
		return cached.([]FieldInfo)
	}
	fields, _ := rc.fields.LoadOrStore(t, exportedFields(t))
	return fields.([]FieldInfo)
}

func exportedFields(t reflect.Type) []FieldInfo {
	if t.Kind() != reflect.Struct {
		return nil
	}
	var fields []FieldInfo
	for i := range t.NumField() {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		ft, ptr := sf.Type, false
		if ft.Kind() == reflect.Ptr {
			ft, ptr = ft.Elem(), true
		}
		fields = append(fields, FieldInfo{
			Name:      sf.Name,
			Index:     i,
			Type:      ft,
			IsPointer: ptr,
			Editable:  editableKind(ft.Kind()),
		})
	}
	return fields
}

func editableKind(k reflect.Kind) bool {
	switch k {
	case reflect.Bool, reflect.String, reflect.Float32, reflect.Float64:
		return true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}

var globalReflectionCache = NewReflectionCache()
