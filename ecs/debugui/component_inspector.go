package debugui

import (
	"fmt"
	"reflect"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/scenery/ecs"
)

func NewComponentInspectorComponent() ComponentInspectorComponent {
	return ComponentInspectorComponent{}
}

func renderInspectors(ctx *ecs.Context, entities []ecs.Entity) error {
	selection := ecs.MustResource[Selection](ctx.Resources)
	for _, e := range entities {
		if ci := ecs.Get[ComponentInspectorComponent](e); ci != nil {
			ci.Render(ctx.Table, selection.Entity)
		}
	}
	return nil
}

func (ci *ComponentInspectorComponent) Render(table *ecs.Table, selectedEntityId ecs.EntityId) {
	if !imgui.BeginV("Component Inspector", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}
	defer imgui.End()

	ci.selectedEntityId = selectedEntityId
	if ci.selectedEntityId == 0 {
		imgui.Text("No entity selected")
		return
	}

	entity, err := table.Entity(ci.selectedEntityId)
	if err != nil {
		imgui.Text(fmt.Sprintf("Entity %s not found", ci.selectedEntityId))
		return
	}

	imgui.Text(fmt.Sprintf("Entity: %s", entity))
	enabled := entity.Enabled()
	if imgui.Checkbox("Enabled", &enabled) {
		if err := entity.SetEnabled(enabled); err != nil {
			imgui.Text(fmt.Sprintf("Entity %s not found", ci.selectedEntityId))
			return
		}
	}
	imgui.Separator()

	components, err := entity.Components()
	if err != nil {
		return
	}
	for component := range components {
		val := reflect.ValueOf(component).Elem()
		if imgui.TreeNodeStr(val.Type().String()) {
			for _, field := range exportedFields(val.Type()) {
				renderField(field.Name, val.Field(field.Index))
			}
			imgui.TreePop()
		}
	}
}

// renderField draws an editor for val. Components are reached through a
// pointer into the table, so edits are written straight back.
func renderField(name string, val reflect.Value) {
	if val.Kind() == reflect.Ptr {
		if val.IsNil() {
			imgui.Text(fmt.Sprintf("%s: nil", name))
			return
		}
		val = val.Elem()
	}
	id := fmt.Sprintf("##%s", name)

	switch val.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v := int32(val.Int())
		labelled(name, 150)
		if imgui.InputInt(id, &v) && val.CanSet() {
			val.SetInt(int64(v))
		}

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if val.Type() == reflect.TypeFor[ecs.EntityId]() {
			imgui.Text(fmt.Sprintf("%s: %s", name, ecs.EntityId(val.Uint())))
			return
		}
		v := int32(val.Uint())
		labelled(name, 150)
		if imgui.InputInt(id, &v) && v >= 0 && val.CanSet() {
			val.SetUint(uint64(v))
		}

	case reflect.Float32, reflect.Float64:
		v := float32(val.Float())
		labelled(name, 150)
		if imgui.InputFloat(id, &v) && val.CanSet() {
			val.SetFloat(float64(v))
		}

	case reflect.Bool:
		v := val.Bool()
		if imgui.Checkbox(name, &v) && val.CanSet() {
			val.SetBool(v)
		}

	case reflect.String:
		v := val.String()
		labelled(name, 200)
		if imgui.InputTextWithHint(id, "", &v, imgui.InputTextFlagsNone, nil) && val.CanSet() {
			val.SetString(v)
		}

	case reflect.Struct:
		if imgui.TreeNodeStr(name) {
			for _, field := range exportedFields(val.Type()) {
				renderField(field.Name, val.Field(field.Index))
			}
			imgui.TreePop()
		}

	case reflect.Slice:
		imgui.Text(fmt.Sprintf("%s: [%d items]", name, val.Len()))

	case reflect.Map:
		imgui.Text(fmt.Sprintf("%s: map[%d items]", name, val.Len()))

	case reflect.Func:
		imgui.Text(fmt.Sprintf("%s: func", name))

	default:
		if val.CanInterface() {
			imgui.Text(fmt.Sprintf("%s: %+v", name, val.Interface()))
		}
	}
}

func labelled(name string, width float32) {
	imgui.Text(fmt.Sprintf("%s:", name))
	imgui.SameLine()
	imgui.SetNextItemWidth(width)
}

type fieldInfo struct {
	Name  string
	Index int
}

var fieldCache = make(map[reflect.Type][]fieldInfo)

// exportedFields lists the exported fields of a struct type.
func exportedFields(t reflect.Type) []fieldInfo {
	if fields, ok := fieldCache[t]; ok {
		return fields
	}
	var fields []fieldInfo
	if t.Kind() == reflect.Struct {
		for i := 0; i < t.NumField(); i++ {
			if field := t.Field(i); field.IsExported() {
				fields = append(fields, fieldInfo{Name: field.Name, Index: i})
			}
		}
	}
	fieldCache[t] = fields
	return fields
}
