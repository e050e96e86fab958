package debugui

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/sheetdemo/ecs"
	"github.com/plus3/sheetdemo/sprite"
)

type atlasEntity struct {
	Id        ecs.EntityId
	Sprite    *sprite.AtlasSprite
	Animation *sprite.AnimationTimer `ecs:"optional"`
}

// SpriteInspector lists every atlas sprite and edits the components of the
// selected entity.
type SpriteInspector struct {
	// selected follows the entity across archetype moves and goes invalid
	// once it is deleted.
	selected *ecs.EntityRef
	fields   map[reflect.Type][]fieldInfo
}

func NewSpriteInspector() *SpriteInspector {
	return &SpriteInspector{fields: make(map[reflect.Type][]fieldInfo)}
}

func (si *SpriteInspector) Render(storage *ecs.Storage) {
	imgui.SetNextWindowPosV(imgui.NewVec2(380, 10), imgui.CondOnce, imgui.NewVec2(0, 0))
	imgui.SetNextWindowSizeV(imgui.NewVec2(380, 420), imgui.CondOnce)
	if !imgui.BeginV("Sprites", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
	if imgui.BeginTableV("AtlasSprites", 4, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Entity")
		imgui.TableSetupColumn("Index")
		imgui.TableSetupColumn("Flip")
		imgui.TableSetupColumn("Timer")
		imgui.TableHeadersRow()

		current, _ := si.selection(storage)
		for id, e := range ecs.NewView[atlasEntity](storage).Iter() {
			imgui.TableNextRow()
			imgui.TableNextColumn()
			if imgui.SelectableBoolV(id.String(), current == id, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				si.selected = storage.CreateEntityRef(id)
			}
			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d / %d", e.Sprite.Index, atlasLen(e.Sprite)))
			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%t", e.Sprite.FlipX))
			imgui.TableNextColumn()
			if e.Animation != nil {
				imgui.ProgressBarV(float32(e.Animation.Fraction()), imgui.NewVec2(-1, 0), e.Animation.Duration.String())
			}
		}
		imgui.EndTable()
	}

	imgui.Separator()
	si.renderSelected(storage)
	imgui.End()
}

func atlasLen(s *sprite.AtlasSprite) int {
	if s.Atlas == nil {
		return 0
	}
	return s.Atlas.Len()
}

// selection returns the current id of the selected entity.
func (si *SpriteInspector) selection(storage *ecs.Storage) (ecs.EntityId, bool) {
	id, ok := storage.ResolveEntityRef(si.selected)
	if !ok {
		si.selected = nil
	}
	return id, ok
}

func (si *SpriteInspector) renderSelected(storage *ecs.Storage) {
	id, ok := si.selection(storage)
	if !ok {
		imgui.Text("No entity selected")
		return
	}

	archetype := storage.GetArchetypeById(id.ArchetypeId())
	imgui.Text(fmt.Sprintf("Entity %s", id))
	for _, compType := range archetype.Types() {
		component := storage.GetComponent(id, compType)
		if component == nil {
			continue
		}
		if imgui.TreeNodeStr(compType.String()) {
			si.renderStruct(compType.Name(), reflect.ValueOf(component).Elem())
			imgui.TreePop()
		}
	}
}

// renderStruct draws an editor for every exported field of v, which must
// be addressable.
func (si *SpriteInspector) renderStruct(id string, v reflect.Value) {
	for _, field := range si.fieldsOf(v.Type()) {
		si.renderField(id+"."+field.Name, field.Name, v.Field(field.Index))
	}
}

func (si *SpriteInspector) renderField(id, name string, v reflect.Value) {
	label := "##" + id

	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n := int32(v.Int())
		imgui.Text(name + ":")
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputInt(label, &n) {
			setNumber(v, float64(n))
		}

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n := int32(v.Uint())
		imgui.Text(name + ":")
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputInt(label, &n) && n >= 0 {
			setNumber(v, float64(n))
		}

	case reflect.Float32, reflect.Float64:
		f := float32(v.Float())
		imgui.Text(name + ":")
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputFloat(label, &f) {
			setNumber(v, float64(f))
		}

	case reflect.Bool:
		b := v.Bool()
		if imgui.Checkbox(name, &b) && v.CanSet() {
			v.SetBool(b)
		}

	case reflect.Struct:
		if imgui.TreeNodeStr(name) {
			si.renderStruct(id, v)
			imgui.TreePop()
		}

	case reflect.Pointer:
		if v.IsNil() {
			imgui.Text(name + ": nil")
		} else {
			imgui.Text(fmt.Sprintf("%s: %s", name, v.Type()))
		}

	default:
		imgui.Text(fmt.Sprintf("%s: %v", name, v))
	}
}

type fieldInfo struct {
	Name  string
	Index int
}

// fieldsOf returns the exported fields of struct type t, cached.
func (si *SpriteInspector) fieldsOf(t reflect.Type) []fieldInfo {
	if cached, ok := si.fields[t]; ok {
		return cached
	}

	var fields []fieldInfo
	if t.Kind() == reflect.Struct {
		for i := 0; i < t.NumField(); i++ {
			if f := t.Field(i); f.IsExported() {
				fields = append(fields, fieldInfo{Name: f.Name, Index: i})
			}
		}
	}
	si.fields[t] = fields
	return fields
}

// setNumber stores n into a settable numeric value of any width, reporting
// whether it was stored.
func setNumber(v reflect.Value, n float64) bool {
	if !v.CanSet() {
		return false
	}
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i := int64(n)
		if v.OverflowInt(i) {
			return false
		}
		v.SetInt(i)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if n < 0 || v.OverflowUint(uint64(n)) {
			return false
		}
		v.SetUint(uint64(n))
	case reflect.Float32, reflect.Float64:
		v.SetFloat(n)
	default:
		return false
	}
	return true
}

func shortTypeNames(names []string) string {
	return strings.Join(names, ", ")
}
