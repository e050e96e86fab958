package asset

import (
	"fmt"
	"image"
	"reflect"
	"strconv"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
)

// A collection is a struct whose exported fields carry `asset` tags:
//
//	type ImageAssets struct {
//		Sheet *asset.TextureAtlas `asset:"path=hero.png,tile_size_x=32,tile_size_y=32,columns=4,rows=2"`
//		Logo  *ebiten.Image       `asset:"path=logo.png"`
//	}
//
// *TextureAtlas fields require tile_size_x, tile_size_y, columns and rows;
// padding_x, padding_y, offset_x and offset_y are optional.

var (
	atlasType = reflect.TypeFor[*TextureAtlas]()
	imageType = reflect.TypeFor[*ebiten.Image]()
)

type fieldSpec struct {
	index  int
	name   string
	path   string
	layout *AtlasLayout
}

// parseCollection validates the tags of collection type t.
func parseCollection(t reflect.Type) ([]fieldSpec, error) {
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("asset: collection %s is not a struct", t)
	}

	var specs []fieldSpec
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag, ok := field.Tag.Lookup("asset")
		if !ok {
			continue
		}
		if !field.IsExported() {
			return nil, fmt.Errorf("asset: field %s.%s is not exported", t.Name(), field.Name)
		}

		spec, err := parseTag(tag)
		if err != nil {
			return nil, fmt.Errorf("asset: field %s.%s: %w", t.Name(), field.Name, err)
		}
		spec.index = i
		spec.name = field.Name

		switch field.Type {
		case atlasType:
			if spec.layout == nil {
				return nil, fmt.Errorf("asset: field %s.%s: texture atlas needs tile_size_x, tile_size_y, columns and rows", t.Name(), field.Name)
			}
		case imageType:
			spec.layout = nil
		default:
			return nil, fmt.Errorf("asset: field %s.%s: unsupported type %s", t.Name(), field.Name, field.Type)
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

func parseTag(tag string) (fieldSpec, error) {
	var (
		spec   fieldSpec
		layout AtlasLayout
		seen   = map[string]bool{}
	)

	for part := range strings.SplitSeq(tag, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			return spec, fmt.Errorf("malformed tag entry %q", part)
		}
		if key == "path" {
			spec.path = value
			continue
		}

		n, err := strconv.Atoi(value)
		if err != nil {
			return spec, fmt.Errorf("tag entry %s: %w", key, err)
		}
		switch key {
		case "tile_size_x":
			layout.TileSize.X = n
		case "tile_size_y":
			layout.TileSize.Y = n
		case "columns":
			layout.Columns = n
		case "rows":
			layout.Rows = n
		case "padding_x":
			layout.Padding.X = n
		case "padding_y":
			layout.Padding.Y = n
		case "offset_x":
			layout.Offset.X = n
		case "offset_y":
			layout.Offset.Y = n
		default:
			return spec, fmt.Errorf("unknown tag key %q", key)
		}
		seen[key] = true
	}

	if spec.path == "" {
		return spec, fmt.Errorf("missing path")
	}
	if seen["tile_size_x"] && seen["tile_size_y"] && seen["columns"] && seen["rows"] {
		if layout.TileSize.X <= 0 || layout.TileSize.Y <= 0 || layout.Columns <= 0 || layout.Rows <= 0 {
			return spec, fmt.Errorf("atlas dimensions must be positive")
		}
		spec.layout = &layout
	}
	return spec, nil
}

// Paths returns the files referenced by a collection type, in field order.
func Paths[C any]() ([]string, error) {
	specs, err := parseCollection(reflect.TypeFor[C]())
	if err != nil {
		return nil, err
	}
	paths := make([]string, len(specs))
	for i, spec := range specs {
		paths[i] = spec.path
	}
	return paths, nil
}

// Populate fills the tagged fields of *collection from decoded images,
// creating each texture with newTexture.
func Populate(collection any, images map[string]image.Image, newTexture func(image.Image) *ebiten.Image) error {
	v := reflect.ValueOf(collection)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return fmt.Errorf("asset: populate needs a non-nil pointer, got %T", collection)
	}
	v = v.Elem()

	specs, err := parseCollection(v.Type())
	if err != nil {
		return err
	}

	for _, spec := range specs {
		img, ok := images[spec.path]
		if !ok {
			return fmt.Errorf("asset: %s not loaded", spec.path)
		}
		if spec.layout != nil && !spec.layout.Bounds().In(img.Bounds().Sub(img.Bounds().Min)) {
			return fmt.Errorf("asset: %s is %v, smaller than its atlas layout %v", spec.path, img.Bounds().Size(), spec.layout.Bounds().Max)
		}

		texture := newTexture(img)
		field := v.Field(spec.index)
		if spec.layout != nil {
			field.Set(reflect.ValueOf(&TextureAtlas{Texture: texture, Layout: *spec.layout}))
		} else {
			field.Set(reflect.ValueOf(texture))
		}
	}
	return nil
}
