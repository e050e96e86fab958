package asset

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
)

// AtlasLayout describes a grid of equally sized tiles on a sheet. Tiles are
// numbered row-major starting at Offset, separated by Padding.
type AtlasLayout struct {
	TileSize image.Point
	Columns  int
	Rows     int
	Padding  image.Point
	Offset   image.Point
}

// NewAtlasLayout returns a tightly packed grid layout.
func NewAtlasLayout(tileSize image.Point, columns, rows int) AtlasLayout {
	return AtlasLayout{TileSize: tileSize, Columns: columns, Rows: rows}
}

// Len returns the number of tiles.
func (l AtlasLayout) Len() int {
	return l.Columns * l.Rows
}

// Rect returns the sheet rectangle of tile index, or the empty rectangle if
// index is out of range.
func (l AtlasLayout) Rect(index int) image.Rectangle {
	if index < 0 || index >= l.Len() {
		return image.Rectangle{}
	}
	cell := image.Pt(index%l.Columns, index/l.Columns)
	stride := l.TileSize.Add(l.Padding)
	origin := l.Offset.Add(image.Pt(stride.X*cell.X, stride.Y*cell.Y))
	return image.Rectangle{Min: origin, Max: origin.Add(l.TileSize)}
}

// Bounds returns the rectangle covering every tile.
func (l AtlasLayout) Bounds() image.Rectangle {
	if l.Len() == 0 {
		return image.Rectangle{}
	}
	return l.Rect(0).Union(l.Rect(l.Len() - 1))
}

// TextureAtlas pairs a loaded sheet with its layout.
type TextureAtlas struct {
	Texture *ebiten.Image
	Layout  AtlasLayout
}

// Len returns the number of frames in the atlas.
func (a *TextureAtlas) Len() int {
	return a.Layout.Len()
}

// Frame returns the sub-image of tile index, or nil if index is out of range.
func (a *TextureAtlas) Frame(index int) *ebiten.Image {
	r := a.Layout.Rect(index)
	if r.Empty() || a.Texture == nil {
		return nil
	}
	return a.Texture.SubImage(r).(*ebiten.Image)
}
