package asset

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	"io/fs"
	"log"
	"path/filepath"
	"reflect"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/sheetdemo/app"
	"github.com/plus3/sheetdemo/ecs"
)

// LoadingState loads collection C while the state machine of type S is in
// Loading, publishes it as a singleton and switches to Continue. The state
// machine itself is installed with ecs.AddState.
type LoadingState[S comparable, C any] struct {
	Loading  S
	Continue S
	FS       fs.FS

	// WatchDir enables hot reload of the collection's sheets from this
	// directory on disk. It should be the directory FS reads from.
	WatchDir string

	// NewTexture defaults to ebiten.NewImageFromImage.
	NewTexture func(image.Image) *ebiten.Image
}

func (p LoadingState[S, C]) Build(a *app.App) {
	newTexture := p.NewTexture
	if newTexture == nil {
		newTexture = ebiten.NewImageFromImage
	}

	a.AddSystemsIf(ecs.InState(p.Loading), &loadSystem[S, C]{
		loader:     NewLoader(p.FS),
		continueTo: p.Continue,
		newTexture: newTexture,
	})

	if p.WatchDir != "" {
		reload := &reloadSystem[C]{
			dir:      p.WatchDir,
			loader:   NewLoader(p.FS),
			textures: ebitenTextures(newTexture),
		}
		a.AddSystemsIf(ecs.InState(p.Continue), reload)
		ecs.OnExit(a.Update, p.Continue, ecs.SystemFunc(reload.stop))
	}
}

type loadResult struct {
	images  map[string]image.Image
	err     error
	elapsed time.Duration
}

type loadSystem[S comparable, C any] struct {
	loader     *Loader
	continueTo S
	newTexture func(image.Image) *ebiten.Image
	results    chan loadResult
}

func (s *loadSystem[S, C]) Execute(frame *ecs.UpdateFrame) {
	name := reflect.TypeFor[C]().Name()

	if s.results == nil {
		paths, err := Paths[C]()
		if err != nil {
			app.RequestExit(frame.Storage, err)
			return
		}

		log.Printf("asset: loading %s (%d files)", name, len(paths))
		results := make(chan loadResult, 1)
		s.results = results
		go func(start time.Time) {
			images, err := s.loader.Decode(context.Background(), paths)
			results <- loadResult{images: images, err: err, elapsed: time.Since(start)}
		}(time.Now())
	}

	var result loadResult
	select {
	case result = <-s.results:
		s.results = nil
	default:
		return
	}

	if result.err != nil {
		app.RequestExit(frame.Storage, fmt.Errorf("asset: load %s: %w", name, result.err))
		return
	}

	var collection C
	if err := Populate(&collection, result.images, s.newTexture); err != nil {
		app.RequestExit(frame.Storage, fmt.Errorf("asset: load %s: %w", name, err))
		return
	}
	frame.Storage.AddSingleton(&collection)

	state := ecs.SingletonOf[ecs.State[S]](frame.Storage)
	if state == nil {
		app.RequestExit(frame.Storage, fmt.Errorf("asset: load %s: no %s state machine", name, reflect.TypeFor[S]()))
		return
	}
	state.Set(s.continueTo)
	log.Printf("asset: loaded %s in %s", name, result.elapsed.Round(time.Millisecond))
}

// textureWriter is the GPU side of a reload.
type textureWriter struct {
	create func(image.Image) *ebiten.Image
	size   func(*ebiten.Image) image.Point
	write  func(*ebiten.Image, []byte)
}

func ebitenTextures(create func(image.Image) *ebiten.Image) textureWriter {
	return textureWriter{
		create: create,
		size:   func(tex *ebiten.Image) image.Point { return tex.Bounds().Size() },
		write:  (*ebiten.Image).WritePixels,
	}
}

type reloadSystem[C any] struct {
	Collection ecs.Singleton[C]

	dir      string
	loader   *Loader
	textures textureWriter
	specs    []fieldSpec
	watcher  *Watcher
	disabled bool
}

func (s *reloadSystem[C]) Execute(frame *ecs.UpdateFrame) {
	if s.disabled {
		return
	}
	if s.watcher == nil && !s.start() {
		return
	}

	for {
		select {
		case name, ok := <-s.watcher.Events:
			if !ok {
				s.disabled = true
				return
			}
			s.reload(name)
		case err, ok := <-s.watcher.Errors:
			if !ok {
				s.disabled = true
				return
			}
			log.Printf("asset: watch: %v", err)
		default:
			return
		}
	}
}

// stop closes the watcher when the app leaves the state hot reload runs in.
// Entering it again starts a new one.
func (s *reloadSystem[C]) stop(*ecs.UpdateFrame) {
	if s.watcher == nil {
		return
	}
	if err := s.watcher.Close(); err != nil {
		log.Printf("asset: watch: close: %v", err)
	}
	s.watcher = nil
	log.Printf("asset: stopped watching %s", s.dir)
}

func (s *reloadSystem[C]) start() bool {
	specs, err := parseCollection(reflect.TypeFor[C]())
	if err != nil {
		log.Printf("asset: hot reload disabled: %v", err)
		s.disabled = true
		return false
	}
	s.specs = specs

	watcher, err := NewWatcher(watchDirs(s.dir, specs)...)
	if err != nil {
		log.Printf("asset: hot reload disabled: %v", err)
		s.disabled = true
		return false
	}
	s.watcher = watcher
	log.Printf("asset: watching %s", s.dir)
	return true
}

func (s *reloadSystem[C]) reload(name string) {
	collection := s.Collection.Get()
	if collection == nil {
		return
	}
	v := reflect.ValueOf(collection).Elem()

	for _, spec := range changedFields(s.dir, name, s.specs) {
		img, err := s.loader.DecodeFile(spec.path)
		if err != nil {
			log.Printf("asset: reload: %v", err)
			continue
		}

		switch field := v.Field(spec.index).Interface().(type) {
		case *TextureAtlas:
			if field == nil {
				continue
			}
			if !field.Layout.Bounds().In(img.Bounds().Sub(img.Bounds().Min)) {
				log.Printf("asset: reload %s: sheet %v is smaller than its atlas layout, keeping the old one", spec.path, img.Bounds().Size())
				continue
			}
			field.Texture = s.replace(field.Texture, img)
		case *ebiten.Image:
			v.Field(spec.index).Set(reflect.ValueOf(s.replace(field, img)))
		}
		log.Printf("asset: reloaded %s", spec.path)
	}
}

// replace writes img into old when the sizes match, so every sprite holding
// old sees the change. Otherwise it returns a new texture.
func (s *reloadSystem[C]) replace(old *ebiten.Image, img image.Image) *ebiten.Image {
	size := img.Bounds().Size()
	if old == nil || s.textures.size(old) != size {
		log.Printf("asset: reload: size changed to %v, sprites holding the old texture keep it", size)
		return s.textures.create(img)
	}

	rgba := image.NewRGBA(image.Rectangle{Max: size})
	draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)
	s.textures.write(old, rgba.Pix)
	return old
}

// watchDirs returns the distinct directories holding the collection's files.
func watchDirs(root string, specs []fieldSpec) []string {
	seen := make(map[string]bool)
	var dirs []string
	for _, spec := range specs {
		dir := filepath.Join(root, filepath.Dir(filepath.FromSlash(spec.path)))
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

// changedFields returns the specs whose file is the changed file name.
func changedFields(root, name string, specs []fieldSpec) []fieldSpec {
	rel, err := filepath.Rel(root, name)
	if err != nil {
		return nil
	}
	rel = filepath.ToSlash(rel)

	var changed []fieldSpec
	for _, spec := range specs {
		if spec.path == rel {
			changed = append(changed, spec)
		}
	}
	return changed
}
