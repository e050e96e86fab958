// Package asset loads sprite sheets described by tagged collection structs
// and hands them to the world once they are ready.
package asset

import (
	"context"
	"fmt"
	"image"
	_ "image/png"
	"io/fs"
	"sync"

	"golang.org/x/sync/errgroup"
)

// maxConcurrentDecodes bounds decoding goroutines per Decode call.
const maxConcurrentDecodes = 4

// Loader decodes images from a file system.
type Loader struct {
	fsys fs.FS
}

func NewLoader(fsys fs.FS) *Loader {
	return &Loader{fsys: fsys}
}

// DecodeFile decodes a single image.
func (l *Loader) DecodeFile(path string) (image.Image, error) {
	f, err := l.fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("asset: open %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("asset: decode %s: %w", path, err)
	}
	return img, nil
}

// Decode decodes every path concurrently. The first failure cancels the
// remaining work and is returned.
func (l *Loader) Decode(ctx context.Context, paths []string) (map[string]image.Image, error) {
	var (
		mu     sync.Mutex
		images = make(map[string]image.Image, len(paths))
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentDecodes)
	for _, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			img, err := l.DecodeFile(path)
			if err != nil {
				return err
			}
			mu.Lock()
			images[path] = img
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return images, nil
}
