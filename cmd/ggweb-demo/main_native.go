//go:build !js

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"os/signal"

	"golang.org/x/image/draw"

	"github.com/gogpu/ggweb"
	"github.com/gogpu/ggweb/atlas"
	"github.com/gogpu/ggweb/backend"
	"github.com/gogpu/ggweb/platform"
)

var output = flag.String("output", "ggweb-demo.png", "PNG written from the first drawn frame")

func run(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	// Compositing reads atlas pages back from memory.
	cfg.Renderer.Hosts = []string{backend.HostSoftware}

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt)
	defer cancel()

	size := platform.Size{Width: 640, Height: 96}
	var saveErr error
	presenter := platform.PresenterFunc(func(f platform.Frame) error {
		defer cancel()
		saveErr = savePNG(*output, size, f)
		return saveErr
	})

	p, err := platform.New(cfg, platform.WithPresenter(presenter))
	if err != nil {
		return err
	}
	_, task, err := p.OpenWindow(ctx, platform.WindowOptions{
		Title:       "ggweb demo",
		Size:        size,
		ScaleFactor: 1,
		View:        newTextView(p.TextSystem()),
	})
	if err != nil {
		return err
	}
	if err := task.Err(); err != nil {
		return err
	}
	ggweb.Logger().Info("demo: renderer ready", "host", task.Host(), "adapter", task.Adapter().Name)

	if err := p.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	if saveErr == nil {
		ggweb.Logger().Info("demo: saved", "path", *output)
	}
	return saveErr
}

// pageSource is implemented by atlases whose pages can be looked up.
type pageSource interface {
	Texture(id atlas.TextureID) (backend.Texture, bool)
}

func pages(p atlas.TileProvider) (pageSource, bool) {
	if c, ok := p.(*atlas.TileCache); ok {
		p = c.Provider()
	}
	src, ok := p.(pageSource)
	return src, ok
}

// composite draws every sprite of f onto a white image, reading tile
// pixels from the software textures of the atlas.
func composite(size platform.Size, f platform.Frame) (*image.RGBA, error) {
	src, ok := pages(f.Atlas)
	if !ok {
		return nil, fmt.Errorf("atlas %T has no readable pages", f.Atlas)
	}
	dst := image.NewRGBA(image.Rect(0, 0, size.Width, size.Height))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)

	for _, s := range f.Sprites {
		tex, ok := src.Texture(s.Tile.TextureID)
		if !ok {
			continue
		}
		sw, ok := tex.(*backend.SoftwareTexture)
		if !ok {
			return nil, fmt.Errorf("texture %T is not readable", tex)
		}
		b := s.Tile.Bounds
		at := image.Pt(int(s.Origin.X), int(s.Origin.Y))
		r := image.Rectangle{Min: at, Max: at.Add(image.Pt(int(b.Size.Width), int(b.Size.Height)))}
		from := image.Pt(int(b.Origin.X), int(b.Origin.Y))

		switch s.Tile.TextureID.Kind {
		case atlas.Polychrome:
			page := &image.RGBA{Pix: bgraToRGBA(sw.Pixels()), Stride: int(sw.Width()) * 4, Rect: image.Rect(0, 0, int(sw.Width()), int(sw.Height()))}
			draw.Draw(dst, r, page, from, draw.Over)
		default:
			mask := &image.Alpha{Pix: sw.Pixels(), Stride: int(sw.Width()), Rect: image.Rect(0, 0, int(sw.Width()), int(sw.Height()))}
			c := image.NewUniform(color.NRGBA{R: s.Color[0], G: s.Color[1], B: s.Color[2], A: s.Color[3]})
			draw.DrawMask(dst, r, c, image.Point{}, mask, from, draw.Over)
		}
	}
	return dst, nil
}

func savePNG(path string, size platform.Size, f platform.Frame) error {
	img, err := composite(size, f)
	if err != nil {
		return err
	}
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(out, img); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

func bgraToRGBA(pix []byte) []byte {
	for i := 0; i+3 < len(pix); i += 4 {
		pix[i], pix[i+2] = pix[i+2], pix[i]
	}
	return pix
}
