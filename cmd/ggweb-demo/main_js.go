//go:build js

package main

import (
	"context"

	"github.com/gogpu/ggweb"
	"github.com/gogpu/ggweb/platform"
)

func run(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	presenter := platform.PresenterFunc(func(f platform.Frame) error {
		ggweb.Logger().Debug("demo: frame", "number", f.Number, "sprites", len(f.Sprites))
		return nil
	})
	p, err := platform.New(cfg, platform.WithPresenter(presenter))
	if err != nil {
		return err
	}
	view := newTextView(p.TextSystem())
	w, task, err := p.OpenWindow(ctx, platform.WindowOptions{
		Title:       "ggweb demo",
		Size:        platform.Size{Width: 640, Height: 96},
		ScaleFactor: 1,
		View:        view,
	})
	if err != nil {
		return err
	}

	view.setAppearance(w.Appearance())
	w.OnAppearanceChanged(view.setAppearance)
	w.Input().OnInput(func(ev platform.InputEvent) {
		if view.apply(ev) {
			w.Invalidate()
		}
	})
	w.Input().OnHover(func(over bool) {
		if over {
			p.SetCursorStyle(platform.CursorIBeam)
			return
		}
		p.SetCursorStyle(platform.CursorArrow)
	})
	p.Executor().Spawn(func() {
		if err := task.Wait(ctx); err != nil {
			ggweb.Logger().Error("demo: no renderer", "err", err)
			return
		}
		ggweb.Logger().Info("demo: renderer ready", "host", task.Host())
	})
	return p.Run(ctx)
}
