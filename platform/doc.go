// Package platform adapts a GPU UI toolkit to hosts where the GPU comes
// up asynchronously, chiefly the browser.
//
// A Window starts with the no-op atlas and a readiness gate set to false.
// The Initializer acquires an adapter and a device from the first working
// backend host, builds the sprite atlas, swaps it into the window and only
// then flips the gate. The FrameDriver polls the gate on every animation
// frame and never calls the view before it is true.
//
// Platform ties these together with the executor, the text system and the
// HTTP client:
//
//	p, err := platform.New(config.Default())
//	if err != nil {
//		return err
//	}
//	w, task, err := p.OpenWindow(ctx, platform.WindowOptions{Title: "demo", View: view})
//	if err != nil {
//		return err
//	}
//	go func() {
//		if err := task.Wait(ctx); err != nil {
//			slog.Error("renderer unavailable", "err", err)
//		}
//	}()
//	return p.Run(ctx)
//
// Only one window is supported.
package platform
