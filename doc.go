// Package ggweb is the browser platform layer of the gogpu UI toolkit.
//
// # Overview
//
// A toolkit window in the browser cannot block while the GPU comes up:
// navigator.gpu.requestAdapter and requestDevice resolve promises on a
// later turn of the event loop. ggweb therefore opens windows with a
// no-op sprite atlas and a readiness gate set to false, acquires the
// backend in the background and swaps in the real atlas exactly once.
// Frames are skipped until then.
//
// # Packages
//
//   - atlas: GPU texture pages, the shelf packer and the page free list
//   - backend: the host, adapter and device abstraction, plus the
//     in-memory software host; backend/webgpu, backend/native and
//     backend/rust register the GPU hosts
//   - platform: windows, the readiness gate, the async initializer and
//     the frame driver
//   - executor: the host clock and the executor, whose Block fails fast
//     in the browser
//   - text: font registry, shaping, glyph rasterization and URL font
//     loading on the web
//   - httpclient: the fetch-backed HTTP client
//   - config: TOML configuration
//
// # Quick Start
//
//	p, err := platform.New(config.Default())
//	if err != nil {
//		return err
//	}
//	w, task, err := p.OpenWindow(ctx, platform.WindowOptions{
//		Title: "hello",
//		Size:  platform.Size{Width: 800, Height: 600},
//		View:  view,
//	})
//	if err != nil {
//		return err
//	}
//	_ = w
//	_ = task // task.Wait reports backend failures
//	return p.Run(ctx)
//
// # Logging
//
// ggweb is silent by default. See SetLogger.
package ggweb
