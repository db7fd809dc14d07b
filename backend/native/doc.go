// Package native is the desktop GPU host. It opens devices through the
// Pure Go HAL of github.com/gogpu/wgpu, compiles the sprite shader with
// github.com/gogpu/naga and registers itself as backend.HostNative.
//
// Applications that already own a GPU device, such as a gogpu.App, share
// it through FromProvider:
//
//	host, err := native.FromProvider(app)
//	if err != nil {
//		return err
//	}
//	p, err := platform.New(cfg, platform.WithHosts(host))
//
// The package is not built for GOOS=js.
package native
