// Package backend abstracts GPU adapter and device acquisition.
//
// A [Host] is the entry point of one GPU API. Acquiring a device is a
// two step, possibly asynchronous sequence:
//
//	adapter, err := host.RequestAdapter(ctx, backend.AdapterOptions{
//		PowerPreference: gputypes.PowerPreferenceHighPerformance,
//	})
//	device, err := adapter.RequestDevice(ctx, backend.DeviceDescriptor{Label: "ggweb"})
//
// The resulting [Device] creates textures and exposes a [Queue] for uploads,
// which is all the atlas allocator needs.
//
// # Host Registration
//
// Hosts are registered via init() functions and selected at runtime.
// The software host is registered by this package:
//
//	host := backend.Default()
//
// Platform code walks [Candidates] in priority order and falls back to the
// next host when one fails.
//
// # Available Hosts
//
//   - "webgpu": browser WebGPU via cogentcore/webgpu (GOOS=js, package backend/webgpu)
//   - "native": Pure Go HAL via gogpu/wgpu (package backend/native)
//   - "rust": wgpu-native via go-webgpu/webgpu (build tag rust, package backend/rust)
//   - "software": in-memory textures, always available
package backend
