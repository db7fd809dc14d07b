// Package rust registers the wgpu-native host, built on
// github.com/go-webgpu/webgpu. It is compiled only with the rust build
// tag; without it the host is registered as unavailable.
//
//	go build -tags rust ./...
//
// The host acquires an adapter and device. Atlas textures are not
// supported yet, so window initialization on this host falls back to the
// next configured host.
package rust
