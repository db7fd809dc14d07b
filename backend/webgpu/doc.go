// Package webgpu is the browser GPU host, built on the WebGPU bindings of
// github.com/cogentcore/webgpu. Importing it registers backend.HostWebGPU
// when navigator.gpu exists.
//
// Adapter and device requests resolve JavaScript promises, so they must
// run on a goroutine other than the one serving requestAnimationFrame.
// platform.Initializer.Start does that.
package webgpu
