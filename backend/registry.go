package backend

import (
	"sort"
	"sync"
)

// Host name constants.
const (
	// HostWebGPU is the browser WebGPU host (GOOS=js only).
	HostWebGPU = "webgpu"
	// HostNative is the Pure Go GPU host (gogpu/wgpu HAL).
	HostNative = "native"
	// HostRust is the wgpu-native FFI host (go-webgpu/webgpu, build tag rust).
	HostRust = "rust"
	// HostSoftware is the in-memory host, always available.
	HostSoftware = "software"
)

// HostFactory creates a host. A factory returns nil when the host cannot
// run in the current environment.
type HostFactory func() Host

var (
	registryMu sync.RWMutex
	hosts      = make(map[string]HostFactory)
	// Priority order for host selection (first available wins).
	// Browser WebGPU > Pure Go HAL > wgpu-native > software emulation.
	hostPriority = []string{HostWebGPU, HostNative, HostRust, HostSoftware}
)

// Register registers a host factory with the given name.
// This is typically called from init() functions in host packages.
// If a host with the same name is already registered, it is replaced.
func Register(name string, factory HostFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	hosts[name] = factory
}

// Unregister removes a host from the registry.
// This is useful for testing.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(hosts, name)
}

// Available returns the registered host names, sorted.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(hosts))
	for name := range hosts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsRegistered checks if a host with the given name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := hosts[name]
	return ok
}

// Get returns a host instance by name.
// Returns nil if the host is not registered or unavailable.
func Get(name string) Host {
	registryMu.RLock()
	factory, ok := hosts[name]
	registryMu.RUnlock()

	if !ok {
		return nil
	}
	return factory()
}

// Default returns the best available host based on priority.
// Returns nil if no hosts are registered.
func Default() Host {
	c := Candidates(nil)
	if len(c) == 0 {
		return nil
	}
	return c[0]
}

// Candidates returns the available hosts in the given order. A nil or
// empty order uses the built-in priority. Unknown names and factories
// returning nil are skipped.
func Candidates(order []string) []Host {
	if len(order) == 0 {
		order = hostPriority
	}

	registryMu.RLock()
	defer registryMu.RUnlock()

	out := make([]Host, 0, len(order))
	seen := make(map[string]bool, len(order))
	for _, name := range order {
		if seen[name] {
			continue
		}
		seen[name] = true
		factory, ok := hosts[name]
		if !ok {
			continue
		}
		if h := factory(); h != nil {
			out = append(out, h)
		}
	}
	return out
}

// Priority returns a copy of the built-in host priority order.
func Priority() []string {
	return append([]string(nil), hostPriority...)
}
