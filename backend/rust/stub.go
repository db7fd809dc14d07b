//go:build !rust

package rust

import "github.com/gogpu/ggweb/backend"

// Without the rust tag the host is registered but never available, so
// configs naming it fall through to the next host.
func init() {
	backend.Register(backend.HostRust, func() backend.Host {
		return nil
	})
}
