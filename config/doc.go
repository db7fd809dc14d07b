// Package config holds ggweb settings, loaded from TOML or built with
// functional options:
//
//	cfg, err := config.Load("ggweb.toml")
//	cfg.Apply(config.WithFPS(30))
//
// A file only needs the keys it changes:
//
//	[renderer]
//	hosts = ["webgpu", "software"]
//
//	[atlas]
//	page_size = 2048
package config
