// Command ggweb-serve serves a wasm build of a ggweb program and reloads
// open pages when the build changes.
//
//	GOOS=js GOARCH=wasm go build -o web/main.wasm ./cmd/ggweb-demo
//	ggweb-serve -dir web
//
// Pages opt into live reload by including /_ggweb/reload.js.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gogpu/ggweb"
	"github.com/gogpu/ggweb/config"
	"github.com/gogpu/ggweb/internal/devserver"
)

func main() {
	var (
		configPath = flag.String("config", "", "TOML configuration file")
		addr       = flag.String("addr", "", "listen address, overrides serve.addr")
		dir        = flag.String("dir", "", "directory to serve, overrides serve.dir")
		noReload   = flag.Bool("no-reload", false, "disable live reload")
	)
	flag.Parse()

	ggweb.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			fmt.Fprintln(os.Stderr, "ggweb-serve:", err)
			os.Exit(1)
		}
	}
	if *addr != "" {
		cfg.Serve.Addr = *addr
	}
	if *dir != "" {
		cfg.Serve.Dir = *dir
	}
	if *noReload {
		cfg.Serve.LiveReload = false
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := devserver.New(cfg.Serve).ListenAndServe(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "ggweb-serve:", err)
		os.Exit(1)
	}
}
