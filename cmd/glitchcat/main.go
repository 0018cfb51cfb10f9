// SPDX-License-Identifier: Apache-2.0

// Package main provides the entry point for the glitchcat CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/glitchcat/glitchcat/internal/cmd"
)

// Version information populated at build time.
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cmd.Execute(ctx, version, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
