// Package main provides the entry point for the redirect server.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samber/do/v2"

	"github.com/CyberBrown/solampio-web-sub002/internal/di"
	"github.com/CyberBrown/solampio-web-sub002/internal/di/providers"
	"github.com/CyberBrown/solampio-web-sub002/internal/logger"
)

func main() {
	// Create DI container
	injector := di.NewContainer()

	// Bootstrap all services
	if err := di.Bootstrap(injector); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap server: %v\n", err)
		os.Exit(1)
	}

	// Get logger for shutdown messages
	log := do.MustInvoke[*logger.Logger](injector)

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	// The DI container handles shutdown order automatically
	if err := injector.Shutdown(); err != nil {
		log.Error("Shutdown error", "error", err)
	}

	// The store uses a wrapper type, so close it explicitly
	if storeHandle, err := do.Invoke[*providers.StoreHandle](injector); err == nil {
		log.Info("Closing mapping store...")
		if err := storeHandle.Shutdown(); err != nil {
			log.Error("Failed to close mapping store", "error", err)
		} else {
			log.Info("Mapping store closed")
		}
	}

	log.Info("Goodbye")
}
