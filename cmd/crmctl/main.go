package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/louisbranch/crmdesk/internal/cmd/crmctl"
	"github.com/louisbranch/crmdesk/internal/platform/config"
)

func main() {
	cfg, err := crmctl.LoadConfig()
	if err != nil {
		config.Exitf("load config: %v", err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := crmctl.NewRootCommand(cfg).ExecuteContext(ctx); err != nil {
		config.Exitf("crmctl: %v", err)
	}
}
