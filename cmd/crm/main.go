package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	crmcmd "github.com/louisbranch/crmdesk/internal/cmd/crm"
	"github.com/louisbranch/crmdesk/internal/platform/config"
)

func main() {
	cfg, err := crmcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("parse flags: %v", err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := crmcmd.Run(ctx, cfg); err != nil {
		config.Exitf("failed to serve: %v", err)
	}
}
