package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"aur/internal/aurerr"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCommand()
	if err := cmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, context.Canceled) {
			if msg := aurerr.Render(err); msg != "" {
				fmt.Fprintln(os.Stderr, msg)
			}
		}
		stop()
		os.Exit(1)
	}
}
