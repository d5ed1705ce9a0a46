// Command sqlight runs SQL statements and queries against a local
// SQLite database, with queries supplied inline or as named template
// files from a configured directory.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nerrad567/sqlight/internal/cli"
)

func main() {
	// Cancel in-flight statements on Ctrl+C / SIGTERM
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := cli.NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
