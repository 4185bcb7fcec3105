// Command work21 is a terminal client of the WORK21 marketplace. It keeps the
// credential token and theme preference in $WORK21_HOME/storage.json, sealed
// with WORK21_PASSPHRASE when one is set.
//
// Usage:
//
//	work21 login -email you@example.com [-password secret]
//	work21 register -email ... -password ... -first ... -last ... -role student|customer
//	work21 logout | whoami | refresh
//	work21 projects [-status open] [-search text] [-limit 20] [-offset 0]
//	work21 project <id> | tasks <id>
//	work21 apply <id> -letter "..." [-price 10000]
//	work21 estimate <description...>
//	work21 theme [light|dark|system]
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/sethvargo/go-envconfig"

	"github.com/work21/portal/internal/pkg/config"
	"github.com/work21/portal/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := config.LoadCLI(ctx, envconfig.OsLookuper())
	if err != nil {
		fmt.Fprintln(os.Stderr, "work21:", err)
		os.Exit(2)
	}
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  true,
		Service: "work21-cli",
		Output:  os.Stderr,
	})

	a := newApp(ctx, cfg, os.Stdin, os.Stdout, log)
	if err := a.run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "work21:", err)
		os.Exit(1)
	}
}
