package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/justas-b/ecommerce-dashboard/internal/app"
	"github.com/justas-b/ecommerce-dashboard/pkg/contracts"
)

func main() {
	version := flag.Bool("version", false, "print version information and exit")
	flag.Parse()

	if *version {
		fmt.Println(contracts.GetFullVersionString())
		return
	}

	application, err := app.NewApplication(context.Background())
	if err != nil {
		slog.Error("Failed to initialize application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		slog.Error("Application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
