// Command gendata writes a synthetic order export that the dashboard can
// load like a real one.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/justas-b/ecommerce-dashboard/internal/config"
	"github.com/justas-b/ecommerce-dashboard/internal/dataprocessing"
	"github.com/justas-b/ecommerce-dashboard/internal/exporter"
	"github.com/justas-b/ecommerce-dashboard/internal/files"
	"github.com/justas-b/ecommerce-dashboard/internal/infrastructure"
	"github.com/justas-b/ecommerce-dashboard/internal/validation"
)

type options struct {
	rows    int
	start   string
	end     string
	seed    int64
	out     string
	formats []string
	level   string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, "gendata:", err)
		os.Exit(1)
	}
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	var formats string

	fs := flag.NewFlagSet("gendata", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.IntVar(&opts.rows, "rows", config.DefaultGeneratedRows, "number of orders to generate")
	fs.StringVar(&opts.start, "start", config.DefaultGenerateStart, "first sale date (YYYY-MM-DD)")
	fs.StringVar(&opts.end, "end", config.DefaultGenerateEnd, "last sale date (YYYY-MM-DD)")
	fs.Int64Var(&opts.seed, "seed", 0, "random seed; 0 seeds from the clock")
	fs.StringVar(&opts.out, "out", filepath.Join(config.DefaultDataDir, strings.TrimSuffix(config.GeneratedFileName, ".csv")),
		"output path without extension")
	fs.StringVar(&formats, "format", "csv", "comma separated output formats: csv, xlsx")
	fs.StringVar(&opts.level, "log-level", "warn", "log level")

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if opts.rows < 0 {
		return opts, fmt.Errorf("rows must not be negative, got %d", opts.rows)
	}

	seen := make(map[string]bool)
	for _, f := range strings.Split(formats, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		switch f {
		case "csv", "xlsx":
			if !seen[f] {
				seen[f] = true
				opts.formats = append(opts.formats, f)
			}
		case "":
		default:
			return opts, fmt.Errorf("unknown format %q: must be one of csv, xlsx", f)
		}
	}
	if len(opts.formats) == 0 {
		return opts, fmt.Errorf("no output format given")
	}
	opts.out = strings.TrimSuffix(strings.TrimSuffix(opts.out, ".csv"), ".xlsx")
	return opts, nil
}

// run generates the orders once and writes every requested format
// concurrently
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	logger := infrastructure.NewLogger(stderr, opts.level)
	if err := validation.NewFileValidator(logger).ValidateOutputDirectory(filepath.Dir(opts.out)); err != nil {
		return err
	}

	var rng *rand.Rand
	if opts.seed != 0 {
		rng = rand.New(rand.NewSource(opts.seed))
	}
	orders, err := dataprocessing.NewGenerator(dataprocessing.DefaultCountries(), rng).
		Generate(opts.start, opts.end, opts.rows)
	if err != nil {
		return err
	}
	header, rows := dataprocessing.OrderRecords(orders)

	manager := files.NewManager("", logger)
	writers := map[string]dataprocessing.RecordWriter{
		"csv":  exporter.NewCSVWriter(manager, logger),
		"xlsx": exporter.NewXLSXWriter(manager, logger),
	}

	g, gctx := errgroup.WithContext(ctx)
	paths := make([]string, len(opts.formats))
	for i, format := range opts.formats {
		path := opts.out + "." + format
		paths[i] = path
		w := writers[format]
		g.Go(func() error {
			if err := w.WriteRecords(gctx, path, header, rows); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, p := range paths {
		fmt.Fprintf(stdout, "wrote %d orders to %s\n", len(orders), p)
	}
	logger.InfoContext(ctx, "Synthetic orders written",
		slog.Int("rows", len(orders)),
		slog.Any("paths", paths))
	return nil
}
