// cmd/tools/payload-check/main.go
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"therapy-recommendations/internal/common/config"
	"therapy-recommendations/internal/common/logger"
	"therapy-recommendations/internal/common/metrics"
	"therapy-recommendations/internal/payloadcheck"
	"therapy-recommendations/pkg/registry"
)

const (
	exitOK       = 0
	exitRejected = 1
	exitUsage    = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		help(stderr)
		return exitUsage
	}

	switch args[0] {
	case "check":
		return runCheck(ctx, args[1:], stdout, stderr)
	case "schema":
		return runSchema(args[1:], stdout, stderr)
	case "kinds":
		for _, k := range registry.All() {
			fmt.Fprintf(stdout, "%-26s %-9s %s\n", k.ID, k.Direction, k.Description)
		}
		return exitOK
	case "help", "-h", "--help":
		help(stdout)
		return exitOK
	default:
		fmt.Fprintf(stderr, "unknown command %q\n", args[0])
		help(stderr)
		return exitUsage
	}
}

func runCheck(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.SetOutput(stderr)
	kind := fs.String("kind", "", "Payload kind ("+strings.Join(registry.IDs(), ", ")+")")
	configPath := fs.String("config", "", "Path to config file (default: configs/config.yaml)")
	failFast := fs.Bool("fail-fast", false, "Stop at the first rejected payload")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if fs.NArg() == 0 {
		fmt.Fprintln(stderr, "Error: at least one payload file is required for check.")
		fs.Usage()
		return exitUsage
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading config: %v\n", err)
		return exitUsage
	}

	log, err := logger.NewStructured(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	if err != nil {
		fmt.Fprintf(stderr, "Error creating logger: %v\n", err)
		return exitUsage
	}
	defer func() { _ = log.Sync() }()
	log = log.WithFields(map[string]interface{}{
		"app":     cfg.App.Name,
		"version": cfg.App.Version,
	})

	checkCfg := payloadcheck.LoadConfig(cfg)
	if *failFast {
		checkCfg.FailFast = true
	}

	rec := metrics.New()
	checker := payloadcheck.NewChecker(checkCfg, log, rec)

	summary, err := checker.CheckFiles(ctx, *kind, fs.Args())
	if err != nil {
		log.WithError(err).Error("payload check aborted", nil)
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}

	if cfg.Metrics.Enabled {
		if err := rec.WriteTextfile(cfg.Metrics.TextfilePath); err != nil {
			log.WithError(err).Warn("failed to write metrics textfile", map[string]interface{}{
				"path": cfg.Metrics.TextfilePath,
			})
		}
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(summary); err != nil {
		fmt.Fprintf(stderr, "Error writing report: %v\n", err)
		return exitUsage
	}

	if summary.Rejected > 0 {
		return exitRejected
	}
	return exitOK
}

func runSchema(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("schema", flag.ContinueOnError)
	fs.SetOutput(stderr)
	out := fs.String("out", "", "Write the payload catalog to this path instead of stdout")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	cat := registry.Catalog()
	if *out == "" {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(cat); err != nil {
			fmt.Fprintf(stderr, "Error writing catalog: %v\n", err)
			return exitUsage
		}
		return exitOK
	}

	if err := registry.SaveCatalog(cat, *out); err != nil {
		fmt.Fprintf(stderr, "Error saving catalog: %v\n", err)
		return exitUsage
	}
	fmt.Fprintf(stdout, "Wrote %d payload kinds to %s\n", len(cat.Kinds), *out)
	return exitOK
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFromFile(path)
}

func help(w io.Writer) {
	fmt.Fprint(w, `
Usage: payload-check <command> [flags]

Commands:
  check   Check payload files against a payload kind
  schema  Print or save the payload catalog (field tables and JSON schemas)
  kinds   List the known payload kinds
  help    Show this help message

Examples:
  payload-check check -kind text-request request.json
  payload-check check -kind recommendations-response -config configs/config.yaml -fail-fast out/*.json
  payload-check schema -out docs/payload-catalog.json

Use 'payload-check <command> -h' for more information about a command.
`)
}
