package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/Conceptual-Machines/patch-core"
	"github.com/Conceptual-Machines/patch-core/internal/config"
	"github.com/Conceptual-Machines/patch-core/internal/logger"
)

const sentryFlushTimeout = 2 * time.Second

func main() {
	cfg := config.Load()
	logger.InitSentry(cfg)
	if cfg.SentryDSN != "" {
		defer sentry.Flush(sentryFlushTimeout)
	}

	cmd := flag.NewFlagSet("patchcore", flag.ExitOnError)
	analyzeFlag := cmd.Bool("analyze", false, "print the complexity/DSP-chain report alongside validation")
	cmd.Parse(os.Args[1:])

	args := cmd.Args()
	if len(args) != 1 {
		fmt.Fprintf(os.Stderr, "usage: patchcore [-analyze] <file.pd>\n")
		os.Exit(2)
	}

	src, err := os.ReadFile(args[0])
	if err != nil {
		logger.Error("cli: failed to read patch file", err, logger.Fields{"path": args[0]})
		os.Exit(1)
	}

	p, err := patchcore.Parse(string(src))
	if err != nil {
		logger.Error("cli: parse failed", err, logger.Fields{"path": args[0]})
		os.Exit(1)
	}

	reg := patchcore.NewRegistry()
	result := patchcore.Validate(p, reg)
	fmt.Println(result.String())
	for _, issue := range result.Issues {
		fmt.Printf("  [%s] %s: %s\n", issue.Severity, issue.Code, issue.Message)
	}

	if *analyzeFlag {
		report := patchcore.Analyze(p, reg)
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(report.Canvases[p.Root.ID])
	}

	if !result.Valid {
		os.Exit(1)
	}
}
