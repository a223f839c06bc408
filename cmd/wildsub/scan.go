package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/yourusername/wildsub/core/orchestrator"
	"github.com/yourusername/wildsub/internal/config"
	"github.com/yourusername/wildsub/internal/logger"
	"github.com/yourusername/wildsub/internal/sources"
	"github.com/yourusername/wildsub/output"
	"go.uber.org/zap"
)

func newScanCmd(cfgFile *string) *cobra.Command {
	scanCmd := &cobra.Command{
		Use:   "scan",
		Short: "Enumerate subdomains of a domain from a wordlist",
		Long: `Scan detects wildcard DNS for the domain, resolves every wordlist
candidate concurrently and keeps only the names that are distinct from
the wildcard. Results are sorted by name.`,
		Example: `  wildsub scan -d example.com -w words.txt
  wildsub scan -d example.com -w words.txt -t 50 --http-verify -o found.txt`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, *cfgFile)
		},
	}

	flags := scanCmd.Flags()
	flags.StringP("domain", "d", "", "target domain")
	flags.StringP("wordlist", "w", "", "path to the wordlist")
	flags.IntP("threads", "t", 10, "number of concurrent workers")
	flags.StringP("output", "o", "", "output file path")
	flags.String("format", config.FormatText, "output format: txt, json, csv")
	flags.Int("timeout", 5, "DNS and HTTP timeout in seconds")
	flags.BoolP("verbose", "v", false, "enable debug diagnostics")
	flags.Bool("http-verify", false, "compare HTTP fingerprints against the wildcard baseline")
	flags.String("resolver", "", "upstream DNS server host[:port] (default: system nameserver)")
	flags.String("log-level", "info", "log level: debug, info, warn, error")
	flags.String("log-file", "", "also write JSON logs to this file")

	return scanCmd
}

func runScan(cmd *cobra.Command, cfgFile string) error {
	printer := output.NewPrinter(cmd.OutOrStdout())
	errPrinter := output.NewPrinter(cmd.ErrOrStderr())

	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return fmt.Errorf("error initializing logger: %w", err)
	}
	defer log.Sync()

	candidates, err := sources.LoadWordlist(cfg.Wordlist)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), banner, version)
	printer.Info("Target: %s", cfg.Domain)
	printer.Info("Loaded %d candidates from %s", len(candidates), cfg.Wordlist)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	progress := orchestrator.NewBarReporter(cmd.ErrOrStderr(), "resolving")
	result, err := orchestrator.NewOrchestrator(cfg, log, progress).Run(ctx, candidates)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			errPrinter.Warning("Scan interrupted, no results written")
			return nil
		}
		log.Error("Scan failed", zap.Error(err))
		return err
	}

	printer.PrintWildcard(result.Domain, result.Wildcard)
	printer.PrintResults(result.Subdomains)

	if cfg.Output != "" {
		if err := output.NewExporter(log.Named("output")).Export(ctx, result.Subdomains, cfg.Format, cfg.Output); err != nil {
			return fmt.Errorf("failed to save results: %w", err)
		}
		printer.Success("Results saved to %s", cfg.Output)
	}

	return nil
}
