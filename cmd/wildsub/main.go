package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"github.com/yourusername/wildsub/internal/config"
	"github.com/yourusername/wildsub/output"
)

const (
	version = "1.0.0"
	banner  = `
          _ __    __             __
 _      _(_) /___/ /______  __  / /_
| | /| / / / / __  / ___/ / / / / __ \
| |/ |/ / / / /_/ (__  ) /_/ / / /_/ /
|__/|__/_/_/\__,_/____/\__,_/ /_.___/

Wildcard-aware subdomain enumeration v%s
`
)

// newRootCmd builds the command tree writing to stdout and stderr
func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "wildsub",
		Short: "Wildcard-aware subdomain enumeration",
		Long: `wildsub resolves candidate labels from a wordlist under a target domain
and filters out the false positives produced by wildcard DNS records,
optionally comparing HTTP fingerprints against the wildcard baseline.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.wildsub/config.yaml)")

	rootCmd.AddCommand(newScanCmd(&cfgFile))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, banner, version)
			fmt.Fprintf(out, "\nVersion:      %s\n", version)
			fmt.Fprintf(out, "Go Version:   %s\n", runtime.Version())
			fmt.Fprintf(out, "OS/Arch:      %s/%s\n", runtime.GOOS, runtime.GOARCH)
			fmt.Fprintf(out, "Environment:  %s\n", detectEnvironment())
		},
	}
}

func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "init [path]",
		Short: "Write the default configuration as YAML",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := defaultConfigPath()
			if err != nil {
				return err
			}
			if len(args) == 1 {
				path = args[0]
			}

			if err := config.WriteDefault(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "[+] Default configuration written to %s\n", path)
			return nil
		},
	})

	return configCmd
}

func defaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("unable to locate home directory: %w", err)
	}
	return filepath.Join(home, ".wildsub", "config.yaml"), nil
}

func detectEnvironment() string {
	data, err := os.ReadFile("/etc/os-release")
	if err == nil && strings.Contains(strings.ToLower(string(data)), "kali") {
		return "Kali Linux"
	}
	return runtime.GOOS
}

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		output.NewPrinter(os.Stderr).Error("%v", err)
		os.Exit(1)
	}
}
