// envcheck verifies that a project's configuration sources agree with each
// other and with the code that reads them.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/phobologic/envcheck/internal/check"
	"github.com/phobologic/envcheck/internal/config"
	"github.com/phobologic/envcheck/internal/logging"
	"github.com/phobologic/envcheck/internal/model"
	"github.com/phobologic/envcheck/internal/report"
)

var version = "dev"

// errInconsistent is returned when a check found violations. The report has
// already been written, so main exits 1 without printing anything else.
var errInconsistent = errors.New("configuration is inconsistent")

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, errInconsistent) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}

// options holds the persistent flags shared by every subcommand.
type options struct {
	root       string
	configFile string
	format     string
	verbose    bool
}

func run(args []string, stdout, stderr io.Writer) error {
	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)
	return cmd.Execute()
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "envcheck",
		Short: "Verify configuration consistency",
		Long: `envcheck cross-checks the settings module, the SSM declaration lists,
the example environment file and the application code.

Run without a subcommand to execute every check. Exit status is 0 when all
checks pass and 1 otherwise.`,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChecks(opts, stdout, stderr, check.All...)
		},
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.SetVersionTemplate("envcheck {{.Version}}\n")

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&opts.root, "root", "r", ".", "project root the configured paths are relative to")
	pf.StringVar(&opts.configFile, "config", "", "config file (default is <root>/"+config.FileName+")")
	pf.StringVarP(&opts.format, "format", "f", string(report.FormatText), "output format: text, json or yaml")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "verbose output")

	for _, c := range check.All {
		c := c
		rootCmd.AddCommand(&cobra.Command{
			Use:   c.Name,
			Short: c.Short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runChecks(opts, stdout, stderr, c)
			},
		})
	}

	rootCmd.AddCommand(&cobra.Command{
		Use:   "all",
		Short: "Run every check",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChecks(opts, stdout, stderr, check.All...)
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:       "run NAME...",
		Short:     "Run the named checks in order",
		Args:      cobra.MinimumNArgs(1),
		ValidArgs: checkNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			checks := make([]check.Check, 0, len(args))
			for _, name := range args {
				c, err := check.Lookup(name)
				if err != nil {
					return fmt.Errorf("%w (available: %s)", err, strings.Join(checkNames(), ", "))
				}
				checks = append(checks, c)
			}
			return runChecks(opts, stdout, stderr, checks...)
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintf(stdout, "envcheck %s\n", version)
		},
	})

	rootCmd.AddCommand(newInitCmd(opts, stdout, stderr))

	return rootCmd
}

func checkNames() []string {
	names := make([]string, len(check.All))
	for i, c := range check.All {
		names[i] = c.Name
	}
	return names
}

// runChecks runs checks in order and writes one report for all of them. A
// check that cannot run (for example a missing required source) does not
// stop the others; its error is returned after the report is written.
func runChecks(opts *options, stdout, stderr io.Writer, checks ...check.Check) error {
	format, err := report.ParseFormat(opts.format)
	if err != nil {
		return err
	}

	log := logging.New(stderr, opts.verbose)
	defer func() { _ = log.Sync() }()

	cfg, err := config.Load(opts.root, opts.configFile)
	if err != nil {
		return err
	}
	log.Debug("loaded configuration",
		zap.String("root", cfg.Root),
		zap.String("settings", cfg.Sources.Settings),
		zap.String("app_root", cfg.Sources.AppRoot),
	)

	env := check.Env{Config: cfg, Logger: log}

	verdicts := make([]model.Verdict, 0, len(checks))
	var errs []error
	for _, c := range checks {
		log.Debug("running check", zap.String("check", c.Name))
		v, err := c.Run(env)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", c.Name, err))
			continue
		}
		verdicts = append(verdicts, v)
	}

	if len(verdicts) > 0 {
		if err := report.Write(stdout, format, verdicts...); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	if report.ExitCode(verdicts...) != 0 {
		return errInconsistent
	}
	return nil
}
