package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/phobologic/envcheck/internal/config"
)

const configHeader = `# envcheck configuration. Paths are relative to the project root.
# Every key can be overridden with an ENVCHECK_ environment variable,
# e.g. ENVCHECK_SOURCES_SETTINGS=src/settings.py.
`

func newInitCmd(opts *options, stdout, stderr io.Writer) *cobra.Command {
	var (
		dryRun bool
		force  bool
	)

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a default " + config.FileName,
		Long: `Write an envcheck config file holding the default settings, ready to edit.

path defaults to <root>/` + config.FileName + `. An existing file is left alone
unless --force is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := generateConfig()
			if err != nil {
				return err
			}

			if dryRun {
				_, _ = fmt.Fprint(stdout, content)
				return nil
			}

			path := filepath.Join(opts.root, config.FileName)
			if len(args) > 0 {
				path = args[0]
			}

			if !force {
				if _, err := os.Stat(path); err == nil {
					return fmt.Errorf("%s already exists (use --force to overwrite)", path)
				} else if !errors.Is(err, fs.ErrNotExist) {
					return fmt.Errorf("checking %s: %w", path, err)
				}
			}

			if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", path, err)
			}

			_, _ = fmt.Fprintf(stderr, "wrote envcheck config to %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the config instead of writing it")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")

	return cmd
}

// generateConfig renders the default configuration as commented YAML.
func generateConfig() (string, error) {
	data, err := yaml.Marshal(config.Default())
	if err != nil {
		return "", fmt.Errorf("encoding config: %w", err)
	}
	return configHeader + string(data), nil
}
