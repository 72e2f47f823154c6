package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sdejongh/dupscan/pkg/config"
)

// NewConfigCommand creates the config command
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long:  `View or initialize the dupscan configuration file.`,
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigInitCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			fmt.Printf("Extensions:          %s\n", strings.Join(cfg.Extensions, ", "))
			fmt.Printf("Excluded dirs:       %s\n", strings.Join(cfg.ExcludeDirs, ", "))
			fmt.Printf("Min lines:           %d\n", cfg.Scan.MinLines)
			fmt.Printf("Min significant:     %d\n", cfg.Scan.MinSignificant)
			fmt.Printf("Max pairs per hash:  %d\n", cfg.Scan.MaxPairsPerHash)
			fmt.Printf("Top results:         %d\n", cfg.Scan.Top)
			fmt.Printf("Same-file matches:   %t\n", cfg.Scan.IncludeSameFile)
			fmt.Printf("Max workers:         %d\n", cfg.Performance.MaxWorkers)
			fmt.Printf("Output format:       %s\n", cfg.Output.Format)
			fmt.Printf("Progress bar:        %t\n", cfg.Output.Progress)
			fmt.Printf("Logging enabled:     %t\n", cfg.Logging.Enabled)
			if cfg.Logging.Enabled {
				fmt.Printf("Log file:            %s\n", cfg.Logging.File)
				fmt.Printf("Log format:          %s\n", cfg.Logging.Format)
				fmt.Printf("Log level:           %s\n", cfg.Logging.Level)
			}

			return nil
		},
	}
}

func newConfigInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := globalFlags.ConfigFile
			if path == "" {
				var err error
				path, err = config.DefaultConfigPath()
				if err != nil {
					return err
				}
			}

			if !force {
				if exists, err := fileExists(path); err != nil {
					return err
				} else if exists {
					return fmt.Errorf("config file already exists: %s (use --force to overwrite)", path)
				}
			}

			if err := config.SaveToFile(config.Default(), path); err != nil {
				return err
			}

			fmt.Printf("Wrote default configuration to %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing config file")

	return cmd
}

// fileExists reports whether a regular file exists at path
func fileExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
