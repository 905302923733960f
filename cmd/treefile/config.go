package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/quantmind-br/treefile-go/internal/config"
	"github.com/quantmind-br/treefile-go/internal/tui"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// configPath is the file edited by the config commands
func (c *cli) configPath() string {
	if c.cfgFile != "" {
		return c.cfgFile
	}
	return config.ConfigFilePath()
}

func (c *cli) configCmd() *cobra.Command {
	var accessible bool
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Edit the configuration file interactively",
		Long: `Opens an interactive editor for the configuration file
(default ~/.treefile/config.yaml). Use "config show" to print the effective
configuration and "config init" to write the defaults.`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			path := c.configPath()
			return tui.Run(tui.Options{
				Config:     cfg,
				Accessible: accessible,
				Path:       path,
				SaveFunc: func(cfg *config.Config) error {
					return config.Save(cfg, path)
				},
			})
		},
	}
	cmd.Flags().BoolVar(&accessible, "accessible", false, "Use accessible prompts for screen readers")
	cmd.AddCommand(c.configShowCmd(), c.configInitCmd())
	return cmd
}

func (c *cli) configShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as YAML",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

func (c *cli) configInitCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration file",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := c.configPath()
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}
			if err := config.Save(config.Default(), path); err != nil {
				return fmt.Errorf("failed to write config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Config written to %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")
	return cmd
}
