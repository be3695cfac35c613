package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dupscan/dupscan/internal/config"
)

// InitCommand represents the init command.
type InitCommand struct {
	force      bool
	configPath string
}

// NewInitCommand creates a new init command.
func NewInitCommand() *InitCommand {
	return &InitCommand{
		configPath: config.ConfigFileNames[0],
	}
}

// CreateCobraCommand creates the cobra command for configuration initialization.
func (i *InitCommand) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize dupscan configuration file",
		Long: `Initialize a dupscan configuration file in the current directory.

Creates a .dupscan.toml file with the default detection settings so they
can be customized per project.

Examples:
  # Create .dupscan.toml in current directory
  dupscan init

  # Overwrite an existing configuration file
  dupscan init --force`,
		RunE: i.runInit,
	}

	cmd.Flags().BoolVarP(&i.force, "force", "f", false, "Overwrite existing configuration file")
	cmd.Flags().StringVarP(&i.configPath, "config", "c", i.configPath, "Configuration file path")

	return cmd
}

// runInit executes the init command.
func (i *InitCommand) runInit(cmd *cobra.Command, args []string) error {
	configPath, err := filepath.Abs(i.configPath)
	if err != nil {
		return fmt.Errorf("failed to resolve config path: %w", err)
	}

	if _, err := os.Stat(configPath); err == nil && !i.force {
		return fmt.Errorf("configuration file already exists: %s\nUse --force to overwrite", configPath)
	}

	loader := config.NewLoader()
	if err := loader.SaveCloneConfig(loader.GetDefaultCloneConfig(), configPath); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}

	relPath, err := filepath.Rel(".", configPath)
	if err != nil {
		relPath = configPath
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Configuration file created: %s\n", relPath)
	return nil
}

// NewInitCmd creates and returns the init cobra command.
func NewInitCmd() *cobra.Command {
	return NewInitCommand().CreateCobraCommand()
}
