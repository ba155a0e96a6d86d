package commands

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `Manage tempo configuration settings.

Configuration is stored in YAML format at:
  ~/.config/tempo/config.yml

The running TUI reloads the file automatically when it changes.

Examples:
  # Show current configuration
  tempo config show

  # Write the default configuration to disk
  tempo config init

  # Edit config in editor
  tempo config edit

  # Show config file location
  tempo config path`,
}

// configShowCmd shows the current configuration
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("failed to render config: %w", err)
		}
		fmt.Print(string(data))
		return nil
	},
}

// configInitCmd writes the loaded configuration to disk
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the current configuration to the config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := container.Loader.Save(cfg); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
		if !quiet {
			fmt.Printf("Wrote %s\n", container.Loader.GetConfigPath())
		}
		return nil
	},
}

// configPathCmd shows the config file location
var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show config file location",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(container.Loader.GetConfigPath())
		return nil
	},
}

// configEditCmd opens the config file in $EDITOR
var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit config file in your editor",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := container.Loader.GetConfigPath()

		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := container.Loader.Save(cfg); err != nil {
				return fmt.Errorf("failed to create config file: %w", err)
			}
		}

		editor := os.Getenv("EDITOR")
		if editor == "" {
			editor = "vi"
		}

		c := exec.Command(editor, path)
		c.Stdin = os.Stdin
		c.Stdout = os.Stdout
		c.Stderr = os.Stderr
		return c.Run()
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configEditCmd)
	rootCmd.AddCommand(configCmd)
}
