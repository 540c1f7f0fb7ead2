package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/intizar/easyapply/pkg/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage easyapply configuration",
	Long: `Direct access to config.yaml values.

  easyapply config get <key>
  easyapply config set <key> <value>

Keys: phone_number, salary, rate, db_path, log_dir.
Search terms, blacklists and thresholds are edited in config.yaml directly.`,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]
		if err := config.Set(key, value); err != nil {
			return err
		}
		fmt.Printf("Set %s = %s\n", key, value)
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a config value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		value, err := config.Get(args[0])
		if err != nil {
			return err
		}
		if value == "" {
			fmt.Println("(not set)")
		} else {
			fmt.Println(value)
		}
		return nil
	},
}

func init() {
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configGetCmd)
	rootCmd.AddCommand(configCmd)
}
