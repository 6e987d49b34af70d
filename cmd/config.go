package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/samzong/comet/internal/config"
)

var (
	configCmd = &cobra.Command{
		Use:   "config",
		Short: "Manage comet configuration",
		Long: `Manage comet configuration: the LLM model, API key and base URL, the reserved scope ` +
			`directory, the push remote, the diff size limit and the AI mode.`,
	}

	configGetCmd = &cobra.Command{
		Use:               "get [key]",
		Short:             "Show the current configuration",
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeConfigKeys,
		RunE: func(cmd *cobra.Command, args []string) error {
			if configErr != nil {
				return fmt.Errorf("configuration error: %w", configErr)
			}
			cfg, err := config.GetConfig()
			if err != nil {
				return err
			}
			cfg.APIKey = config.MaskAPIKey(cfg.APIKey)

			if len(args) == 1 {
				return printConfigValue(cfg, args[0])
			}

			out, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("failed to render config: %w", err)
			}
			fmt.Fprintf(outWriter(), "# %s\n%s", config.ConfigFileUsed(), out)
			return nil
		},
	}

	configSetCmd = &cobra.Command{
		Use:               "set <key> <value>",
		Short:             "Set a configuration item",
		Long:              "Set a configuration item. Valid keys: " + strings.Join(config.Keys, ", "),
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: completeConfigKeys,
		RunE: func(cmd *cobra.Command, args []string) error {
			if configErr != nil {
				return fmt.Errorf("configuration error: %w", configErr)
			}
			key, raw := args[0], args[1]
			value, err := config.ValidateValue(key, raw)
			if err != nil {
				return err
			}

			if err := config.SaveValue(key, value); err != nil {
				return err
			}

			if key == "api_key" {
				raw = config.MaskAPIKey(raw)
			}
			fmt.Fprintf(outWriter(), "Set %s to %s\n", key, raw)
			if key == "model" {
				fmt.Fprintf(outWriter(), "Suggested models: %s\n", strings.Join(config.GetSuggestedModels(), ", "))
			}
			return nil
		},
	}
)

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
}

func completeConfigKeys(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return config.Keys, cobra.ShellCompDirectiveNoFileComp
}

func printConfigValue(cfg *config.Config, key string) error {
	node := map[string]any{}
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to render config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &node); err != nil {
		return fmt.Errorf("failed to render config: %w", err)
	}
	value, ok := node[key]
	if !ok {
		return fmt.Errorf("unknown config key %q (valid keys: %s)", key, strings.Join(config.Keys, ", "))
	}
	fmt.Fprintln(outWriter(), value)
	return nil
}
