package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sangkips/template-dispatch-service/internal/domains/messages"
)

func init() {
	rootCmd.AddCommand(renderCmd)
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the template with --bind values and print it",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		tmpl, err := loadTemplate(cfg)
		if err != nil {
			return err
		}

		engine, err := newEngine(cfg)
		if err != nil {
			return err
		}

		out, err := engine.Render(tmpl)
		if err != nil {
			return err
		}

		if _, err := fmt.Fprintln(cmd.OutOrStdout(), out); err != nil {
			return fmt.Errorf("%w: write console: %w", messages.ErrIO, err)
		}
		return nil
	},
}
