package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/homely-dev/homely/internal/config"
	"github.com/homely-dev/homely/internal/fonts"
)

var fontsCategory string

var fontsCmd = &cobra.Command{
	Use:   "fonts",
	Short: "Browse the font catalog used by text widgets",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading configuration: %w", err)
		}
		if cfg.Providers.GoogleFontsKey == "" {
			return fmt.Errorf("fonts needs HOMELY_PROVIDERS_GOOGLE_FONTS_KEY")
		}

		catalog := fonts.NewCatalog(fonts.NewGoogleClient(cfg.Providers.GoogleFontsKey))
		list, err := catalog.Load(cmd.Context())
		if err != nil {
			return err
		}

		for _, f := range list {
			if fontsCategory != "" && f.Category != fontsCategory {
				continue
			}
			fmt.Printf("%-32s %s\n", f.Family, f.Category)
		}
		return nil
	},
}

func init() {
	fontsCmd.Flags().StringVar(&fontsCategory, "category", "", "Filter by category (serif, sans-serif, display, handwriting, monospace)")
}
