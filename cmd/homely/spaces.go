package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/homely-dev/homely/internal/apiclient"
)

var spacesCmd = &cobra.Command{
	Use:   "spaces",
	Short: "Manage dashboard spaces",
}

func init() {
	spacesCmd.AddCommand(spacesListCmd)
	spacesCmd.AddCommand(spacesCreateCmd)
	spacesCmd.AddCommand(spacesRmCmd)
	spacesCmd.AddCommand(spacesCloneCmd)
	spacesCmd.AddCommand(spacesBookmarkCmd)
	spacesCmd.AddCommand(spacesDefaultCmd)
	spacesCmd.AddCommand(spacesExportCmd)
	spacesCmd.AddCommand(spacesImportCmd)
}

var spacesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your spaces",
	RunE: func(cmd *cobra.Command, args []string) error {
		cc, err := newClientContext(cmd.Context(), true)
		if err != nil {
			return err
		}
		if err := cc.spaces.FetchMySpaces(cmd.Context()); err != nil {
			return err
		}

		for _, s := range cc.spaces.MySpaces() {
			marker := " "
			if s.IsDefault {
				marker = "*"
			}
			fmt.Printf("%s %s  %-24s %d widgets\n", marker, s.UID, s.Name, len(s.Widgets))
		}
		return nil
	},
}

var spacesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new space with a generated name",
	RunE: func(cmd *cobra.Command, args []string) error {
		cc, err := newClientContext(cmd.Context(), true)
		if err != nil {
			return err
		}

		space, err := cc.spaces.CreateSpace(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("Created space %q (%s)\n", space.Name, space.UID)
		return nil
	},
}

var spacesRmCmd = &cobra.Command{
	Use:   "rm <space-id>",
	Short: "Delete a space and all its widgets",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cc, err := newClientContext(cmd.Context(), true)
		if err != nil {
			return err
		}
		if err := cc.spaces.DeleteSpace(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted space %s\n", args[0])
		return nil
	},
}

var spacesCloneCmd = &cobra.Command{
	Use:   "clone <space-id>",
	Short: "Clone a space and its widgets into your account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cc, err := newClientContext(cmd.Context(), true)
		if err != nil {
			return err
		}

		clone, err := cc.spaces.CloneSpace(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Cloned into %q (%s)\n", clone.Name, clone.UID)
		return nil
	},
}

var spacesBookmarkCmd = &cobra.Command{
	Use:   "bookmark <space-id>",
	Short: "Toggle your bookmark on a space",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cc, err := newClientContext(cmd.Context(), true)
		if err != nil {
			return err
		}
		if err := cc.spaces.ToggleBookmark(cmd.Context(), args[0]); err != nil {
			return err
		}

		if space, ok := cc.spaces.Space(args[0]); ok && space.IsBookmarked {
			fmt.Printf("Bookmarked %q\n", space.Name)
		} else {
			fmt.Printf("Removed bookmark from %s\n", args[0])
		}
		return nil
	},
}

var spacesDefaultCmd = &cobra.Command{
	Use:   "default <space-id>",
	Short: "Make a space your default",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cc, err := newClientContext(cmd.Context(), true)
		if err != nil {
			return err
		}
		if err := cc.spaces.SetDefaultSpace(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Default space is now %s\n", args[0])
		return nil
	},
}

// spaceExport is the portable YAML shape for a space and its widgets.
type spaceExport struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description,omitempty"`
	Widgets     []widgetExport `yaml:"widgets"`
}

type widgetExport struct {
	Type      apiclient.WidgetType `yaml:"widget_type"`
	Content   map[string]any       `yaml:"content,omitempty"`
	CardStyle map[string]any       `yaml:"card_style,omitempty"`
	Layout    apiclient.Layout     `yaml:"layout"`
}

var spacesExportCmd = &cobra.Command{
	Use:   "export <space-id>",
	Short: "Write a space and its widgets to stdout as YAML",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cc, err := newClientContext(cmd.Context(), true)
		if err != nil {
			return err
		}

		space, err := cc.spaces.FetchSpace(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		out := spaceExport{Name: space.Name, Description: space.Description}
		for _, w := range space.Widgets {
			out.Widgets = append(out.Widgets, widgetExport{
				Type:      w.Type,
				Content:   w.Content,
				CardStyle: w.CardStyle,
				Layout:    w.Layout,
			})
		}
		return yaml.NewEncoder(os.Stdout).Encode(out)
	},
}

var spacesImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Create a space from an exported YAML file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}

		var in spaceExport
		if err := yaml.Unmarshal(data, &in); err != nil {
			return fmt.Errorf("parsing %s: %w", args[0], err)
		}
		if in.Name == "" {
			return fmt.Errorf("%s has no space name", args[0])
		}

		cc, err := newClientContext(cmd.Context(), true)
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		space, err := cc.spaces.CreateSpace(ctx)
		if err != nil {
			return err
		}
		if _, err := cc.spaces.UpdateSpace(ctx, space.UID, map[string]any{
			"name":        in.Name,
			"description": in.Description,
		}); err != nil {
			return err
		}

		for _, w := range in.Widgets {
			if _, err := cc.api.CreateWidget(ctx, apiclient.WidgetInput{
				Space:     space.UID,
				Type:      w.Type,
				Content:   w.Content,
				CardStyle: w.CardStyle,
				Layout:    w.Layout,
			}); err != nil {
				return fmt.Errorf("importing widget: %w", err)
			}
		}

		fmt.Printf("Imported %q (%s) with %d widgets\n", in.Name, space.UID, len(in.Widgets))
		return nil
	},
}
