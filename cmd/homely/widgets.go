package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/homely-dev/homely/internal/apiclient"
	"github.com/homely-dev/homely/internal/store"
)

var widgetsCmd = &cobra.Command{
	Use:   "widgets",
	Short: "Manage the widgets on a space",
}

var (
	widgetSpace   string
	widgetType    string
	widgetContent string
	widgetStyle   string
	widgetURL     string
	widgetW       int
	widgetH       int
)

func init() {
	widgetsAddCmd.Flags().StringVar(&widgetSpace, "space", "", "Space to place the widget on (default: your default space)")
	widgetsAddCmd.Flags().StringVar(&widgetType, "type", "text", "Widget type: text, link, image, datetime, weather, weather-window")
	widgetsAddCmd.Flags().StringVar(&widgetContent, "content", "{}", "Widget content as JSON")
	widgetsAddCmd.Flags().StringVar(&widgetStyle, "style", "", "Card style as JSON")
	widgetsAddCmd.Flags().StringVar(&widgetURL, "url", "", "URL for a link widget, metadata is resolved server-side")
	widgetsAddCmd.Flags().IntVar(&widgetW, "width", 2, "Grid width")
	widgetsAddCmd.Flags().IntVar(&widgetH, "height", 2, "Grid height")

	widgetsSetCmd.Flags().StringVar(&widgetContent, "content", "", "Content patch as JSON, merged into the existing content")
	widgetsSetCmd.Flags().StringVar(&widgetStyle, "style", "", "Card style patch as JSON")

	widgetsListCmd.Flags().StringVar(&widgetSpace, "space", "", "Space to list (default: your default space)")

	widgetsCmd.AddCommand(widgetsListCmd)
	widgetsCmd.AddCommand(widgetsAddCmd)
	widgetsCmd.AddCommand(widgetsSetCmd)
	widgetsCmd.AddCommand(widgetsRmCmd)
}

var widgetTypeNames = map[string]apiclient.WidgetType{
	"text":           apiclient.WidgetText,
	"link":           apiclient.WidgetLink,
	"image":          apiclient.WidgetImage,
	"datetime":       apiclient.WidgetDateTime,
	"weather":        apiclient.WidgetWeather,
	"weather-window": apiclient.WidgetWeatherWindow,
}

// resolveSpace returns the requested space, falling back to the user's
// default, with its widgets loaded into the store.
func resolveSpace(ctx context.Context, cc *clientContext, uid string) (store.Space, error) {
	if uid == "" {
		uid = cc.session.User().DefaultSpace
	}
	if uid == "" {
		return store.Space{}, fmt.Errorf("no space given and no default space set")
	}
	return cc.spaces.FetchSpace(ctx, uid)
}

var widgetsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the widgets on a space",
	RunE: func(cmd *cobra.Command, args []string) error {
		cc, err := newClientContext(cmd.Context(), true)
		if err != nil {
			return err
		}

		space, err := resolveSpace(cmd.Context(), cc, widgetSpace)
		if err != nil {
			return err
		}

		for _, uid := range cc.widgets.ActiveWidgetsBySpace()[space.UID] {
			w, ok := cc.widgets.WidgetByID(uid)
			if !ok {
				continue
			}
			content, _ := json.Marshal(w.Content)
			fmt.Printf("%s  type=%-2d %dx%d  %s\n", w.UID, w.Type, w.Layout.W, w.Layout.H, content)
		}
		return nil
	},
}

var widgetsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Place a new widget on a space",
	Example: `  homely widgets add --type text --content '{"text":"hello"}'
  homely widgets add --type weather --content '{"items":[{"useCurrentLocation":true}]}'
  homely widgets add --type link --url https://example.org`,
	RunE: func(cmd *cobra.Command, args []string) error {
		wt, ok := widgetTypeNames[widgetType]
		if !ok {
			return fmt.Errorf("unknown widget type %q", widgetType)
		}

		var content map[string]any
		if err := json.Unmarshal([]byte(widgetContent), &content); err != nil {
			return fmt.Errorf("parsing --content: %w", err)
		}
		var style map[string]any
		if widgetStyle != "" {
			if err := json.Unmarshal([]byte(widgetStyle), &style); err != nil {
				return fmt.Errorf("parsing --style: %w", err)
			}
		}

		cc, err := newClientContext(cmd.Context(), true)
		if err != nil {
			return err
		}

		space, err := resolveSpace(cmd.Context(), cc, widgetSpace)
		if err != nil {
			return err
		}

		if widgetURL != "" {
			if wt != apiclient.WidgetLink {
				return fmt.Errorf("--url only applies to link widgets")
			}
			link, err := cc.api.GetLink(cmd.Context(), widgetURL)
			if err != nil {
				return fmt.Errorf("resolving link metadata: %w", err)
			}
			content["url"] = link.URL
			content["metadata"] = link.Metadata
		}

		before := make(map[string]bool)
		for _, uid := range cc.widgets.ActiveWidgetsBySpace()[space.UID] {
			before[uid] = true
		}

		// Place below the current bottom row.
		_, maxY := cc.widgets.MaxLayoutPosition(space.UID)
		cc.widgets.DraftCreateWidget(space.UID, store.DraftInput{
			Type:      wt,
			Content:   content,
			CardStyle: style,
			Layout:    apiclient.Layout{X: 0, Y: maxY + 1, W: widgetW, H: widgetH},
		})

		if err := cc.widgets.SaveDirtyWidgets(cmd.Context(), space.UID); err != nil {
			return err
		}

		// The draft id was swapped for the server one during save.
		for _, uid := range cc.widgets.ActiveWidgetsBySpace()[space.UID] {
			if !before[uid] {
				fmt.Printf("Added widget %s\n", uid)
				return nil
			}
		}
		fmt.Println("Added widget")
		return nil
	},
}

var widgetsSetCmd = &cobra.Command{
	Use:   "set <widget-id>",
	Short: "Patch a widget's content or style",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var patch store.WidgetPatch
		if widgetContent != "" {
			if err := json.Unmarshal([]byte(widgetContent), &patch.Content); err != nil {
				return fmt.Errorf("parsing --content: %w", err)
			}
		}
		if widgetStyle != "" {
			if err := json.Unmarshal([]byte(widgetStyle), &patch.CardStyle); err != nil {
				return fmt.Errorf("parsing --style: %w", err)
			}
		}
		if patch.Content == nil && patch.CardStyle == nil {
			return fmt.Errorf("nothing to change, pass --content or --style")
		}

		cc, err := newClientContext(cmd.Context(), true)
		if err != nil {
			return err
		}

		widget, err := cc.api.GetWidget(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		cc.widgets.SetSpaceWidgets(widget.Space, []apiclient.Widget{*widget})

		if _, ok := cc.widgets.DraftUpdateWidget(args[0], patch); !ok {
			return fmt.Errorf("widget %s not found", args[0])
		}
		if err := cc.widgets.SaveDirtyWidgets(cmd.Context(), widget.Space); err != nil {
			return err
		}
		fmt.Printf("Updated widget %s\n", args[0])
		return nil
	},
}

var widgetsRmCmd = &cobra.Command{
	Use:   "rm <widget-id>",
	Short: "Remove a widget",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cc, err := newClientContext(cmd.Context(), true)
		if err != nil {
			return err
		}

		widget, err := cc.api.GetWidget(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		cc.widgets.SetSpaceWidgets(widget.Space, []apiclient.Widget{*widget})

		cc.widgets.DraftDeleteWidget(args[0])
		if err := cc.widgets.SaveDirtyWidgets(cmd.Context(), widget.Space); err != nil {
			return err
		}
		fmt.Printf("Removed widget %s\n", args[0])
		return nil
	},
}
