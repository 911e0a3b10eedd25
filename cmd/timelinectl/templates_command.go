package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zeusync/timeline/internal/core/composition"
	"github.com/zeusync/timeline/internal/core/layout"
	"github.com/zeusync/timeline/internal/core/models"
	"github.com/zeusync/timeline/internal/core/templates"
	"github.com/zeusync/timeline/internal/core/timing"
	"github.com/zeusync/timeline/internal/editor"
)

func newTemplatesCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "Browse and preview motion graphic templates",
	}
	cmd.AddCommand(newTemplatesListCommand(ctx))
	cmd.AddCommand(newTemplatesExpandCommand(ctx))
	cmd.AddCommand(newTemplatesRecentCommand(ctx))
	cmd.AddCommand(newTemplatesPinCommand(ctx))
	return cmd
}

func newTemplatesListCommand(ctx *commandContext) *cobra.Command {
	var category string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			session, closeFn, err := ctx.openSession(cmd.Context(), nil)
			if err != nil {
				return err
			}
			defer closeFn()

			list := session.Catalog().List(category)
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), list)
			}
			if len(list) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No templates found")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTemplateTable(list))
			return nil
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "Only list templates in this category")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Write JSON instead of a table")
	return cmd
}

func newTemplatesExpandCommand(ctx *commandContext) *cobra.Command {
	var (
		at            float64
		duration      float64
		videoDuration float64
		layoutName    string
		asJSON        bool
	)

	cmd := &cobra.Command{
		Use:   "expand <template-id>",
		Short: "Show the overlays a template produces at a playhead",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var target layout.Layout
			if layoutName != "" {
				l, ok := layout.Parse(layoutName)
				if !ok {
					return fmt.Errorf("unknown layout %q", layoutName)
				}
				target = l
			}

			session, closeFn, err := ctx.openSession(cmd.Context(), func(c *editor.Config) {
				if target != "" {
					c.Layout = target
				}
				if duration > 0 {
					c.DefaultDuration = duration
				}
			})
			if err != nil {
				return err
			}
			defer closeFn()

			ph := timing.Playhead{Duration: videoDuration, Time: at}
			if _, err := session.InsertTemplate(cmd.Context(), ph, args[0]); err != nil {
				return err
			}

			state := session.Composition().State()
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), state)
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderOverlayTable(state))
			return nil
		},
	}
	cmd.Flags().Float64Var(&at, "at", 0, "Anchor time in seconds")
	cmd.Flags().Float64Var(&duration, "duration", 0, "Default element duration in seconds")
	cmd.Flags().Float64Var(&videoDuration, "video-duration", 60, "Video duration in seconds; 0 is unbounded")
	cmd.Flags().StringVar(&layoutName, "layout", "", "Target layout (auto, standard, square, vertical, ...)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Write the resulting state as JSON")
	return cmd
}

func newTemplatesRecentCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "recent",
		Short: "List recently used templates, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			session, closeFn, err := ctx.openSession(cmd.Context(), nil)
			if err != nil {
				return err
			}
			defer closeFn()

			recent, err := session.RecentTemplates(cmd.Context())
			if err != nil {
				return err
			}
			if len(recent) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No recent templates")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTemplateTable(recent))
			return nil
		},
	}
}

func newTemplatesPinCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "pin <template-id>",
		Short: "Toggle a template pin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, closeFn, err := ctx.openSession(cmd.Context(), nil)
			if err != nil {
				return err
			}
			defer closeFn()

			pinned, err := session.ToggleTemplatePin(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			state := "unpinned"
			if pinned {
				state = "pinned"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", args[0], state)
			return nil
		},
	}
}

func renderTemplateTable(list []templates.Template) string {
	rows := make([][]string, 0, len(list))
	for _, tpl := range list {
		kinds := make([]string, 0, 2)
		for _, k := range tpl.Kinds() {
			kinds = append(kinds, string(k))
		}
		rows = append(rows, []string{
			tpl.ID,
			tpl.Name,
			tpl.Category,
			strconv.Itoa(len(tpl.Elements)),
			strings.Join(kinds, ", "),
		})
	}
	return renderTable(
		[]string{"ID", "Name", "Category", "Elements", "Kinds"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
	)
}

// renderOverlayTable lists shapes, then texts.
func renderOverlayTable(state composition.State) string {
	type row struct {
		base    models.Base
		kind    models.Kind
		y       float64
		content string
	}
	var items []row
	for _, o := range state.Shapes {
		items = append(items, row{o.Base, models.KindShape, o.Y, string(o.Shape) + " " + o.Color})
	}
	for _, o := range state.Texts {
		items = append(items, row{o.Base, models.KindText, o.Y, o.Text})
	}

	rows := make([][]string, 0, len(items))
	for _, it := range items {
		rows = append(rows, []string{
			string(it.kind),
			shortID(it.base.ID),
			formatSeconds(it.base.StartTime),
			formatSeconds(it.base.EndTime),
			strconv.Itoa(it.base.Track),
			strconv.Itoa(it.base.Layer),
			formatSeconds(it.y),
			it.content,
		})
	}
	return renderTable(
		[]string{"Kind", "ID", "Start", "End", "Track", "Layer", "Y", "Content"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight, alignLeft},
	)
}

func shortID(id models.ID) string {
	s := string(id)
	if len(s) > 8 {
		return s[:8]
	}
	return s
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
