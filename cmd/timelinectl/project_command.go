package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/zeusync/timeline/internal/core/composition"
	"github.com/zeusync/timeline/internal/core/timing"
)

func newProjectCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Work with saved composition files",
	}
	cmd.AddCommand(newProjectInspectCommand(ctx))
	return cmd
}

func newProjectInspectCommand(ctx *commandContext) *cobra.Command {
	var (
		videoDuration float64
		at            float64
		paint         bool
	)

	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Summarize a composition JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open project: %w", err)
			}
			defer f.Close()

			session, closeFn, err := ctx.openSession(cmd.Context(), nil)
			if err != nil {
				return err
			}
			defer closeFn()

			dropped, err := session.LoadProject(f, timing.Playhead{Duration: videoDuration})
			if err != nil {
				return err
			}

			comp := session.Composition()
			state := comp.State()
			out := cmd.OutOrStdout()

			fmt.Fprintf(out, "Layout:      %s\n", state.Layout)
			fmt.Fprintf(out, "Fingerprint: %016x\n", comp.Fingerprint())
			if dropped > 0 {
				fmt.Fprintf(out, "Dropped:     %d duplicate entities\n", dropped)
			}
			fmt.Fprintln(out, renderCollectionTable(state))

			if paint {
				fmt.Fprintf(out, "Paint order at %ss:\n", formatSeconds(at))
				fmt.Fprintln(out, renderPaintTable(comp.PaintOrder(at)))
			}
			return nil
		},
	}
	cmd.Flags().Float64Var(&videoDuration, "video-duration", 0, "Video duration used to clamp entities; 0 is unbounded")
	cmd.Flags().Float64Var(&at, "at", 0, "Time for --paint")
	cmd.Flags().BoolVar(&paint, "paint", false, "Also print the paint order at --at")
	return cmd
}

func renderCollectionTable(state composition.State) string {
	counts := []struct {
		name string
		n    int
	}{
		{"segments", len(state.Segments)},
		{"texts", len(state.Texts)},
		{"shapes", len(state.Shapes)},
		{"images", len(state.Images)},
		{"gradients", len(state.Gradients)},
		{"effects", len(state.Effects)},
	}
	rows := make([][]string, 0, len(counts)+1)
	for _, c := range counts {
		rows = append(rows, []string{c.name, strconv.Itoa(c.n)})
	}
	rows = append(rows, []string{"total", strconv.Itoa(state.Len())})
	return renderTable([]string{"Collection", "Count"}, rows, []columnAlignment{alignLeft, alignRight})
}

func renderPaintTable(items []composition.Paint) string {
	rows := make([][]string, 0, len(items))
	for i, p := range items {
		b := p.Entity.Meta()
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			string(p.Kind),
			shortID(p.ID),
			strconv.Itoa(p.Layer),
			strconv.FormatUint(p.Seq, 10),
			formatSeconds(b.StartTime),
			formatSeconds(b.EndTime),
		})
	}
	return renderTable(
		[]string{"#", "Kind", "ID", "Layer", "Seq", "Start", "End"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight},
	)
}
