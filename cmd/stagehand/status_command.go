package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"stagehand/internal/stage"
)

// newStatusCommand reconstructs pipeline state for one feature purely from
// artifact existence checks; there is no other state to consult.
func newStatusCommand(ctx *commandContext) *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "status <seq>-<slug>",
		Short: "Show which pipeline documents exist for a feature",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			feature, err := parseFeatureArgs(args)
			if err != nil {
				return err
			}
			store, err := ctx.store()
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(stage.All()))
			for _, st := range stage.All() {
				if !st.PersistsArtifact() {
					rows = append(rows, []string{st.DisplayName(), "(acts on code)", "-"})
					continue
				}
				path, err := store.ResolvePath(feature, st)
				if err != nil {
					return err
				}
				exists, err := store.Exists(feature, st)
				if err != nil {
					return err
				}
				rows = append(rows, []string{st.DisplayName(), filepath.Base(path), yesNo(exists)})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Feature %s (docs in %s)\n", feature.Ref(), store.Root())
			if plain || !isatty.IsTerminal(os.Stdout.Fd()) {
				for _, row := range rows {
					fmt.Fprintf(out, "%-12s %-30s %s\n", row[0], row[1], row[2])
				}
			} else {
				fmt.Fprintln(out, renderTable([]string{"Stage", "Document", "Present"}, rows))
			}

			runner, err := ctx.runner(nil)
			if err != nil {
				return err
			}
			if next, ok, err := runner.NextRunnable(feature); err != nil {
				return err
			} else if ok {
				fmt.Fprintf(out, "Next: stagehand %s %s\n", next.Name, feature.Ref())
			} else {
				fmt.Fprintf(out, "All pipeline documents exist for %s\n", feature.Ref())
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "Force plain output even on a terminal")
	return cmd
}

// newNextCommand prints only the hand-off prompt, for host agents that
// drive the pipeline and want a single line to act on.
func newNextCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "next <seq>-<slug>",
		Short: "Print the next runnable stage for a feature",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			feature, err := parseFeatureArgs(args)
			if err != nil {
				return err
			}
			runner, err := ctx.runner(nil)
			if err != nil {
				return err
			}
			next, ok, err := runner.NextRunnable(feature)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !ok {
				fmt.Fprintf(out, "All pipeline documents exist for %s\n", feature.Ref())
				return nil
			}
			fmt.Fprintf(out, "stagehand %s %s\n", next.Name, feature.Ref())
			return nil
		},
	}
}
