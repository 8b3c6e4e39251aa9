package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"stagehand/internal/compose"
	"stagehand/internal/config"
	"stagehand/internal/gitdiff"
	"stagehand/internal/interview"
	"stagehand/internal/stage"
	"stagehand/internal/workflow"
)

// newStageCommands builds one subcommand per pipeline stage, so each stage
// keeps its short slash-command feel: `stagehand tdd 1-user-auth`.
func newStageCommands(ctx *commandContext) []*cobra.Command {
	commands := make([]*cobra.Command, 0, len(stage.All()))
	for _, st := range stage.All() {
		commands = append(commands, newStageCommand(ctx, st))
	}
	return commands
}

func newStageCommand(ctx *commandContext, st stage.Stage) *cobra.Command {
	var fromFile string
	var fromStdin bool
	var edit bool
	var answers []string
	var diffScope string
	var diffBase string

	short := fmt.Sprintf("Run the %s stage", st.DisplayName())
	if !st.PersistsArtifact() {
		short += " (acts on code, writes no document)"
	}

	cmd := &cobra.Command{
		Use:   string(st.Name) + " <seq>-<slug>",
		Short: short,
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			feature, err := parseFeatureArgs(args)
			if err != nil {
				return err
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			gate, err := buildGate(cmd, cfg, st, answers)
			if err != nil {
				return err
			}
			runner, err := ctx.runner(gate)
			if err != nil {
				return err
			}

			producer, err := buildProducer(cmd, cfg, st, producerFlags{
				fromFile:  fromFile,
				fromStdin: fromStdin,
				edit:      edit,
				diffScope: diffScope,
				diffBase:  diffBase,
			})
			if err != nil {
				return err
			}

			result, err := runner.RunStage(cmd.Context(), feature, st.Name, producer)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if result.Artifact != nil {
				fmt.Fprintf(out, "Wrote %s\n", result.Artifact.Path)
			} else {
				fmt.Fprintf(out, "%s completed for %s; no document written\n", st.DisplayName(), feature.Ref())
				if st.Name == stage.CodeReview {
					fmt.Fprintln(out, "--- diff under review ---")
					fmt.Fprintln(out, strings.TrimRight(result.Content, "\n"))
				}
			}
			if result.Next != nil {
				fmt.Fprintf(out, "Next: stagehand %s %s\n", result.Next.Name, feature.Ref())
			} else {
				fmt.Fprintf(out, "Pipeline complete for %s\n", feature.Ref())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&fromFile, "from", "", "Read the document body from a file")
	cmd.Flags().BoolVar(&fromStdin, "stdin", false, "Read the document body from stdin")
	if st.PersistsArtifact() {
		cmd.Flags().BoolVar(&edit, "edit", false, "Open the scaffold in an editor and persist the result")
	}
	if st.UsesInterview() {
		cmd.Flags().StringArrayVar(&answers, "answer", nil, "Answer an interview question as id=value (repeatable)")
	}
	if st.Name == stage.CodeReview {
		cmd.Flags().StringVar(&diffScope, "scope", string(gitdiff.ScopeWorking), "Diff scope: working, staged, or branch")
		cmd.Flags().StringVar(&diffBase, "base", "", "Base branch for --scope branch (defaults to review.base)")
	}

	return cmd
}

type producerFlags struct {
	fromFile  string
	fromStdin bool
	edit      bool
	diffScope string
	diffBase  string
}

func buildProducer(cmd *cobra.Command, cfg *config.Config, st stage.Stage, flags producerFlags) (workflow.ContentProducer, error) {
	sources := 0
	for _, on := range []bool{flags.fromFile != "", flags.fromStdin, flags.edit} {
		if on {
			sources++
		}
	}
	if sources > 1 {
		return nil, fmt.Errorf("--from, --stdin, and --edit are mutually exclusive")
	}

	switch {
	case flags.fromFile != "":
		return compose.FromFile(flags.fromFile), nil
	case flags.fromStdin:
		return compose.FromReader(cmd.InOrStdin()), nil
	case flags.edit:
		return compose.Editor(cfg.Compose.Editor, st), nil
	}

	if st.Name == stage.CodeReview {
		scope, err := gitdiff.ParseScope(flags.diffScope)
		if err != nil {
			return nil, err
		}
		base := flags.diffBase
		if base == "" {
			base = cfg.Review.Base
		}
		return gitdiff.Producer("", scope, base), nil
	}
	if st.PersistsArtifact() {
		return compose.Scaffold(st), nil
	}
	return compose.FromString(handOffText(st)), nil
}

// handOffText is what code-acting stages report instead of a document.
func handOffText(st stage.Stage) string {
	switch st.Name {
	case stage.Coder:
		return "Implement the tasks from the breakdown and engineering documents, keeping the test plan green."
	case stage.QA:
		return "Exercise the implementation against the feature document and file anything that deviates."
	default:
		return string(st.Name) + " ready"
	}
}

func buildGate(cmd *cobra.Command, cfg *config.Config, st stage.Stage, answerFlags []string) (interview.Gate, error) {
	if !st.UsesInterview() {
		return nil, nil
	}
	if len(answerFlags) > 0 {
		return scriptedGate(st, answerFlags)
	}
	var opts []interview.TerminalOption
	if cfg.Interview.TimeoutSeconds > 0 {
		opts = append(opts, interview.WithTimeout(secondsToDuration(cfg.Interview.TimeoutSeconds)))
	}
	return interview.NewTerminalGate(cmd.InOrStdin(), cmd.OutOrStdout(), opts...), nil
}

// scriptedGate turns --answer id=value flags into a non-blocking gate.
// A value matching one of the question's options selects it; anything else
// becomes a free-form Other answer, mirroring the interactive gate.
func scriptedGate(st stage.Stage, answerFlags []string) (*interview.ScriptedGate, error) {
	gate := interview.NewScriptedGate()
	for _, raw := range answerFlags {
		id, value, found := strings.Cut(raw, "=")
		if !found || strings.TrimSpace(id) == "" {
			return nil, fmt.Errorf("--answer wants id=value, got %q", raw)
		}
		id = strings.TrimSpace(id)
		value = strings.TrimSpace(value)

		question, ok := questionByID(st, id)
		if !ok {
			return nil, fmt.Errorf("stage %s has no interview question %q", st.Name, id)
		}
		answer := interview.Answer{Option: interview.OptionOther, Text: value}
		for _, option := range question.Options {
			if strings.EqualFold(value, option) {
				answer = interview.Answer{Option: option}
				break
			}
		}
		gate.Provide(id, answer)
	}
	return gate, nil
}

func questionByID(st stage.Stage, id string) (interview.Question, bool) {
	for _, q := range st.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return interview.Question{}, false
}
