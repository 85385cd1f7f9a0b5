package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/abhisek/lungchat/internal/interview"
	"github.com/abhisek/lungchat/internal/store"
)

var askCmd = &cobra.Command{
	Use:   "ask",
	Short: "Run the questionnaire in line mode",
	Long: "Ask each question on stdout and read answers from stdin, one per line. " +
		"Choices may be given by name or number. --answers scripts the whole run.",
	RunE: func(cmd *cobra.Command, args []string) error {
		answers, _ := cmd.Flags().GetString("answers")
		asJSON, _ := cmd.Flags().GetBool("json")

		s, err := newSession(cmd, false)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		opts := askOptions{
			JSON:        asJSON,
			Interactive: answers == "" && term.IsTerminal(int(os.Stdin.Fd())),
		}
		if answers != "" {
			opts.Scripted = splitAnswers(answers)
		}
		return runAsk(ctx, s, cmd.InOrStdin(), cmd.OutOrStdout(), opts)
	},
}

func init() {
	askCmd.Flags().String("answers", "", "Comma-separated answers in question order")
	askCmd.Flags().Bool("json", false, "Print the final session snapshot as JSON")
}

type askOptions struct {
	Scripted    []string
	Interactive bool
	JSON        bool
}

// runAsk drives one interview over in/out and stores the outcome.
func runAsk(ctx context.Context, s *session, in io.Reader, out io.Writer, opts askOptions) error {
	ctrl, err := interview.New(s.deps.Questions, s.deps.Predictor,
		interview.WithRules(s.deps.Rules),
		interview.WithLogger(s.logger),
	)
	if err != nil {
		return err
	}

	if opts.Scripted != nil && len(opts.Scripted) != len(s.deps.Questions) {
		return fmt.Errorf("--answers has %d values, questionnaire has %d questions", len(opts.Scripted), len(s.deps.Questions))
	}

	pr := newLinePrinter(out, opts.Interactive && !opts.JSON)
	scanner := bufio.NewScanner(in)
	scripted := opts.Scripted

	for {
		q, ok := ctrl.Current()
		if !ok {
			break
		}
		pr.question(q)

		var raw string
		switch {
		case len(scripted) > 0:
			raw, scripted = scripted[0], scripted[1:]
			pr.echo(raw)
		case scanner.Scan():
			raw = strings.TrimSpace(scanner.Text())
		default:
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("read answer: %w", err)
			}
			return errors.New("input ended before the questionnaire was complete")
		}

		answer, err := normalizeAnswer(q, raw)
		if err != nil {
			if opts.Scripted != nil {
				return fmt.Errorf("%s: %w", q.Key, err)
			}
			pr.warn(err.Error())
			continue
		}
		if err := ctrl.SubmitAnswer(ctx, answer); err != nil {
			return err
		}
	}

	pr.waiting()
	<-ctrl.Done()
	snap := ctrl.Snapshot()

	if snap.Phase.Terminal() {
		s.metrics.ObserveAssessment(snap.Phase)
		if err := saveSnapshot(ctx, s, snap); err != nil {
			s.logger.Warn("save assessment", zap.Error(err))
		}
	}

	if opts.JSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	}
	if !snap.Phase.Terminal() {
		return errors.New("cancelled while waiting for the prediction")
	}
	return pr.result(snap)
}

func saveSnapshot(ctx context.Context, s *session, snap interview.Snapshot) error {
	a, err := store.NewAssessment(snap, s.deps.PredictorName)
	if err != nil {
		return err
	}
	// Save even if the user interrupted after the result arrived.
	return s.deps.Assessments.Save(context.WithoutCancel(ctx), a)
}

func splitAnswers(s string) []string {
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

// normalizeAnswer maps a typed answer onto what the TUI would have
// submitted: the option label for choices, a bounded integer for numbers.
func normalizeAnswer(q interview.QuestionSpec, raw string) (string, error) {
	if raw == "" {
		return "", errors.New("please enter an answer")
	}
	switch q.Kind {
	case interview.KindChoice:
		if n, err := strconv.Atoi(raw); err == nil && n >= 1 && n <= len(q.Options) {
			return q.Options[n-1], nil
		}
		for _, opt := range q.Options {
			if strings.EqualFold(opt, raw) {
				return opt, nil
			}
		}
		return "", fmt.Errorf("choose one of: %s", strings.Join(q.Options, ", "))
	default:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return "", errors.New("not a number")
		}
		if n < q.MinValue() {
			return "", fmt.Errorf("must be at least %d", q.MinValue())
		}
		return raw, nil
	}
}

// linePrinter writes the line-mode conversation. Prompts and colour are
// only emitted for an interactive terminal.
type linePrinter struct {
	w           io.Writer
	interactive bool
	profile     termenv.Profile
}

func newLinePrinter(w io.Writer, interactive bool) *linePrinter {
	profile := termenv.Ascii
	if interactive {
		profile = termenv.ColorProfile()
	}
	return &linePrinter{w: w, interactive: interactive, profile: profile}
}

func (p *linePrinter) color(s, hex string) termenv.Style {
	return termenv.String(s).Foreground(p.profile.Color(hex))
}

func (p *linePrinter) question(q interview.QuestionSpec) {
	if !p.interactive {
		return
	}
	fmt.Fprintln(p.w, p.color("bot", "#94A3B8"), p.color(q.Label, "#38BDF8").Bold())
	if q.Kind == interview.KindChoice {
		opts := make([]string, len(q.Options))
		for i, o := range q.Options {
			opts[i] = fmt.Sprintf("%d) %s", i+1, o)
		}
		fmt.Fprintln(p.w, "    "+strings.Join(opts, "   "))
	}
	fmt.Fprint(p.w, p.color("> ", "#2DD4BF"))
}

func (p *linePrinter) echo(raw string) {
	if p.interactive {
		fmt.Fprintln(p.w, raw)
	}
}

func (p *linePrinter) warn(msg string) {
	if p.interactive {
		fmt.Fprintln(p.w, p.color("  "+msg, "#F87171"))
	}
}

func (p *linePrinter) waiting() {
	if p.interactive {
		fmt.Fprintln(p.w, p.color("Waiting for prediction...", "#94A3B8").Italic())
	}
}

func (p *linePrinter) result(snap interview.Snapshot) error {
	style := glamour.WithStandardStyle("notty")
	if p.interactive {
		style = glamour.WithAutoStyle()
	}
	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(80))
	if err != nil {
		return err
	}
	out, err := r.Render(resultMarkdown(snap))
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(p.w, out)
	return err
}

func resultMarkdown(snap interview.Snapshot) string {
	if !snap.HasPrediction {
		return "## No prediction\n\nThe prediction service did not return a result. " +
			"Your answers were saved; try again later.\n"
	}
	return fmt.Sprintf("## Prediction: %s\n\n%s\n", snap.Prediction, snap.Guidance)
}
