package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/lungchat/internal/export"
	"github.com/abhisek/lungchat/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect and export past assessments",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent assessments",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		list, err := s.Assessments().List(context.Background(), store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("list assessments: %w", err)
		}
		if len(list) == 0 {
			fmt.Println("No assessments recorded yet.")
			return nil
		}

		fmt.Printf("%-5s  %-19s  %-8s  %-10s  %-20s  %s\n",
			"ID", "Started", "Answers", "Phase", "Predictor", "Result")
		fmt.Println(strings.Repeat("─", 80))
		for _, a := range list {
			fields, _ := a.Fields()
			fmt.Printf("%-5d  %-19s  %-8d  %-10s  %-20s  %s\n",
				a.ID,
				a.StartedAt.Local().Format("2006-01-02 15:04:05"),
				len(fields),
				a.Phase,
				truncate(a.Predictor, 20),
				resultLabel(a),
			)
		}
		return nil
	},
}

var historyViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show answers and transcript of one assessment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid ID %q: %w", args[0], err)
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		a, err := s.Assessments().Get(context.Background(), id)
		if err != nil {
			return fmt.Errorf("get assessment: %w", err)
		}
		if a == nil {
			return fmt.Errorf("assessment %d not found", id)
		}
		return printAssessment(a)
	},
}

var historyExportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Export all assessments to .xlsx or .json",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		write, err := export.WriterFor(path)
		if err != nil {
			return err
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		list, err := s.Assessments().List(context.Background(), store.QueryOpts{})
		if err != nil {
			return fmt.Errorf("list assessments: %w", err)
		}

		f, err := os.Create(path)
		if err != nil {
			return err
		}
		if err := write(f, list); err != nil {
			f.Close()
			return fmt.Errorf("export: %w", err)
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Printf("Exported %d assessments to %s\n", len(list), path)
		return nil
	},
}

func resultLabel(a store.Assessment) string {
	if a.HasPrediction {
		return a.Prediction
	}
	if a.Phase == "stalled" {
		return "(no result)"
	}
	return "-"
}

func printAssessment(a *store.Assessment) error {
	sep := strings.Repeat("─", 60)

	fmt.Printf("ID:         %d\n", a.ID)
	fmt.Printf("Session:    %s\n", a.SessionID)
	fmt.Printf("Started:    %s\n", a.StartedAt.Local().Format("2006-01-02 15:04:05"))
	if !a.FinishedAt.IsZero() {
		fmt.Printf("Finished:   %s\n", a.FinishedAt.Local().Format("2006-01-02 15:04:05"))
	}
	fmt.Printf("Phase:      %s\n", a.Phase)
	fmt.Printf("Predictor:  %s\n", a.Predictor)
	fmt.Printf("Prediction: %s\n", resultLabel(*a))
	if a.ErrorMessage != "" {
		fmt.Printf("Error:      %s\n", a.ErrorMessage)
	}

	fields, err := a.Fields()
	if err != nil {
		return err
	}
	fmt.Println()
	fmt.Println(sep)
	fmt.Println("ANSWERS")
	fmt.Println(sep)
	for _, f := range fields {
		fmt.Printf("%-22s %s\n", f.Key, string(f.Value))
	}

	entries, err := a.TranscriptEntries()
	if err != nil {
		return err
	}
	fmt.Println(sep)
	fmt.Println("TRANSCRIPT")
	fmt.Println(sep)
	for _, e := range entries {
		fmt.Printf("%-5s %s\n", e.Speaker, e.Text)
	}

	if a.Guidance != "" {
		fmt.Println(sep)
		fmt.Println(a.Guidance)
	}
	return nil
}

func init() {
	historyListCmd.Flags().IntP("limit", "n", 20, "Number of assessments to show")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyViewCmd)
	historyCmd.AddCommand(historyExportCmd)
}
