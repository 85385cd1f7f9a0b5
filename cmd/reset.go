package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete stored assessments and LLM request logs",
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			fmt.Print("Delete all assessment history? [y/N] ")
			line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
			if a := strings.ToLower(strings.TrimSpace(line)); a != "y" && a != "yes" {
				fmt.Println("Aborted.")
				return nil
			}
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := context.Background()
		assessments, err := s.Assessments().DeleteAll(ctx)
		if err != nil {
			return fmt.Errorf("delete assessments: %w", err)
		}
		requests, err := s.LLMRequests().DeleteAll(ctx)
		if err != nil {
			return fmt.Errorf("delete llm requests: %w", err)
		}
		fmt.Printf("Deleted %d assessments and %d LLM requests.\n", assessments, requests)
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
}
