package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/agronomy-cli/internal/model"
	"github.com/sells-group/agronomy-cli/internal/store"
)

var feedbackCmd = &cobra.Command{
	Use:   "feedback",
	Short: "Record and inspect farmer feedback",
}

func openStore(cmd *cobra.Command) (store.Store, error) {
	if err := cfg.Validate("cli"); err != nil {
		return nil, err
	}
	return store.Open(cmd.Context(), store.Config{Driver: cfg.Store.Driver, DatabaseURL: cfg.Store.DatabaseURL})
}

// -- feedback list --

var feedbackListCmd = &cobra.Command{
	Use:   "list",
	Short: "List feedback, newest first",
	RunE: func(cmd *cobra.Command, _ []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		limit, _ := cmd.Flags().GetInt("limit")
		items, err := st.ListFeedback(cmd.Context(), limit)
		if err != nil {
			return eris.Wrap(err, "feedback list")
		}

		if len(items) == 0 {
			fmt.Fprintln(os.Stderr, "No feedback found.")
			return nil
		}
		table, _ := cmd.Flags().GetBool("table")
		if table {
			return printFeedbackTable(cmd.OutOrStdout(), items)
		}
		return printResult(cmd.OutOrStdout(), outputFormat, items)
	},
}

func printFeedbackTable(out io.Writer, items []model.Feedback) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCREATED\tCLIENT\tPAYLOAD")
	for _, fb := range items {
		payload := string(fb.Payload)
		if len(payload) > 60 {
			payload = payload[:57] + "..."
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", fb.ID, fb.CreatedAt.Format(time.RFC3339), fb.ClientIP, payload)
	}
	return w.Flush()
}

// -- feedback add --

var feedbackAddCmd = &cobra.Command{
	Use:   "add <json>",
	Short: "Record a feedback payload",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		payload := json.RawMessage(args[0])
		if !json.Valid(payload) {
			return eris.New("feedback add: payload must be valid JSON")
		}

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		fb, err := st.SaveFeedback(cmd.Context(), payload, "")
		if err != nil {
			return eris.Wrap(err, "feedback add")
		}
		return printResult(cmd.OutOrStdout(), outputFormat, fb)
	},
}

func init() {
	feedbackListCmd.Flags().Int("limit", store.DefaultFeedbackLimit, "maximum entries")
	feedbackListCmd.Flags().Bool("table", false, "print a table instead of --format output")

	feedbackCmd.AddCommand(feedbackListCmd, feedbackAddCmd)
	rootCmd.AddCommand(feedbackCmd)
}
