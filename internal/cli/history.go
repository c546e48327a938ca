package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/fhirbench/fhirbench/internal/config"
	"github.com/fhirbench/fhirbench/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Limit int
}

// HistoryEntry is one recorded run in history output.
type HistoryEntry struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Language  string    `json:"language"`
	CreatedAt time.Time `json:"created_at"`
	Total     int       `json:"total"`
	Passed    int       `json:"passed"`
	Failed    int       `json:"failed"`
	Errors    int       `json:"errors"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded runs",
		Long: `List recent runs from the history database, newest first.

History recording is enabled by the history_db config field; reports remain
the authoritative run output, history is the trail across runs.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum runs to list")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load configuration", err)
	}
	if cfg.HistoryDB == "" {
		return NewExitError(ExitCommandError, "history is disabled (history_db is empty)")
	}

	st, err := store.Open(cfg.HistoryDB)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open history store", err)
	}
	defer st.Close()

	records, err := st.ListRuns(cmd.Context(), opts.Limit)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list runs", err)
	}

	entries := make([]HistoryEntry, 0, len(records))
	for _, rec := range records {
		entries = append(entries, HistoryEntry{
			ID:        rec.ID,
			Kind:      rec.Kind,
			Language:  rec.Language,
			CreatedAt: rec.CreatedAt,
			Total:     rec.Summary.Total,
			Passed:    rec.Summary.Passed,
			Failed:    rec.Summary.Failed,
			Errors:    rec.Summary.Errors,
		})
	}

	w := cmd.OutOrStdout()
	if opts.Format == "json" {
		return writeJSON(w, CLIResponse{Status: "ok", Data: entries})
	}

	if len(entries) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return nil
	}
	for _, e := range entries {
		fmt.Fprintf(w, "%s  %-9s %-6s total=%d passed=%d failed=%d errors=%d  %s\n",
			e.CreatedAt.Format(time.RFC3339), e.Kind, e.Language,
			e.Total, e.Passed, e.Failed, e.Errors, e.ID)
	}
	return nil
}
