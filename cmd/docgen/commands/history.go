package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/soasis/docgen/internal/config"
	"github.com/soasis/docgen/internal/state"
)

// HistoryCmd implements the 'history' command: list recent build records
// from the state store.
type HistoryCmd struct {
	Limit int `short:"n" help:"Maximum number of records to show" default:"20"`
}

func (h *HistoryCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	configureLogging(cfg, root.Verbose)

	if cfg.State == nil || cfg.State.Path == "" {
		return fmt.Errorf("no state store configured; set state.path in %s", root.Config)
	}

	store, err := state.Open(cfg.State.Path)
	if err != nil {
		return fmt.Errorf("open state store: %w", err)
	}
	defer store.Close()

	records, err := store.Recent(context.Background(), h.Limit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("No builds recorded yet")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "WHEN\tRELEASE\tOUTCOME\tDURATION\tBUILD ID")
	for _, rec := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%dms\t%s\n",
			rec.CreatedAt.Format("2006-01-02 15:04:05"),
			rec.Release, rec.Outcome, rec.DurationMS, rec.ID)
	}
	return w.Flush()
}
