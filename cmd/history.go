package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/face-checkin/internal/config"
	"github.com/kozaktomas/face-checkin/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List check-in history",
	Long: `List check-in history, newest first.

Examples:
  # Show all check-ins
  face-checkin history

  # Show check-ins for one person (diacritics-insensitive)
  face-checkin history --name "Tomáš Kozák"

  # JSON output for scripting
  face-checkin history --json`,
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().String("name", "", "Only show check-ins for this person")
	historyCmd.Flags().Bool("json", false, "Output as JSON")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	name := mustGetString(cmd, "name")
	jsonOutput := mustGetBool(cmd, "json")

	svc, st, err := buildService(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := context.Background()
	var records []store.CheckInRecord
	if name != "" {
		records, err = svc.HistoryForName(ctx, name)
	} else {
		records, err = svc.History(ctx)
	}
	if err != nil {
		return fmt.Errorf("listing history: %w", err)
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	if len(records) == 0 {
		fmt.Println("No check-ins recorded")
		return nil
	}
	for _, r := range records {
		fmt.Printf("%6d  %s  %s\n", r.ID, r.Time, r.Name)
	}
	fmt.Printf("\n%d check-ins\n", len(records))
	return nil
}
