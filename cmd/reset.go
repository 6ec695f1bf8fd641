package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/face-checkin/internal/config"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all enrolled identities and check-in history",
	Long: `Delete all enrolled identities and check-in history.

This cannot be undone. Use --force to skip the confirmation prompt.`,
	RunE: runReset,
}

func init() {
	rootCmd.AddCommand(resetCmd)

	resetCmd.Flags().Bool("force", false, "Skip the confirmation prompt")
}

func runReset(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	force := mustGetBool(cmd, "force")

	if !force {
		fmt.Print("This deletes ALL identities and history. Type 'yes' to continue: ")
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		if strings.TrimSpace(answer) != "yes" {
			fmt.Println("Aborted")
			return nil
		}
	}

	svc, st, err := buildService(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := svc.Reset(context.Background()); err != nil {
		return fmt.Errorf("resetting database: %w", err)
	}
	fmt.Println("Database reset")
	return nil
}
