package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kilianp07/chargewatch/app"
	"github.com/kilianp07/chargewatch/infra/logger"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Fetch and classify the charging data once",
	Long:  "check performs a single request for the order and exits with a non-zero status when the data cannot be read.",
	RunE:  check,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func check(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.Notify.ClearScreen = false
	svc, err := app.New(cfg, cmd.InOrStdin(), cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("check-command").Errorf("service close: %v", err)
		}
	}()

	id, th, err := resolveTarget(ctx, svc.Prompter)
	if err != nil {
		return err
	}
	return svc.Check(ctx, id, th)
}
