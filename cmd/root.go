package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kilianp07/chargewatch/app"
	"github.com/kilianp07/chargewatch/config"
	"github.com/kilianp07/chargewatch/infra/logger"
	"github.com/kilianp07/chargewatch/internal/prompt"
)

var (
	cfgPath    string
	cid        string
	threshold  string
	notifyMode string
)

var rootCmd = &cobra.Command{
	Use:   "chargewatch",
	Short: "Live monitor for a charging order",
	Long: "chargewatch polls the charging data of an order every few seconds and warns when the\n" +
		"power drops below a threshold, jumps suddenly or falls to 0W.",
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "configuration file (YAML or JSON)")
	rootCmd.PersistentFlags().StringVar(&cid, "cid", "", "order number to monitor (prompted when empty)")
	rootCmd.PersistentFlags().StringVar(&threshold, "threshold", "", "minimum power threshold in W, 0 detects completion (prompted when empty)")
	rootCmd.PersistentFlags().StringVar(&notifyMode, "notify", "", "alert mode: auto, audible or text")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if notifyMode != "" {
		cfg.Notify.Mode = notifyMode
		if err := cfg.Notify.Validate(); err != nil {
			return nil, fmt.Errorf("--notify: %w", err)
		}
	}
	return cfg, nil
}

// resolveTarget returns the order number and threshold from flags, asking for
// whatever is missing.
func resolveTarget(ctx context.Context, p *prompt.Prompter) (string, float64, error) {
	id := cid
	var err error
	if id != "" {
		if id, err = prompt.ParseSessionID(id); err != nil {
			return "", 0, fmt.Errorf("--cid: %w", err)
		}
	} else if id, err = p.SessionID(ctx); err != nil {
		return "", 0, err
	}

	var th float64
	if threshold != "" {
		if th, err = prompt.ParseThreshold(threshold); err != nil {
			return "", 0, fmt.Errorf("--threshold: %w", err)
		}
	} else if th, err = p.Threshold(ctx); err != nil {
		return "", 0, err
	}
	return id, th, nil
}

func run(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	svc, err := app.New(cfg, cmd.InOrStdin(), cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("main").Errorf("service close: %v", err)
		}
	}()

	id, th, err := resolveTarget(ctx, svc.Prompter)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return err
	}
	return svc.Run(ctx, id, th)
}
