// Package app wires configuration, the charging API client, notifiers and
// metrics into a runnable monitor.
package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/chargewatch/config"
	coremetrics "github.com/kilianp07/chargewatch/core/metrics"
	coremon "github.com/kilianp07/chargewatch/core/monitoring"
	"github.com/kilianp07/chargewatch/core/monitor"
	"github.com/kilianp07/chargewatch/core/session"
	"github.com/kilianp07/chargewatch/infra/chargeapi"
	"github.com/kilianp07/chargewatch/infra/logger"
	"github.com/kilianp07/chargewatch/infra/metrics"
	"github.com/kilianp07/chargewatch/infra/monitoring"
	"github.com/kilianp07/chargewatch/infra/mqtt"
	"github.com/kilianp07/chargewatch/infra/notify"
	"github.com/kilianp07/chargewatch/internal/prompt"
)

// Service runs the monitor for one order at a time.
type Service struct {
	RunID    string
	Prompter *prompt.Prompter

	cfg       *config.Config
	fetcher   monitor.Fetcher
	display   *notify.Display
	notifier  monitor.Notifier
	sink      coremetrics.MetricsSink
	mqtt      *mqtt.PahoClient
	logCloser io.Closer
	log       logger.Logger
	startWait time.Duration
}

// New creates a Service from the configuration. Prompts are read from in and
// the status panel is written to out.
func New(cfg *config.Config, in io.Reader, out io.Writer) (*Service, error) {
	closer, err := logger.Configure(cfg.Logging.Options())
	if err != nil {
		return nil, err
	}
	runID := uuid.NewString()
	logg := logger.New("service").With(map[string]any{"run_id": runID})

	mon, err := monitoring.NewSentryMonitor(cfg.Sentry)
	if err != nil {
		logg.Errorf("sentry init: %v", err)
	} else {
		coremon.Init(mon)
	}

	alerts, err := notify.SelectAlertSink(cfg.Notify.Mode, out)
	if err != nil {
		_ = closer.Close()
		return nil, err
	}
	display := notify.NewDisplay(out, alerts, notify.DisplayOptions{
		ClearScreen: cfg.Notify.ClearScreen,
		Color:       cfg.Notify.Color,
	})

	sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		_ = closer.Close()
		return nil, fmt.Errorf("metrics sink: %w", err)
	}

	svc := &Service{
		RunID:     runID,
		Prompter:  prompt.New(in, out),
		cfg:       cfg,
		fetcher:   chargeapi.New(cfg.API),
		display:   display,
		notifier:  display,
		sink:      sink,
		logCloser: closer,
		log:       logg,
		startWait: monitor.StartDelay,
	}
	if cfg.MQTT.Enabled() {
		client, err := mqtt.NewPahoClient(cfg.MQTT)
		if err != nil {
			_ = svc.Close()
			return nil, fmt.Errorf("mqtt client: %w", err)
		}
		svc.mqtt = client
		svc.notifier = notify.Multi{display, notify.NewMQTTNotifier(client, cfg.MQTT.Topic)}
	}
	return svc, nil
}

func (s *Service) newMonitor() *monitor.Monitor {
	return monitor.New(s.fetcher, s.notifier, monitor.Options{
		RunID:  s.RunID,
		Sink:   s.sink,
		Logger: logger.New("monitor").With(map[string]any{"run_id": s.RunID}),
	})
}

// Run monitors order id until ctx is canceled. A final summary is always
// printed; the returned error is non-nil only when a new order number could
// not be read.
func (s *Service) Run(ctx context.Context, id string, threshold float64) error {
	if addr := s.cfg.Metrics.PrometheusAddr; addr != "" {
		go func() {
			if err := metrics.StartPromServer(ctx, addr); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	s.display.Banner(id, threshold)
	t := time.NewTimer(s.startWait)
	select {
	case <-ctx.Done():
	case <-t.C:
	}
	t.Stop()

	s.log.Infof("monitoring order %s with threshold %gW", id, threshold)
	return monitor.NewScheduler(s.newMonitor(), s.Prompter).Run(ctx, session.New(id, threshold))
}

// Check performs a single fetch-and-classify cycle and reports an error
// when the order could not be read.
func (s *Service) Check(ctx context.Context, id string, threshold float64) error {
	if !s.newMonitor().Tick(ctx, session.New(id, threshold)) {
		return fmt.Errorf("order %s: charging data unavailable", id)
	}
	return nil
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	if s.mqtt != nil {
		s.mqtt.Disconnect()
	}
	var err error
	if c, ok := s.sink.(io.Closer); ok {
		err = c.Close()
	}
	coremon.Flush(2 * time.Second)
	if s.logCloser != nil {
		if cerr := s.logCloser.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
