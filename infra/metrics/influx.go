package metrics

import (
	"context"
	"math"
	"net/http"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/kilianp07/chargewatch/core/events"
	coremetrics "github.com/kilianp07/chargewatch/core/metrics"
	"github.com/kilianp07/chargewatch/core/model"
	"github.com/kilianp07/chargewatch/infra/logger"
)

// InfluxSink writes charging readings to an InfluxDB instance using the
// official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback pings the InfluxDB instance and returns a
// NopSink if the health check fails.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.MetricsSink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordTick writes one point per successful tick. Abnormal ticks are
// written as a failure point carrying the failure kind.
func (s *InfluxSink) RecordTick(ev events.TickEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if ev.Abnormal() || ev.Reading == nil {
		p := write.NewPointWithMeasurement("charging_fetch_failure").
			AddTag("session_id", ev.SessionID).
			AddTag("kind", ev.Outcome()).
			AddField("duration_ms", round3(ev.Duration.Seconds()*1000)).
			SetTime(ev.Time)
		return s.writeAPI.WritePoint(ctx, p)
	}
	return s.writeAPI.WritePoint(ctx, readingPoint(ev))
}

func readingPoint(ev events.TickEvent) *write.Point {
	r := ev.Reading
	p := write.NewPointWithMeasurement("charging_reading").
		AddTag("session_id", ev.SessionID).
		AddTag("alert", ev.Alert.String())
	if r.StationName.Present {
		p = p.AddTag("station", r.StationName.Value)
	}
	if r.DeviceID.Present {
		p = p.AddTag("device_id", r.DeviceID.Value)
	}
	if r.Power != nil {
		p = p.AddField("power_w", round3(*r.Power))
	}
	p = p.AddField("threshold_w", round3(ev.Threshold))
	addMoney(p, "pay_money", r.PayMoney)
	addMoney(p, "safe_server_money", r.SafeServerMoney)
	addMoney(p, "time_server_money", r.TimeServerMoney)
	return p.SetTime(ev.Time)
}

func addMoney(p *write.Point, field string, m model.Money) {
	if d, ok := m.Decimal(); ok {
		f, _ := d.Round(2).Float64()
		p.AddField(field, f)
	}
}

// RecordSessionChange marks the order switch on the time series.
func (s *InfluxSink) RecordSessionChange(ev events.SessionEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("charging_session_change").
		AddTag("session_id", ev.SessionID).
		AddField("previous_id", ev.PreviousID).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// Close releases the underlying client.
func (s *InfluxSink) Close() error {
	s.client.Close()
	return nil
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
