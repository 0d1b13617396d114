package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/kilianp07/chargewatch/core/events"
	"github.com/kilianp07/chargewatch/core/fault"
	"github.com/kilianp07/chargewatch/core/model"
)

func newCaptureServer(bodies *[]string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		*bodies = append(*bodies, strings.TrimSpace(string(b)))
		w.WriteHeader(http.StatusNoContent)
	}))
}

func TestInfluxSink_RecordTick(t *testing.T) {
	var bodies []string
	srv := newCaptureServer(&bodies)
	defer srv.Close()

	sink := NewInfluxSink(srv.URL, "token", "org", "bucket")
	defer sink.Close()
	now := time.Now()
	power := 1200.0
	ev := events.TickEvent{
		Time:      now,
		SessionID: "12345",
		Threshold: 1500,
		Alert:     model.AlertLowPower,
		Reading: &model.Reading{
			StationName: model.NewText("North Gate"),
			DeviceID:    model.NewText("SN01"),
			PayMoney:    model.Money{Text: model.NewText("3.50")},
			Power:       &power,
		},
	}
	if err := sink.RecordTick(ev); err != nil {
		t.Fatalf("record error: %v", err)
	}
	p := write.NewPointWithMeasurement("charging_reading").
		AddTag("session_id", "12345").
		AddTag("alert", "low_power").
		AddTag("station", "North Gate").
		AddTag("device_id", "SN01").
		AddField("power_w", 1200.0).
		AddField("threshold_w", 1500.0).
		AddField("pay_money", 3.5).
		SetTime(now)
	exp := strings.TrimSpace(write.PointToLineProtocol(p, time.Nanosecond))
	if len(bodies) != 1 || bodies[0] != exp {
		t.Errorf("unexpected bodies: %#v", bodies)
	}
}

func TestInfluxSink_RecordTickFailure(t *testing.T) {
	var bodies []string
	srv := newCaptureServer(&bodies)
	defer srv.Close()

	sink := NewInfluxSink(srv.URL, "token", "org", "bucket")
	defer sink.Close()
	now := time.Now()
	ev := events.TickEvent{
		Time:      now,
		SessionID: "12345",
		Err:       fault.Parse(errors.New("unexpected EOF")),
		Duration:  250 * time.Millisecond,
	}
	if err := sink.RecordTick(ev); err != nil {
		t.Fatalf("record error: %v", err)
	}
	p := write.NewPointWithMeasurement("charging_fetch_failure").
		AddTag("session_id", "12345").
		AddTag("kind", "parse").
		AddField("duration_ms", 250.0).
		SetTime(now)
	exp := strings.TrimSpace(write.PointToLineProtocol(p, time.Nanosecond))
	if len(bodies) != 1 || bodies[0] != exp {
		t.Errorf("unexpected bodies: %#v", bodies)
	}
}

func TestInfluxSink_RecordSessionChange(t *testing.T) {
	var bodies []string
	srv := newCaptureServer(&bodies)
	defer srv.Close()

	sink := NewInfluxSink(srv.URL+"/api/v2/write", "token", "org", "bucket")
	defer sink.Close()
	now := time.Now()
	if err := sink.RecordSessionChange(events.SessionEvent{Time: now, PreviousID: "1", SessionID: "2"}); err != nil {
		t.Fatalf("record: %v", err)
	}
	p := write.NewPointWithMeasurement("charging_session_change").
		AddTag("session_id", "2").
		AddField("previous_id", "1").
		SetTime(now)
	exp := strings.TrimSpace(write.PointToLineProtocol(p, time.Nanosecond))
	if len(bodies) != 1 || bodies[0] != exp {
		t.Errorf("bodies: %#v", bodies)
	}
}

func TestNewInfluxSinkWithFallback(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			called = true
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
	}))
	defer srv.Close()

	sink := NewInfluxSinkWithFallback(srv.URL+"/api/v2/write", "tok", "org", "bucket")
	if _, ok := sink.(*InfluxSink); ok {
		t.Fatalf("expected NopSink on failing health check")
	}
	if !called {
		t.Fatalf("health endpoint not called")
	}
}
