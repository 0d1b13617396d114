package notify

import (
	"encoding/json"
	"time"

	"github.com/kilianp07/chargewatch/core/events"
	"github.com/kilianp07/chargewatch/core/fault"
	"github.com/kilianp07/chargewatch/core/model"
	"github.com/kilianp07/chargewatch/infra/logger"
)

// Publisher sends a payload to an MQTT topic.
type Publisher interface {
	Publish(topic string, payload []byte) error
}

// TopicFunc builds a topic from path segments.
type TopicFunc func(parts ...string) string

// MQTTNotifier publishes monitoring events as JSON documents.
type MQTTNotifier struct {
	pub   Publisher
	topic TopicFunc
	log   logger.Logger
}

// NewMQTTNotifier returns a notifier publishing through pub.
func NewMQTTNotifier(pub Publisher, topic TopicFunc) *MQTTNotifier {
	return &MQTTNotifier{pub: pub, topic: topic, log: logger.New("mqtt-notifier")}
}

type readingPayload struct {
	StartTime       model.Text `json:"start_time"`
	StationName     model.Text `json:"station_name"`
	DeviceID        model.Text `json:"device_id"`
	SocketID        model.Text `json:"socket_id"`
	ChargeTime      model.Text `json:"charge_time"`
	PayMoney        model.Text `json:"pay_money"`
	SafeServerMoney model.Text `json:"safe_server_money"`
	TimeServerMoney model.Text `json:"time_server_money"`
}

type tickPayload struct {
	RunID     string          `json:"run_id"`
	Time      time.Time       `json:"time"`
	SessionID string          `json:"session_id"`
	Threshold float64         `json:"threshold_w"`
	Outcome   string          `json:"outcome"`
	Alert     string          `json:"alert"`
	PowerW    *float64        `json:"power_w"`
	Error     string          `json:"error,omitempty"`
	Reading   *readingPayload `json:"reading,omitempty"`
}

// Tick publishes the reading on <id>/tick and any alert on <id>/alert.
func (n *MQTTNotifier) Tick(ev events.TickEvent) {
	p := tickPayload{
		RunID:     ev.RunID,
		Time:      ev.Time,
		SessionID: ev.SessionID,
		Threshold: ev.Threshold,
		Outcome:   ev.Outcome(),
		Alert:     ev.Alert.String(),
	}
	if ev.Err != nil {
		p.Error = fault.Describe(ev.Err)
	}
	if r := ev.Reading; r != nil {
		p.PowerW = r.Power
		p.Reading = &readingPayload{
			StartTime:       r.StartTime,
			StationName:     r.StationName,
			DeviceID:        r.DeviceID,
			SocketID:        r.SocketID,
			ChargeTime:      r.ChargeTime,
			PayMoney:        r.PayMoney.Text,
			SafeServerMoney: r.SafeServerMoney.Text,
			TimeServerMoney: r.TimeServerMoney.Text,
		}
	}
	n.publish(n.topic(ev.SessionID, "tick"), p)
	if ev.Alert != model.AlertNone {
		n.publish(n.topic(ev.SessionID, "alert"), map[string]any{
			"run_id":     ev.RunID,
			"time":       ev.Time,
			"session_id": ev.SessionID,
			"alert":      ev.Alert.String(),
			"power_w":    p.PowerW,
		})
	}
}

// Retry publishes retry progress on <id>/retry.
func (n *MQTTNotifier) Retry(ev events.RetryEvent) {
	n.publish(n.topic(ev.SessionID, "retry"), map[string]any{
		"run_id":    ev.RunID,
		"time":      ev.Time,
		"attempt":   ev.Attempt,
		"max":       ev.Max,
		"exhausted": ev.Exhausted,
	})
}

// SessionChanged publishes the switch on <new id>/session.
func (n *MQTTNotifier) SessionChanged(ev events.SessionEvent) {
	n.publish(n.topic(ev.SessionID, "session"), map[string]any{
		"run_id":      ev.RunID,
		"time":        ev.Time,
		"previous_id": ev.PreviousID,
		"session_id":  ev.SessionID,
	})
}

// Summary publishes the final report on summary.
func (n *MQTTNotifier) Summary(ev events.SummaryEvent) {
	alerts := make(map[string]int, len(ev.Alerts))
	for a, c := range ev.Alerts {
		alerts[a.String()] = c
	}
	n.publish(n.topic("summary"), map[string]any{
		"run_id":     ev.RunID,
		"started":    ev.Started,
		"stopped":    ev.Stopped,
		"session_id": ev.SessionID,
		"ticks":      ev.Ticks,
		"failures":   ev.Failures,
		"retries":    ev.Retries,
		"sessions":   ev.Sessions,
		"alerts":     alerts,
	})
}

func (n *MQTTNotifier) publish(topic string, v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		n.log.Errorf("encode %s: %v", topic, err)
		return
	}
	if err := n.pub.Publish(topic, payload); err != nil {
		n.log.Errorf("publish %s: %v", topic, err)
	}
}
