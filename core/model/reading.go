package model

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Missing is rendered in place of fields the server did not send.
const Missing = "n/a"

// StartTimeLayouts are the layouts accepted for the order start time,
// tried in order and interpreted in local time.
var StartTimeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006/01/02 15:04:05",
	"2006-01-02 15:04",
}

// Text is an opaque scalar copied from the server response. Numbers and
// booleans keep their JSON spelling; null and absent fields are not Present.
type Text struct {
	Value   string
	Present bool
}

// NewText returns a present Text holding s.
func NewText(s string) Text { return Text{Value: s, Present: true} }

// UnmarshalJSON accepts any JSON scalar.
func (t *Text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*t = Text{}
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = NewText(s)
		return nil
	}
	*t = NewText(string(b))
	return nil
}

// MarshalJSON writes the value as a string, or null when absent.
func (t Text) MarshalJSON() ([]byte, error) {
	if !t.Present {
		return []byte("null"), nil
	}
	return json.Marshal(t.Value)
}

// String returns the value or Missing.
func (t Text) String() string {
	if !t.Present {
		return Missing
	}
	return t.Value
}

// Money is a currency amount passed through from the server.
type Money struct {
	Text
}

// Decimal parses the amount. ok is false for absent or non-numeric values.
func (m Money) Decimal() (d decimal.Decimal, ok bool) {
	if !m.Present {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(m.Value)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// String renders the amount with the yuan sign.
func (m Money) String() string {
	return "¥" + m.Text.String()
}

// Reading is the charging data returned for one tick.
type Reading struct {
	StartTime       Text  `json:"start_time"`
	StationName     Text  `json:"station_name"`
	DeviceID        Text  `json:"device_id"`
	SocketID        Text  `json:"socket_id"`
	ChargeTime      Text  `json:"charge_time"`
	RawPower        Text  `json:"raw_power"`
	PayMoney        Money `json:"pay_money"`
	SafeServerMoney Money `json:"safe_server_money"`
	TimeServerMoney Money `json:"time_server_money"`

	// Power is nil when the server sent no power or a non-numeric one.
	Power *float64 `json:"power_w,omitempty"`
}

// StartedAt parses StartTime in loc. ok is false when the start time is
// absent or matches none of StartTimeLayouts.
func (r Reading) StartedAt(loc *time.Location) (t time.Time, ok bool) {
	if !r.StartTime.Present {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range StartTimeLayouts {
		if t, err := time.ParseInLocation(layout, r.StartTime.Value, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// PowerString renders the instantaneous power with its unit.
func (r Reading) PowerString() string {
	if r.Power != nil {
		return strconv.FormatFloat(*r.Power, 'f', -1, 64) + "W"
	}
	return r.RawPower.String() + "W"
}
