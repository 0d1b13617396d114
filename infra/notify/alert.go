package notify

import (
	"errors"
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/kilianp07/chargewatch/core/model"
	"github.com/kilianp07/chargewatch/infra/logger"
)

// AlertSink signals a power alert to the user.
type AlertSink interface {
	Alert(a model.Alert)
}

// Alert modes accepted by SelectAlertSink.
const (
	ModeAuto    = "auto"
	ModeAudible = "audible"
	ModeText    = "text"
)

var errAudioUnsupported = errors.New("audible alerts are not supported on " + runtime.GOOS)

// NopAlerts ignores every alert.
type NopAlerts struct{}

func (NopAlerts) Alert(model.Alert) {}

// TextAlerts prints a bell line for each alert.
type TextAlerts struct {
	out io.Writer
}

// NewTextAlerts returns a sink writing to out.
func NewTextAlerts(out io.Writer) *TextAlerts { return &TextAlerts{out: out} }

var alertText = map[model.Alert]string{
	model.AlertLowPower:       "🔔 Warning: the charging power is below the threshold!",
	model.AlertSuddenIncrease: "🔔 Warning: the charging power jumped, the charged device may have been swapped!",
	model.AlertZeroPower:      "🔔 Notice: the charging power is 0W, charging may be finished or the charger unplugged!",
}

func (t *TextAlerts) Alert(a model.Alert) {
	if msg, ok := alertText[a]; ok {
		fmt.Fprintln(t.out, msg)
	}
}

// Tone is one beep followed by an optional pause.
type Tone struct {
	Freq     int
	Duration time.Duration
	Pause    time.Duration
}

// TonePatterns maps each alert to its beep sequence.
var TonePatterns = map[model.Alert][]Tone{
	model.AlertLowPower: {
		{Freq: 5000, Duration: 500 * time.Millisecond},
		{Freq: 4000, Duration: 500 * time.Millisecond},
		{Freq: 3000, Duration: 500 * time.Millisecond},
		{Freq: 2000, Duration: 500 * time.Millisecond},
		{Freq: 1000, Duration: 500 * time.Millisecond},
	},
	model.AlertSuddenIncrease: {
		{Freq: 1000, Duration: 500 * time.Millisecond},
		{Freq: 2000, Duration: 500 * time.Millisecond},
		{Freq: 3000, Duration: 500 * time.Millisecond},
		{Freq: 4000, Duration: 500 * time.Millisecond},
		{Freq: 5000, Duration: 500 * time.Millisecond},
	},
	model.AlertZeroPower: {
		{Freq: 2000, Duration: 800 * time.Millisecond, Pause: 200 * time.Millisecond},
		{Freq: 2000, Duration: 800 * time.Millisecond},
	},
}

// Beeper plays TonePatterns on the system speaker. When a beep fails the
// alert is handed to the fallback sink instead.
type Beeper struct {
	beep     func(freq int, d time.Duration) error
	sleep    func(time.Duration)
	fallback AlertSink
	log      logger.Logger
}

// NewBeeper returns a Beeper using the platform speaker.
func NewBeeper(fallback AlertSink) *Beeper {
	if fallback == nil {
		fallback = NopAlerts{}
	}
	return &Beeper{beep: systemBeep, sleep: time.Sleep, fallback: fallback, log: logger.New("beeper")}
}

func (b *Beeper) Alert(a model.Alert) {
	for _, t := range TonePatterns[a] {
		if err := b.beep(t.Freq, t.Duration); err != nil {
			b.log.Warnf("beep %dHz failed: %v", t.Freq, err)
			b.fallback.Alert(a)
			return
		}
		if t.Pause > 0 {
			b.sleep(t.Pause)
		}
	}
}

// SelectAlertSink returns the sink for mode. Audible mode falls back to text
// on platforms without a speaker API.
func SelectAlertSink(mode string, out io.Writer) (AlertSink, error) {
	text := NewTextAlerts(out)
	switch mode {
	case "", ModeAuto:
		if audioSupported {
			return NewBeeper(text), nil
		}
		return text, nil
	case ModeAudible:
		if !audioSupported {
			logger.New("notify").Warnf("%v, using text alerts", errAudioUnsupported)
			return text, nil
		}
		return NewBeeper(text), nil
	case ModeText:
		return text, nil
	default:
		return nil, fmt.Errorf("unknown notify mode %q (want auto, audible or text)", mode)
	}
}
