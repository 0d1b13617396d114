package notify

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/kilianp07/chargewatch/core/events"
	"github.com/kilianp07/chargewatch/core/fault"
	"github.com/kilianp07/chargewatch/core/model"
	"github.com/kilianp07/chargewatch/core/monitor"
)

const (
	clearScreen = "\033[2J\033[H"
	timeLayout  = "2006-01-02 15:04:05"
	rule        = "========================================"
	stopHint    = "(press Ctrl+C to stop monitoring)"
)

// DisplayOptions tunes the terminal output.
type DisplayOptions struct {
	ClearScreen bool
	Color       bool
}

// Display writes the status panel for every tick to a terminal.
type Display struct {
	out    io.Writer
	alerts AlertSink
	clear  bool

	title *color.Color
	ok    *color.Color
	warn  *color.Color
	fail  *color.Color
	muted *color.Color
}

// NewDisplay returns a Display writing to out and sounding alerts on alerts.
func NewDisplay(out io.Writer, alerts AlertSink, opts DisplayOptions) *Display {
	d := &Display{
		out:    out,
		alerts: alerts,
		clear:  opts.ClearScreen,
		title:  color.New(color.Bold),
		ok:     color.New(color.FgGreen),
		warn:   color.New(color.FgYellow),
		fail:   color.New(color.FgRed),
		muted:  color.New(color.FgHiBlack),
	}
	for _, c := range []*color.Color{d.title, d.ok, d.warn, d.fail, d.muted} {
		if opts.Color {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	if d.alerts == nil {
		d.alerts = NopAlerts{}
	}
	return d
}

// Banner describes the run configuration before monitoring starts.
func (d *Display) Banner(id string, threshold float64) {
	var b strings.Builder
	b.WriteString(d.title.Sprint("=== Charging order live monitor ===") + "\n")
	b.WriteString("Features:\n")
	b.WriteString("1. warn when the charging power drops below the threshold\n")
	b.WriteString("2. with a 0W threshold, detect completed or unplugged charging\n")
	b.WriteString("3. five minutes into the order, warn on power jumps above 10W\n")
	b.WriteString("4. retry automatically when the order cannot be read\n")
	b.WriteString(strings.Repeat("-", 50) + "\n\n")
	b.WriteString("Monitoring configured:\n")
	fmt.Fprintf(&b, "   - order: %s\n", id)
	fmt.Fprintf(&b, "   - power threshold: %sW\n", formatWatts(threshold))
	fmt.Fprintf(&b, "   - refresh: every %s\n", monitor.PollInterval)
	fmt.Fprintf(&b, "   - retries: up to %d, every %s\n", monitor.MaxRetries, monitor.RetryInterval)
	b.WriteString("   - stop: press Ctrl+C\n\n")
	fmt.Fprintf(&b, "Monitoring starts in %s...\n", monitor.StartDelay)
	_, _ = io.WriteString(d.out, b.String())
}

// Tick renders the panel of one fetch-and-classify cycle.
func (d *Display) Tick(ev events.TickEvent) {
	var b strings.Builder
	if d.clear {
		b.WriteString(clearScreen)
	}
	b.WriteString(d.title.Sprint("=== Charging data live monitor ===") + "\n")
	fmt.Fprintf(&b, "Time: %s\n", ev.Time.Format(timeLayout))
	fmt.Fprintf(&b, "Order: %s\n", ev.SessionID)
	if ev.Abnormal() {
		b.WriteString("\n")
		b.WriteString(d.fail.Sprint("❌ "+fault.Describe(ev.Err)) + "\n")
		b.WriteString("\n" + d.muted.Sprint(stopHint) + "\n")
		_, _ = io.WriteString(d.out, b.String())
		return
	}
	fmt.Fprintf(&b, "Power threshold: %sW\n\n", formatWatts(ev.Threshold))
	if ev.Reading != nil {
		writeReading(&b, ev.Reading)
	}
	b.WriteString("\n" + rule + "\n")
	d.writeAlert(&b, ev)
	b.WriteString(rule + "\n")
	b.WriteString("\n" + d.muted.Sprint(stopHint) + "\n")
	_, _ = io.WriteString(d.out, b.String())

	if ev.Alert != model.AlertNone {
		d.alerts.Alert(ev.Alert)
	}
}

func writeReading(b *strings.Builder, r *model.Reading) {
	fields := []struct {
		label string
		value string
	}{
		{"Order start (startTime)", r.StartTime.String()},
		{"Station (snName)", r.StationName.String()},
		{"Charging post (sn)", r.DeviceID.String()},
		{"Socket (sid)", r.SocketID.String()},
		{"Charging time (chargeTime)", r.ChargeTime.String()},
		{"Current power (outPower)", r.PowerString()},
		{"Order price (payMoney)", r.PayMoney.String()},
		{"Safety service fee (safeServerMoney)", r.SafeServerMoney.String()},
		{"Time service fee (timeServerMoney)", r.TimeServerMoney.String()},
	}
	for _, f := range fields {
		fmt.Fprintf(b, "%s: %s\n", f.label, f.value)
	}
}

func (d *Display) writeAlert(b *strings.Builder, ev events.TickEvent) {
	switch ev.Alert {
	case model.AlertZeroPower:
		b.WriteString(d.warn.Sprint("⚠️  Notice: the charging power is 0W") + "\n")
		b.WriteString("   Possible causes: charging finished / charger unplugged / charging interrupted\n")
	case model.AlertSuddenIncrease:
		b.WriteString(d.fail.Sprint("⚠️  Warning: the charging power jumped by more than 10W") + "\n")
		b.WriteString("   Possible causes: the charged device was swapped / charging post fault\n")
	case model.AlertLowPower:
		fmt.Fprintf(b, "%s\n", d.warn.Sprintf("⚠️  Warning: the current power (%s) is below the threshold (%sW)",
			ev.Reading.PowerString(), formatWatts(ev.Threshold)))
	default:
		b.WriteString(d.ok.Sprint("✅  Charging normally, power stable") + "\n")
	}
}

// Retry announces the next retry or the exhaustion of all retries.
func (d *Display) Retry(ev events.RetryEvent) {
	if ev.Exhausted {
		fmt.Fprintf(d.out, "\n%s\n", d.warn.Sprintf("🔄 %d retries in a row failed, please enter a new order", ev.Max))
		return
	}
	fmt.Fprintf(d.out, "\n🔄 Automatic retry (%d/%d) in %s...\n", ev.Attempt, ev.Max, monitor.RetryInterval)
}

// SessionChanged confirms the switch to a new order.
func (d *Display) SessionChanged(ev events.SessionEvent) {
	fmt.Fprintf(d.out, "\nNow monitoring order %s, continuing...\n", ev.SessionID)
}

// Summary prints the final report of the run.
func (d *Display) Summary(ev events.SummaryEvent) {
	var b strings.Builder
	if d.clear {
		b.WriteString(clearScreen)
	}
	b.WriteString(d.title.Sprint("=== Monitor stopped ===") + "\n")
	fmt.Fprintf(&b, "Stopped at: %s\n", ev.Stopped.Format(timeLayout))
	fmt.Fprintf(&b, "Monitored order: %s\n", ev.SessionID)
	fmt.Fprintf(&b, "Duration: %s\n", ev.Stopped.Sub(ev.Started).Round(time.Second))
	fmt.Fprintf(&b, "Ticks: %d (failed: %d, retries: %d, order changes: %d)\n",
		ev.Ticks, ev.Failures, ev.Retries, ev.Sessions)
	if len(ev.Alerts) > 0 {
		names := make([]string, 0, len(ev.Alerts))
		for a, n := range ev.Alerts {
			names = append(names, fmt.Sprintf("%s=%d", a, n))
		}
		sort.Strings(names)
		fmt.Fprintf(&b, "Alerts: %s\n", strings.Join(names, ", "))
	}
	b.WriteString("Thanks for using chargewatch, bye!\n")
	_, _ = io.WriteString(d.out, b.String())
}

func formatWatts(w float64) string {
	return strconv.FormatFloat(w, 'f', -1, 64)
}
