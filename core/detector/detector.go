// Package detector classifies charging power readings.
package detector

import (
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/kilianp07/chargewatch/core/model"
	"github.com/kilianp07/chargewatch/core/session"
)

const (
	// SurgeDelta is the rise over the mean of the previous readings, in
	// watts, above which a sudden increase is reported.
	SurgeDelta = 10.0
	// SurgeMinSamples is the window length needed before surges are checked.
	SurgeMinSamples = 3
	// SurgeWarmup is how long after the order start surges are ignored.
	SurgeWarmup = 5 * time.Minute
)

// Classify records power in w and returns the alert for this reading.
// started is the order start time; a zero value disables surge detection.
//
// Priority: zero power, then sudden increase, then low power. A threshold
// of zero disables the low-power alert.
func Classify(power, threshold float64, started, now time.Time, w *session.Window) model.Alert {
	alert := model.AlertNone
	switch {
	case power == 0:
		alert = model.AlertZeroPower
	case threshold > 0 && power < threshold:
		alert = model.AlertLowPower
	}

	w.Push(power)

	if alert != model.AlertZeroPower && isSurge(w, started, now) {
		alert = model.AlertSuddenIncrease
	}
	return alert
}

func isSurge(w *session.Window, started, now time.Time) bool {
	if w.Len() < SurgeMinSamples || started.IsZero() {
		return false
	}
	if now.Sub(started) <= SurgeWarmup {
		return false
	}
	vals := w.Values()
	last := vals[len(vals)-1]
	prev := stat.Mean(vals[:len(vals)-1], nil)
	return last-prev > SurgeDelta
}
