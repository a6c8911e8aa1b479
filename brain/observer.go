package brain

import (
	"time"

	"github.com/battlesnakeio/nol/board"
	log "github.com/sirupsen/logrus"
)

// Observer receives every decision an engine makes. Observers are for
// diagnostics only and cannot change the outcome.
type Observer interface {
	ObserveDecision(d *Decision, elapsed time.Duration)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(d *Decision, elapsed time.Duration)

// ObserveDecision calls f.
func (f ObserverFunc) ObserveDecision(d *Decision, elapsed time.Duration) { f(d, elapsed) }

// Observers fans a decision out to several observers.
type Observers []Observer

// ObserveDecision calls every observer in order.
func (os Observers) ObserveDecision(d *Decision, elapsed time.Duration) {
	for _, o := range os {
		o.ObserveDecision(d, elapsed)
	}
}

type nopObserver struct{}

func (nopObserver) ObserveDecision(*Decision, time.Duration) {}

// LogObserver logs each decision and its scores at debug level.
type LogObserver struct {
	Entry *log.Entry
}

// ObserveDecision implements Observer.
func (o LogObserver) ObserveDecision(d *Decision, elapsed time.Duration) {
	entry := o.Entry
	if entry == nil {
		entry = log.NewEntry(log.StandardLogger())
	}
	if entry.Logger.Level < log.DebugLevel {
		return
	}
	for _, sc := range d.Scores {
		if !sc.Valid {
			continue
		}
		entry.WithFields(log.Fields{
			"move":   sc.Move.String(),
			"total":  sc.Total,
			"danger": sc.Danger,
			"enemy":  sc.Enemy,
			"food":   sc.Food,
			"space":  sc.Space,
		}).Debug("scored move")
	}
	entry.WithFields(log.Fields{
		"move":     d.Move.String(),
		"fallback": d.Fallback,
		"hungry":   d.Hungry,
		"ttl":      d.TurnsUntilStarved,
		"elapsed":  elapsed,
	}).Debugf("decided\n%s", board.Frame(d.Grid))
}
