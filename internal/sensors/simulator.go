// Package sensors produces synthetic telemetry for the fleet when no live feed is wired in.
package sensors

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"time"

	"aircare/internal/models"
)

const (
	// jitterFraction bounds the per-channel noise as a share of the channel span
	jitterFraction = 0.02
	// excursionLevel places an excursion near the top of the channel range
	excursionLevel = 0.97
)

// Simulator emits one reading per aircraft on every tick
type Simulator struct {
	aircraftIDs   []string
	interval      time.Duration
	excursionRate float64
	rng           *rand.Rand
	now           func() time.Time
}

// NewSimulator creates a simulator for the given aircraft. excursionRate is the
// probability that a reading carries one out-of-envelope channel.
func NewSimulator(aircraftIDs []string, interval time.Duration, excursionRate float64, seed uint64) *Simulator {
	if interval <= 0 {
		interval = time.Second
	}
	return &Simulator{
		aircraftIDs:   aircraftIDs,
		interval:      interval,
		excursionRate: excursionRate,
		rng:           rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		now:           time.Now,
	}
}

// Next produces one clamped reading around the nominal envelope
func (s *Simulator) Next() models.SensorReading {
	r := models.NominalReading()
	for _, c := range models.AllChannels() {
		rng := c.Range()
		span := rng.Max - rng.Min
		noise := (s.rng.Float64()*2 - 1) * jitterFraction * span
		r = r.WithValue(c, r.Value(c)+noise)
	}

	if s.excursionRate > 0 && s.rng.Float64() < s.excursionRate {
		channels := models.AllChannels()
		c := channels[s.rng.IntN(len(channels))]
		rng := c.Range()
		r = r.WithValue(c, rng.Min+(rng.Max-rng.Min)*excursionLevel)
	}

	return r.Clamp()
}

// Stream pushes readings into readingChan until the context is cancelled.
// The channel is not closed.
func (s *Simulator) Stream(ctx context.Context, readingChan chan<- *models.ReadingRecord) error {
	if len(s.aircraftIDs) == 0 {
		slog.Warn("Sensor simulator has no aircraft, idling")
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	slog.Info("Sensor simulator started", "aircraft", len(s.aircraftIDs), "interval", s.interval)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			at := s.now().UTC()
			for _, id := range s.aircraftIDs {
				rec := &models.ReadingRecord{
					AircraftID: id,
					RecordedAt: at,
					Reading:    s.Next(),
				}
				select {
				case readingChan <- rec:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}
	}
}
