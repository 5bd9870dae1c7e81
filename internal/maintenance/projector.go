// Package maintenance projects when an engine's health reaches the maintenance floor.
package maintenance

import (
	"fmt"
	"math"
	"slices"
	"time"

	"aircare/internal/models"
)

const (
	// HealthDecrement is the assumed loss of engine health per month, in percentage points
	HealthDecrement = 4.0

	// MaintenanceFloor is the engine health at or below which maintenance is due
	MaintenanceFloor = 40.0

	// FuelEfficiencyOffset is the heuristic gap between engine health and fuel efficiency
	FuelEfficiencyOffset = 17.0
)

// Urgency notes, by months left before maintenance
const (
	NoteUrgent  = "URGENT — schedule maintenance immediately"
	NoteSoon    = "Plan maintenance soon"
	NoteRoutine = "Routine maintenance schedule"
)

var monthLabels = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// MonthLabel returns the trend label of a month ("Jan" .. "Dec")
func MonthLabel(m time.Month) string {
	if m < time.January || m > time.December {
		return ""
	}
	return monthLabels[m-1]
}

// CurrentHealth returns the value of the sample labelled currentMonthLabel,
// falling back to the most recent sample and then to 0.
func CurrentHealth(samples []models.HealthSample, currentMonthLabel string) float64 {
	for _, s := range samples {
		if s.Label == currentMonthLabel {
			return s.Value
		}
	}
	if len(samples) == 0 {
		return 0
	}
	return samples[len(samples)-1].Value
}

// CurrentHealthAt returns the engine health for the calendar month containing now
func CurrentHealthAt(samples []models.HealthSample, now time.Time) float64 {
	return healthFor(samples, MonthLabel(now.Month()), models.PeriodOf(now))
}

// healthFor prefers the sample dated period, then the undated sample labelled
// label, then the latest sample not after period.
func healthFor(samples []models.HealthSample, label, period string) float64 {
	for _, s := range samples {
		if s.Period == period {
			return s.Value
		}
	}

	for _, s := range samples {
		if s.Period == "" && s.Label == label {
			return s.Value
		}
	}

	for i := len(samples) - 1; i >= 0; i-- {
		if samples[i].Period <= period {
			return samples[i].Value
		}
	}
	return CurrentHealth(samples, label)
}

// MonthsUntilMaintenance counts monthly decrements until health is at or below
// the floor. Health above 100 counts as 100.
func MonthsUntilMaintenance(health float64) int {
	if math.IsNaN(health) || health <= MaintenanceFloor {
		return 0
	}
	health = models.ClampPercent(health)
	return int(math.Ceil((health - MaintenanceFloor) / HealthDecrement))
}

// UrgencyNote classifies the remaining months
func UrgencyNote(months int) string {
	switch {
	case months <= 2:
		return NoteUrgent
	case months <= 5:
		return NoteSoon
	default:
		return NoteRoutine
	}
}

// Project computes the maintenance projection of one aircraft.
// currentMonth is zero-based (0 = January).
func Project(samples []models.HealthSample, currentMonthLabel string, currentMonth, currentYear int) models.MaintenanceProjection {
	period := fmt.Sprintf("%04d-%02d", currentYear, currentMonth+1)
	months := MonthsUntilMaintenance(healthFor(samples, currentMonthLabel, period))
	return models.MaintenanceProjection{
		MonthsUntilMaintenance: months,
		MaintenanceDate:        time.Date(currentYear, time.Month(currentMonth+months+1), 1, 0, 0, 0, 0, time.UTC),
		UrgencyNote:            UrgencyNote(months),
	}
}

// ProjectAt runs Project for the calendar month containing now
func ProjectAt(samples []models.HealthSample, now time.Time) models.MaintenanceProjection {
	return Project(samples, MonthLabel(now.Month()), int(now.Month())-1, now.Year())
}

// FuelEfficiency derives fuel efficiency from engine health
func FuelEfficiency(engineHealth float64) float64 {
	return engineHealth - FuelEfficiencyOffset
}

// FuelEfficiencyTrend maps an engine health trend to a fuel efficiency trend
func FuelEfficiencyTrend(engineHealth []models.HealthSample) []models.HealthSample {
	out := make([]models.HealthSample, len(engineHealth))
	for i, s := range engineHealth {
		out[i] = models.HealthSample{Label: s.Label, Period: s.Period, Value: models.ClampPercent(FuelEfficiency(s.Value))}
	}
	return out
}

// TrendFromForecast turns a RUL forecast into dated monthly engine health
// samples. The forecast percentage is used on the 0-100 scale and clamped to it.
func TrendFromForecast(forecast []models.RulForecastPoint) []models.HealthSample {
	out := make([]models.HealthSample, 0, len(forecast))
	for _, p := range forecast {
		out = append(out, models.HealthSample{
			Label:  MonthLabel(p.Date.Month()),
			Period: models.PeriodOf(p.Date),
			Value:  models.ClampPercent(p.EngineHealthPercentage),
		})
	}
	return out
}

// ForecastAfter keeps the forecast points dated after the calendar month of now
func ForecastAfter(forecast []models.RulForecastPoint, now time.Time) []models.RulForecastPoint {
	current := models.PeriodOf(now)
	out := make([]models.RulForecastPoint, 0, len(forecast))
	for _, p := range forecast {
		if models.PeriodOf(p.Date) > current {
			out = append(out, p)
		}
	}
	return out
}

// MergeTrend merges samples into a trend and returns the new trend.
// A dated sample replaces the sample with the same period, or is inserted
// before the first later-dated sample. An undated sample replaces the undated
// sample with the same label, or is appended.
func MergeTrend(trend, samples []models.HealthSample) []models.HealthSample {
	out := make([]models.HealthSample, len(trend), len(trend)+len(samples))
	copy(out, trend)
	for _, s := range samples {
		if i := sampleIndex(out, s); i >= 0 {
			out[i].Value = s.Value
			continue
		}
		at := len(out)
		if s.Period != "" {
			for i := range out {
				if out[i].Period > s.Period {
					at = i
					break
				}
			}
		}
		out = slices.Insert(out, at, s)
	}
	return out
}

func sampleIndex(trend []models.HealthSample, s models.HealthSample) int {
	for i, t := range trend {
		if t.Period != s.Period {
			continue
		}
		if s.Period != "" || t.Label == s.Label {
			return i
		}
	}
	return -1
}
