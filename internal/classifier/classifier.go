// Package classifier derives airframe fault flags and part risk statuses from
// sensor readings and predicted failure probabilities.
package classifier

import (
	"math"
	"strconv"
	"strings"

	"aircare/internal/models"
)

// Probability thresholds, exclusive: a probability must exceed the bound.
const (
	CheckMandatoryAbove = 0.7
	LikelyToFailAbove   = 0.4
	PossibleFaultAbove  = 0.2
)

// ZoneRule flags one airframe zone when Match holds for a reading
type ZoneRule struct {
	Flag    models.SubsystemFlag
	Message string
	Match   func(r models.SensorReading) bool
}

// ZoneRules is the local fault table. Rules are independent and are evaluated
// against the raw reading.
var ZoneRules = []ZoneRule{
	{
		Flag:    models.LeftWing,
		Message: "Left Wing: oil pressure outside 250-420 psi.",
		Match: func(r models.SensorReading) bool {
			return r.OilPressure < 250 || r.OilPressure > 420
		},
	},
	{
		Flag:    models.BackLeftWing,
		Message: "Back Left Wing: engine running hot or vibrating.",
		Match: func(r models.SensorReading) bool {
			return r.CylinderHeadTemperature > 250 || r.EngineVibration > 60 || r.OilTemperature > 120
		},
	},
	{
		Flag:    models.RightWing,
		Message: "Right Wing: hydraulic pressure outside 2500-4200 psi.",
		Match: func(r models.SensorReading) bool {
			return r.HydraulicPressure < 2500 || r.HydraulicPressure > 4200
		},
	},
	{
		Flag:    models.BackRightWing,
		Message: "Back Right Wing: fuel flow outside 3500-6000 kg/h.",
		Match: func(r models.SensorReading) bool {
			return r.FuelFlowRate < 3500 || r.FuelFlowRate > 6000
		},
	},
}

// ZoneFault is a flagged zone with its operator message
type ZoneFault struct {
	Flag    models.SubsystemFlag `json:"name"`
	Message string               `json:"faultMessage"`
}

// ClassifyFromReading returns the zones whose rule matches the reading
func ClassifyFromReading(r models.SensorReading) models.FlagSet {
	flags := models.NewFlagSet()
	for _, rule := range ZoneRules {
		if rule.Match(r) {
			flags.Add(rule.Flag)
		}
	}
	return flags
}

// Faults is ClassifyFromReading with the message of each matching rule, in table order
func Faults(r models.SensorReading) []ZoneFault {
	var faults []ZoneFault
	for _, rule := range ZoneRules {
		if rule.Match(r) {
			faults = append(faults, ZoneFault{Flag: rule.Flag, Message: rule.Message})
		}
	}
	return faults
}

// ParseProbability parses a failure probability. Anything that is not a
// finite number reads as 0.
func ParseProbability(text string) float64 {
	p, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || math.IsNaN(p) || math.IsInf(p, 0) {
		return 0
	}
	return p
}

// ClassifyFromFailureProbability maps a predicted failure probability to a risk status
func ClassifyFromFailureProbability(text string) models.RiskStatus {
	return StatusForProbability(ParseProbability(text))
}

// StatusForProbability maps a numeric probability to a risk status
func StatusForProbability(p float64) models.RiskStatus {
	switch {
	case p > CheckMandatoryAbove:
		return models.CheckMandatory
	case p > LikelyToFailAbove:
		return models.LikelyToFail
	case p > PossibleFaultAbove:
		return models.PossibleFault
	default:
		return models.Good
	}
}

// DescribeFailures turns server failure descriptors into part statuses.
// Descriptors without a part name are skipped.
func DescribeFailures(failures []models.FailureDescriptor) []models.PartStatus {
	parts := make([]models.PartStatus, 0, len(failures))
	for _, f := range failures {
		if f.Part == "" {
			continue
		}
		parts = append(parts, models.PartStatus{
			Name:   f.Part,
			Status: ClassifyFromFailureProbability(f.FailureProbability),
			Reason: f.Reason,
		})
	}
	return parts
}
