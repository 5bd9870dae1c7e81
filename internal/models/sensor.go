package models

import (
	"fmt"
	"math"
)

// Channel identifies one of the nine telemetry channels of a SensorReading
type Channel int

const (
	OilPressure Channel = iota
	OilTemperature
	CylinderHeadTemperature
	EngineVibration
	FuelFlowRate
	EngineRPM
	HydraulicPressure
	CabinPressureDifferential
	OutsideAirTemperature
)

// Range is a closed interval [Min, Max]
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether v lies inside the range, bounds included
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Clamp pulls v into the range
func (r Range) Clamp(v float64) float64 {
	if math.IsNaN(v) {
		return r.Min
	}
	return math.Min(math.Max(v, r.Min), r.Max)
}

// AllChannels returns every channel in wire order
func AllChannels() []Channel {
	return []Channel{
		OilPressure,
		OilTemperature,
		CylinderHeadTemperature,
		EngineVibration,
		FuelFlowRate,
		EngineRPM,
		HydraulicPressure,
		CabinPressureDifferential,
		OutsideAirTemperature,
	}
}

// Key returns the JSON field name used on the wire
func (c Channel) Key() string {
	switch c {
	case OilPressure:
		return "oilPressure"
	case OilTemperature:
		return "oilTemperature"
	case CylinderHeadTemperature:
		return "cylinderHeadTemperature"
	case EngineVibration:
		return "engineVibration"
	case FuelFlowRate:
		return "fuelFlowRate"
	case EngineRPM:
		return "engineRPM"
	case HydraulicPressure:
		return "hydraulicPressure"
	case CabinPressureDifferential:
		return "cabinPressureDifferential"
	case OutsideAirTemperature:
		return "outsideAirTemperature"
	}
	return fmt.Sprintf("channel(%d)", int(c))
}

func (c Channel) String() string {
	return c.Key()
}

// DisplayName returns the operator-facing label
func (c Channel) DisplayName() string {
	switch c {
	case OilPressure:
		return "Oil Pressure"
	case OilTemperature:
		return "Oil Temperature"
	case CylinderHeadTemperature:
		return "Cylinder Head Temperature"
	case EngineVibration:
		return "Engine Vibration"
	case FuelFlowRate:
		return "Fuel Flow Rate"
	case EngineRPM:
		return "Engine RPM"
	case HydraulicPressure:
		return "Hydraulic Pressure"
	case CabinPressureDifferential:
		return "Cabin Pressure Differential"
	case OutsideAirTemperature:
		return "Outside Air Temperature"
	}
	return c.Key()
}

// Unit returns the measurement unit of the channel
func (c Channel) Unit() string {
	switch c {
	case OilPressure, HydraulicPressure, CabinPressureDifferential:
		return "psi"
	case OilTemperature, CylinderHeadTemperature, OutsideAirTemperature:
		return "°C"
	case EngineVibration:
		return "units"
	case FuelFlowRate:
		return "kg/h"
	case EngineRPM:
		return "RPM"
	}
	return ""
}

// Range returns the valid closed range of the channel
func (c Channel) Range() Range {
	switch c {
	case OilPressure:
		return Range{Min: 0, Max: 500}
	case OilTemperature:
		return Range{Min: -40, Max: 150}
	case CylinderHeadTemperature:
		return Range{Min: -40, Max: 300}
	case EngineVibration:
		return Range{Min: 0, Max: 100}
	case FuelFlowRate:
		return Range{Min: 0, Max: 10000}
	case EngineRPM:
		return Range{Min: 0, Max: 30000}
	case HydraulicPressure:
		return Range{Min: 0, Max: 5000}
	case CabinPressureDifferential:
		return Range{Min: 0, Max: 50}
	case OutsideAirTemperature:
		return Range{Min: -50, Max: 50}
	}
	return Range{}
}

// ParseChannel resolves a wire name to a Channel
func ParseChannel(key string) (Channel, error) {
	for _, c := range AllChannels() {
		if c.Key() == key {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown sensor channel: %q", key)
}

// SensorReading is one snapshot of engine and airframe telemetry
type SensorReading struct {
	OilPressure               float64 `json:"oilPressure" msgpack:"oilPressure"`                             // psi
	OilTemperature            float64 `json:"oilTemperature" msgpack:"oilTemperature"`                       // °C
	CylinderHeadTemperature   float64 `json:"cylinderHeadTemperature" msgpack:"cylinderHeadTemperature"`     // °C
	EngineVibration           float64 `json:"engineVibration" msgpack:"engineVibration"`                     // units
	FuelFlowRate              float64 `json:"fuelFlowRate" msgpack:"fuelFlowRate"`                           // kg/h
	EngineRPM                 float64 `json:"engineRPM" msgpack:"engineRPM"`                                 // RPM
	HydraulicPressure         float64 `json:"hydraulicPressure" msgpack:"hydraulicPressure"`                 // psi
	CabinPressureDifferential float64 `json:"cabinPressureDifferential" msgpack:"cabinPressureDifferential"` // psi
	OutsideAirTemperature     float64 `json:"outsideAirTemperature" msgpack:"outsideAirTemperature"`         // °C
}

// NominalReading returns a healthy reading for a cruising airliner
func NominalReading() SensorReading {
	return SensorReading{
		OilPressure:               375,
		OilTemperature:            95,
		CylinderHeadTemperature:   210,
		EngineVibration:           42,
		FuelFlowRate:              4250,
		EngineRPM:                 22500,
		HydraulicPressure:         3200,
		CabinPressureDifferential: 7.8,
		OutsideAirTemperature:     -15,
	}
}

// Value returns the value of one channel
func (r SensorReading) Value(c Channel) float64 {
	switch c {
	case OilPressure:
		return r.OilPressure
	case OilTemperature:
		return r.OilTemperature
	case CylinderHeadTemperature:
		return r.CylinderHeadTemperature
	case EngineVibration:
		return r.EngineVibration
	case FuelFlowRate:
		return r.FuelFlowRate
	case EngineRPM:
		return r.EngineRPM
	case HydraulicPressure:
		return r.HydraulicPressure
	case CabinPressureDifferential:
		return r.CabinPressureDifferential
	case OutsideAirTemperature:
		return r.OutsideAirTemperature
	}
	return 0
}

// WithValue returns a copy of the reading with one channel replaced
func (r SensorReading) WithValue(c Channel, v float64) SensorReading {
	switch c {
	case OilPressure:
		r.OilPressure = v
	case OilTemperature:
		r.OilTemperature = v
	case CylinderHeadTemperature:
		r.CylinderHeadTemperature = v
	case EngineVibration:
		r.EngineVibration = v
	case FuelFlowRate:
		r.FuelFlowRate = v
	case EngineRPM:
		r.EngineRPM = v
	case HydraulicPressure:
		r.HydraulicPressure = v
	case CabinPressureDifferential:
		r.CabinPressureDifferential = v
	case OutsideAirTemperature:
		r.OutsideAirTemperature = v
	}
	return r
}

// Clamp returns a copy with every channel pulled into its valid range
func (r SensorReading) Clamp() SensorReading {
	out := r
	for _, c := range AllChannels() {
		out = out.WithValue(c, c.Range().Clamp(r.Value(c)))
	}
	return out
}

// Validate returns an error naming the first channel outside its range
func (r SensorReading) Validate() error {
	for _, c := range AllChannels() {
		v := r.Value(c)
		rng := c.Range()
		if math.IsNaN(v) || !rng.Contains(v) {
			return fmt.Errorf("%s out of range: %g not in [%g, %g]", c.Key(), v, rng.Min, rng.Max)
		}
	}
	return nil
}
