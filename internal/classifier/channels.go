package classifier

import "aircare/internal/models"

// Status is the per-channel display state of a reading
type Status string

const (
	StatusNormal   Status = "normal"
	StatusWarning  Status = "warning"
	StatusCritical Status = "critical"
)

// ChannelStatus grades one channel value
func ChannelStatus(ch models.Channel, v float64) Status {
	switch ch {
	case models.OilPressure:
		if v > 420 || v < 250 {
			return StatusWarning
		}
	case models.OilTemperature:
		if v > 120 {
			return StatusCritical
		}
		if v > 100 {
			return StatusWarning
		}
	case models.CylinderHeadTemperature:
		if v > 250 {
			return StatusWarning
		}
	case models.EngineVibration:
		if v > 60 {
			return StatusWarning
		}
	case models.EngineRPM:
		if v > 25000 {
			return StatusWarning
		}
	case models.FuelFlowRate, models.HydraulicPressure,
		models.CabinPressureDifferential, models.OutsideAirTemperature:
	}
	return StatusNormal
}

// ChannelState is one line of the sensor panel
type ChannelState struct {
	Key         string       `json:"key"`
	DisplayName string       `json:"displayName"`
	Unit        string       `json:"unit"`
	Range       models.Range `json:"range"`
	Value       float64      `json:"value"`
	Status      Status       `json:"status"`
}

// ChannelReport grades every channel of a reading, in wire order
func ChannelReport(r models.SensorReading) []ChannelState {
	channels := models.AllChannels()
	out := make([]ChannelState, 0, len(channels))
	for _, ch := range channels {
		v := r.Value(ch)
		out = append(out, ChannelState{
			Key:         ch.Key(),
			DisplayName: ch.DisplayName(),
			Unit:        ch.Unit(),
			Range:       ch.Range(),
			Value:       v,
			Status:      ChannelStatus(ch, v),
		})
	}
	return out
}
