package classifier

import (
	"testing"

	"aircare/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyFromReading_Nominal(t *testing.T) {
	flags := ClassifyFromReading(models.NominalReading())
	assert.Empty(t, flags)
}

func TestClassifyFromReading_BoundariesAreNominal(t *testing.T) {
	// Every threshold is inclusive on the healthy side
	readings := []models.SensorReading{
		models.NominalReading().WithValue(models.OilPressure, 250),
		models.NominalReading().WithValue(models.OilPressure, 420),
		models.NominalReading().WithValue(models.HydraulicPressure, 2500),
		models.NominalReading().WithValue(models.HydraulicPressure, 4200),
		models.NominalReading().WithValue(models.FuelFlowRate, 3500),
		models.NominalReading().WithValue(models.FuelFlowRate, 6000),
		models.NominalReading().WithValue(models.CylinderHeadTemperature, 250),
		models.NominalReading().WithValue(models.EngineVibration, 60),
		models.NominalReading().WithValue(models.OilTemperature, 120),
	}

	for _, r := range readings {
		assert.Empty(t, ClassifyFromReading(r), "reading %+v", r)
	}
}

func TestClassifyFromReading_FlagIndependence(t *testing.T) {
	tests := []struct {
		name    string
		channel models.Channel
		value   float64
		want    models.SubsystemFlag
	}{
		{"low oil pressure", models.OilPressure, 249, models.LeftWing},
		{"high oil pressure", models.OilPressure, 421, models.LeftWing},
		{"hot cylinder head", models.CylinderHeadTemperature, 251, models.BackLeftWing},
		{"engine vibration", models.EngineVibration, 61, models.BackLeftWing},
		{"hot oil", models.OilTemperature, 121, models.BackLeftWing},
		{"low hydraulic pressure", models.HydraulicPressure, 2499, models.RightWing},
		{"high hydraulic pressure", models.HydraulicPressure, 4201, models.RightWing},
		{"low fuel flow", models.FuelFlowRate, 3499, models.BackRightWing},
		{"high fuel flow", models.FuelFlowRate, 6001, models.BackRightWing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := models.NominalReading().WithValue(tt.channel, tt.value)
			flags := ClassifyFromReading(r)
			assert.Equal(t, []models.SubsystemFlag{tt.want}, flags.Sorted())
		})
	}
}

func TestClassifyFromReading_AllZones(t *testing.T) {
	r := models.SensorReading{
		OilPressure:       100,
		EngineVibration:   90,
		HydraulicPressure: 4900,
		FuelFlowRate:      100,
	}

	flags := ClassifyFromReading(r)
	assert.Len(t, flags, 4)
	for _, f := range models.AllSubsystemFlags() {
		assert.True(t, flags.Has(f), "expected %s", f)
	}
}

func TestClassifyFromReading_OutOfRangeInput(t *testing.T) {
	// Raw values are compared as given, even outside the channel ranges
	r := models.NominalReading().WithValue(models.OilPressure, -1000).WithValue(models.FuelFlowRate, 1e9)
	flags := ClassifyFromReading(r)
	assert.Equal(t, []models.SubsystemFlag{models.BackRightWing, models.LeftWing}, flags.Sorted())
}

func TestClassifyFromReading_Idempotent(t *testing.T) {
	r := models.NominalReading().WithValue(models.EngineVibration, 75)
	assert.Equal(t, ClassifyFromReading(r), ClassifyFromReading(r))
}

func TestFaults(t *testing.T) {
	r := models.NominalReading().WithValue(models.HydraulicPressure, 1000)
	faults := Faults(r)
	require.Len(t, faults, 1)
	assert.Equal(t, models.RightWing, faults[0].Flag)
	assert.NotEmpty(t, faults[0].Message)

	assert.Empty(t, Faults(models.NominalReading()))
}

func TestClassifyFromFailureProbability(t *testing.T) {
	tests := []struct {
		input string
		want  models.RiskStatus
	}{
		{"0", models.Good},
		{"0.2", models.Good},
		{"0.2000001", models.PossibleFault},
		{"0.4", models.PossibleFault},
		{"0.41", models.LikelyToFail},
		{"0.7", models.LikelyToFail},
		{"0.71", models.CheckMandatory},
		{"1", models.CheckMandatory},
		{" 0.55 ", models.LikelyToFail},
		{"", models.Good},
		{"abc", models.Good},
		{"NaN", models.Good},
		{"Inf", models.Good},
		{"-3", models.Good},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyFromFailureProbability(tt.input))
		})
	}
}

func TestStatusForProbability_Monotonic(t *testing.T) {
	prev := StatusForProbability(-0.1)
	for p := 0.0; p <= 1.0; p += 0.01 {
		cur := StatusForProbability(p)
		assert.GreaterOrEqual(t, int(cur), int(prev), "p=%v", p)
		prev = cur
	}
}

func TestDescribeFailures(t *testing.T) {
	failures := []models.FailureDescriptor{
		{Part: "Engine", FailureProbability: "0.1"},
		{Part: "Landing Gear", FailureProbability: "0.85", Reason: "Retraction failure warning"},
		{Part: "", FailureProbability: "0.9"},
		{Part: "Avionics", FailureProbability: "not-a-number"},
	}

	parts := DescribeFailures(failures)
	require.Len(t, parts, 3)
	assert.Equal(t, models.PartStatus{Name: "Engine", Status: models.Good}, parts[0])
	assert.Equal(t, models.CheckMandatory, parts[1].Status)
	assert.Equal(t, "Retraction failure warning", parts[1].Reason)
	assert.Equal(t, models.Good, parts[2].Status)
}

func TestChannelStatus(t *testing.T) {
	tests := []struct {
		name    string
		channel models.Channel
		value   float64
		want    Status
	}{
		{"oil pressure nominal", models.OilPressure, 375, StatusNormal},
		{"oil pressure low", models.OilPressure, 200, StatusWarning},
		{"oil temperature warm", models.OilTemperature, 110, StatusWarning},
		{"oil temperature hot", models.OilTemperature, 130, StatusCritical},
		{"cylinder head hot", models.CylinderHeadTemperature, 260, StatusWarning},
		{"vibration", models.EngineVibration, 70, StatusWarning},
		{"rpm", models.EngineRPM, 26000, StatusWarning},
		{"fuel flow never graded", models.FuelFlowRate, 0, StatusNormal},
		{"cabin never graded", models.CabinPressureDifferential, 50, StatusNormal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ChannelStatus(tt.channel, tt.value))
		})
	}
}

func TestChannelReport(t *testing.T) {
	report := ChannelReport(models.NominalReading().WithValue(models.OilTemperature, 125))
	require.Len(t, report, 9)
	assert.Equal(t, "oilPressure", report[0].Key)
	assert.Equal(t, "psi", report[0].Unit)
	assert.Equal(t, StatusCritical, report[1].Status)
	assert.Equal(t, models.Range{Min: -50, Max: 50}, report[8].Range)
}
