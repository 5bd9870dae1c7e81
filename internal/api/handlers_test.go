package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"aircare/internal/database"
	"aircare/internal/fleet"
	"aircare/internal/models"
	"aircare/internal/scheduler"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

var testNow = time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

type mockGateway struct {
	failureResp *models.FailurePredictionResponse
	failureErr  error
	forecast    []models.RulForecastPoint
	forecastErr error

	failureCalls int
	lastFailure  models.FailurePredictionRequest
}

func (m *mockGateway) PredictFailure(ctx context.Context, req models.FailurePredictionRequest) (*models.FailurePredictionResponse, error) {
	m.failureCalls++
	m.lastFailure = req
	return m.failureResp, m.failureErr
}

func (m *mockGateway) ForecastRUL(ctx context.Context, req models.RulForecastRequest) ([]models.RulForecastPoint, error) {
	return m.forecast, m.forecastErr
}

type stubTasks []scheduler.TaskStatus

func (s stubTasks) Status() []scheduler.TaskStatus { return s }

type testEnv struct {
	e        *echo.Echo
	gateway  *mockGateway
	aircraft database.AircraftRepository
	readings database.ReadingRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := database.New(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	catalog, err := fleet.Load()
	require.NoError(t, err)

	env := &testEnv{
		gateway:  &mockGateway{},
		aircraft: database.NewAircraftRepository(db.SQL()),
		readings: database.NewReadingRepository(db.SQL()),
	}
	require.NoError(t, fleet.Seed(context.Background(), env.aircraft, catalog))

	env.e = NewServer(&Dependencies{
		Aircraft:       env.aircraft,
		Readings:       env.readings,
		Predictions:    database.NewPredictionRepository(db.SQL()),
		Gateway:        env.gateway,
		Catalog:        catalog,
		Tasks:          stubTasks{{Name: "prediction_refresher", Runs: 2}},
		Version:        "test",
		FlightDuration: 7 * time.Hour,
		Now:            func() time.Time { return testNow },
	})
	return env
}

func (env *testEnv) do(t *testing.T, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func assertAPIError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	assert.Equal(t, status, rec.Code, rec.Body.String())
	body := decode[APIError](t, rec)
	assert.Equal(t, code, body.Code)
}

func TestHandleHealth(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode[healthResponse](t, rec)
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "test", body.Version)
	require.Len(t, body.Tasks, 1)
	assert.Equal(t, 2, body.Tasks[0].Runs)
}

func TestHandleMetrics(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestHandleListAircraft(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/aircraft", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	list := decode[[]models.AircraftSummary](t, rec)
	require.Len(t, list, 4)
	assert.Equal(t, models.AircraftSummary{ID: "boeing737", Name: "Boeing 737 Boris Air"}, list[0])
}

func TestHandleGetAircraft(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/aircraft/airbusA320", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	ac := decode[models.Aircraft](t, rec)
	assert.Equal(t, "Airbus A320", ac.Model)
	assert.Len(t, ac.Parts, 10)

	rec = env.do(t, http.MethodGet, "/api/aircraft/concorde", nil)
	assertAPIError(t, rec, http.StatusNotFound, "NOT_FOUND")
}

func TestHandleListAirportsAndChannels(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/airports", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	airports := decode[[]models.Airport](t, rec)
	require.Len(t, airports, 18)
	assert.Equal(t, "NYCA", airports[0].Code)

	rec = env.do(t, http.MethodGet, "/api/channels", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	channels := decode[[]channelInfo](t, rec)
	require.Len(t, channels, 9)
	assert.Equal(t, "oilPressure", channels[0].Key)
	assert.Equal(t, models.Range{Min: 0, Max: 500}, channels[0].Range)
}

func TestHandleStoreReading(t *testing.T) {
	env := newTestEnv(t)

	reading := models.NominalReading()
	reading.OilPressure = 600

	rec := env.do(t, http.MethodPost, "/api/aircraft/boeing737/readings", reading)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	body := decode[storedReadingResponse](t, rec)
	assert.NotEmpty(t, body.Record.ID)
	assert.Equal(t, 500.0, body.Record.Reading.OilPressure, "stored clamped")
	assert.True(t, body.FaultyZones.Has(models.LeftWing), "classified raw")
	require.Len(t, body.Faults, 1)
	assert.Len(t, body.Channels, 9)

	latest, err := env.readings.Latest(context.Background(), "boeing737")
	require.NoError(t, err)
	assert.Equal(t, 500.0, latest.Reading.OilPressure)
	assert.Equal(t, testNow, latest.RecordedAt.UTC())
}

func TestHandleStoreReading_Errors(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/aircraft/concorde/readings", models.NominalReading())
	assertAPIError(t, rec, http.StatusNotFound, "NOT_FOUND")

	req := httptest.NewRequest(http.MethodPost, "/api/aircraft/boeing737/readings", strings.NewReader("{"))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	bad := httptest.NewRecorder()
	env.e.ServeHTTP(bad, req)
	assertAPIError(t, bad, http.StatusBadRequest, "BAD_REQUEST")
}

func TestHandleReadingHistory(t *testing.T) {
	env := newTestEnv(t)

	for i := 0; i < 3; i++ {
		reading := models.NominalReading()
		reading.EngineRPM = float64(20000 + i)
		rec := env.do(t, http.MethodPost, "/api/aircraft/embraer190/readings", reading)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := env.do(t, http.MethodGet, "/api/aircraft/embraer190/readings?limit=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	history := decode[readingHistory](t, rec)
	assert.Equal(t, "embraer190", history.AircraftID)
	require.Len(t, history.Readings, 2)
	assert.Equal(t, 20002.0, history.Readings[0].Reading.EngineRPM, "newest first")

	rec = env.do(t, http.MethodGet, "/api/aircraft/embraer190/readings?limit=zero", nil)
	assertAPIError(t, rec, http.StatusBadRequest, "VALIDATION_ERROR")

	rec = env.do(t, http.MethodGet, "/api/aircraft/airbusA320/readings", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[readingHistory](t, rec).Readings)
}

func TestHandleReadingHistory_Msgpack(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/aircraft/boeing737/readings", models.NominalReading())
	require.Equal(t, http.StatusCreated, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/aircraft/boeing737/readings", nil)
	req.Header.Set(echo.HeaderAccept, mimeMsgpack)
	out := httptest.NewRecorder()
	env.e.ServeHTTP(out, req)

	require.Equal(t, http.StatusOK, out.Code)
	assert.Equal(t, mimeMsgpack, out.Header().Get(echo.HeaderContentType))

	var history readingHistory
	require.NoError(t, msgpack.Unmarshal(out.Body.Bytes(), &history))
	require.Len(t, history.Readings, 1)
	assert.Equal(t, models.NominalReading(), history.Readings[0].Reading)
}

func TestHandleClassify(t *testing.T) {
	env := newTestEnv(t)

	reading := models.NominalReading()
	reading.HydraulicPressure = 1000
	reading.FuelFlowRate = 7000

	rec := env.do(t, http.MethodPost, "/api/classify", reading)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode[classification](t, rec)
	assert.Equal(t, []models.SubsystemFlag{models.BackRightWing, models.RightWing}, body.FaultyZones.Sorted())
	assert.Len(t, body.Faults, 2)

	history, err := env.readings.History(context.Background(), "boeing737", 0)
	require.NoError(t, err)
	assert.Empty(t, history, "classify does not store")
}

func TestHandleClassifyProbability(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name  string
		body  string
		want  models.RiskStatus
		wantP float64
	}{
		{"text", `{"failureProbability":"0.5"}`, models.LikelyToFail, 0.5},
		{"number", `{"failureProbability":0.9}`, models.CheckMandatory, 0.9},
		{"bound is exclusive", `{"failureProbability":"0.2"}`, models.Good, 0.2},
		{"garbage", `{"failureProbability":"abc"}`, models.Good, 0},
		{"missing", `{}`, models.Good, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/classify/probability", strings.NewReader(tt.body))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			rec := httptest.NewRecorder()
			env.e.ServeHTTP(rec, req)

			require.Equal(t, http.StatusOK, rec.Code)
			body := decode[probabilityResponse](t, rec)
			assert.Equal(t, tt.want, body.Status)
			assert.Equal(t, tt.wantP, body.FailureProbability)
		})
	}
}

func TestHandlePredict(t *testing.T) {
	env := newTestEnv(t)
	env.gateway.failureResp = &models.FailurePredictionResponse{
		FeatureIndex: 700,
		PartFailures: []models.FailureDescriptor{
			{Part: "Engine", FailureProbability: "0.8", Reason: "High vibration"},
			{Part: "Avionics", FailureProbability: "0.1"},
		},
	}
	env.gateway.forecast = []models.RulForecastPoint{
		{Date: time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC), EngineHealthPercentage: 70, IsOkayToFlight: true},
	}

	reading := models.NominalReading()
	reading.EngineVibration = 150

	rec := env.do(t, http.MethodPost, "/api/aircraft/boeing737/predict", predictRequest{
		Departure: "NYCA",
		Arrival:   "LOND",
		Reading:   &reading,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decode[predictResponse](t, rec)
	assert.Equal(t, 700.0, body.FeatureIndex)
	assert.Equal(t, []models.PartStatus{
		{Name: "Engine", Status: models.CheckMandatory, Reason: "High vibration"},
		{Name: "Avionics", Status: models.Good},
	}, body.Parts)
	assert.Len(t, body.Forecast, 1)
	assert.True(t, body.FaultyZones.Has(models.BackLeftWing))
	assert.Equal(t, testNow.Add(7*time.Hour), body.ArrivalTime)

	sent := env.gateway.lastFailure
	assert.Equal(t, "NYCA", sent.Origin)
	assert.Equal(t, "LOND", sent.Destination)
	assert.Equal(t, "2025-06-15T12:00:00Z", sent.DepartureTime)
	assert.Equal(t, "2025-06-15T19:00:00Z", sent.ArrivalTime)
	assert.Equal(t, 100.0, sent.SensorsData.EngineVibration, "sent clamped")

	ac, err := env.aircraft.Get(context.Background(), "boeing737")
	require.NoError(t, err)
	assert.Equal(t, body.Parts, ac.Parts)
	assert.Equal(t, 700.0, ac.FlightIndex)
	require.Len(t, ac.EngineHealth, 7)
	assert.Equal(t, models.HealthSample{Label: "Jul", Period: "2025-07", Value: 70}, ac.EngineHealth[6])

	rec = env.do(t, http.MethodGet, "/api/aircraft/boeing737/predictions/latest", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	latest := decode[models.PredictionRecord](t, rec)
	assert.Equal(t, 700.0, latest.FeatureIndex)
	assert.Len(t, latest.PartFailures, 2)
}

func TestHandleLatestPrediction_NotFound(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/aircraft/boeing737/predictions/latest", nil)
	assertAPIError(t, rec, http.StatusNotFound, "NOT_FOUND")

	rec = env.do(t, http.MethodGet, "/api/aircraft/concorde/predictions/latest", nil)
	assertAPIError(t, rec, http.StatusNotFound, "NOT_FOUND")
}

func TestHandlePredict_YearLongForecastKeepsProjection(t *testing.T) {
	env := newTestEnv(t)
	env.gateway.failureResp = &models.FailurePredictionResponse{FeatureIndex: 700}
	for i := 0; i < 12; i++ {
		env.gateway.forecast = append(env.gateway.forecast, models.RulForecastPoint{
			Date:                   time.Date(2025, time.July+time.Month(i), 1, 0, 0, 0, 0, time.UTC),
			EngineHealthPercentage: 1e20,
		})
	}

	reading := models.NominalReading()
	rec := env.do(t, http.MethodPost, "/api/aircraft/boeing737/predict", predictRequest{
		Departure: "NYCA",
		Arrival:   "LOND",
		Reading:   &reading,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodGet, "/api/aircraft/boeing737/projection", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[projectionResponse](t, rec)
	assert.Equal(t, 84.0, body.CurrentHealth)
	assert.Equal(t, 11, body.Projection.MonthsUntilMaintenance)

	ac, err := env.aircraft.Get(context.Background(), "boeing737")
	require.NoError(t, err)
	require.Len(t, ac.EngineHealth, 18)
	assert.Equal(t, models.HealthSample{Label: "Jan", Value: 92}, ac.EngineHealth[0])
	assert.Equal(t, models.HealthSample{Label: "Jan", Period: "2026-01", Value: 100}, ac.EngineHealth[12])
}

func TestHandlePredict_UsesLatestReading(t *testing.T) {
	env := newTestEnv(t)
	env.gateway.failureResp = &models.FailurePredictionResponse{FeatureIndex: 1}
	env.gateway.forecastErr = errors.New("rul down")

	reading := models.NominalReading()
	reading.CabinPressureDifferential = 9.5
	rec := env.do(t, http.MethodPost, "/api/aircraft/airbusA320/readings", reading)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/aircraft/airbusA320/predict", predictRequest{
		Departure:     "PARI",
		Arrival:       "BERL",
		DepartureTime: "2025-07-01T08:30:00",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decode[predictResponse](t, rec)
	assert.Empty(t, body.Forecast)
	assert.Empty(t, body.Parts)
	assert.Equal(t, 9.5, env.gateway.lastFailure.SensorsData.CabinPressureDifferential)
	assert.Equal(t, "2025-07-01T08:30:00Z", env.gateway.lastFailure.DepartureTime)
}

func TestHandlePredict_GatewayDown(t *testing.T) {
	env := newTestEnv(t)
	env.gateway.failureErr = errors.New("connection refused")

	reading := models.NominalReading()
	reading.OilPressure = 100

	rec := env.do(t, http.MethodPost, "/api/aircraft/boeing737/predict", predictRequest{
		Departure: "NYCA",
		Arrival:   "LOND",
		Reading:   &reading,
	})
	require.Equal(t, http.StatusBadGateway, rec.Code)

	body := decode[predictFallback](t, rec)
	assert.Equal(t, "PREDICTION_UNAVAILABLE", body.Code)
	assert.Contains(t, body.Details, "connection refused")
	assert.Len(t, body.Parts, 10, "previous statuses")
	assert.True(t, body.FaultyZones.Has(models.LeftWing))

	ac, err := env.aircraft.Get(context.Background(), "boeing737")
	require.NoError(t, err)
	assert.Equal(t, 825.0, ac.FlightIndex, "fleet untouched")
}

func TestHandlePredict_BadRequests(t *testing.T) {
	env := newTestEnv(t)
	nominal := models.NominalReading()

	tests := []struct {
		name   string
		target string
		body   predictRequest
		status int
		code   string
	}{
		{"unknown aircraft", "/api/aircraft/concorde/predict", predictRequest{Departure: "NYCA", Arrival: "LOND", Reading: &nominal}, http.StatusNotFound, "NOT_FOUND"},
		{"missing departure", "/api/aircraft/boeing737/predict", predictRequest{Arrival: "LOND", Reading: &nominal}, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"unknown arrival", "/api/aircraft/boeing737/predict", predictRequest{Departure: "NYCA", Arrival: "XXXX", Reading: &nominal}, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"same airports", "/api/aircraft/boeing737/predict", predictRequest{Departure: "NYCA", Arrival: "NYCA", Reading: &nominal}, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"bad departure time", "/api/aircraft/boeing737/predict", predictRequest{Departure: "NYCA", Arrival: "LOND", DepartureTime: "tomorrow", Reading: &nominal}, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"no reading", "/api/aircraft/boeing737/predict", predictRequest{Departure: "NYCA", Arrival: "LOND"}, http.StatusBadRequest, "BAD_REQUEST"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, tt.target, tt.body)
			assertAPIError(t, rec, tt.status, tt.code)
		})
	}
	assert.Zero(t, env.gateway.failureCalls)
}

func TestHandleProjection(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/aircraft/boeing737/projection", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode[projectionResponse](t, rec)
	assert.Equal(t, 84.0, body.CurrentHealth)
	assert.Equal(t, 11, body.Projection.MonthsUntilMaintenance)
	assert.Equal(t, time.Date(2026, time.May, 1, 0, 0, 0, 0, time.UTC), body.Projection.MaintenanceDate)
}

func TestHandleDashboard(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/dashboard?aircraft=boeing737&from=NYCA&to=BOST", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decode[dashboardResponse](t, rec)
	assert.Equal(t, "boeing737", body.Aircraft.ID)
	assert.Equal(t, models.Selection{AircraftID: "boeing737", Departure: "NYCA", Arrival: "BOST"}, body.Selection)
	assert.Len(t, body.EngineHealth, 6)
	assert.Len(t, body.FuelEfficiency, 6)
	assert.Equal(t, 825.0, body.FlightIndex)
	assert.Equal(t, 84.0, body.CurrentHealth)
	assert.Nil(t, body.Reading)
	assert.Empty(t, body.FaultyZones)
	require.NotNil(t, body.Route)
	assert.InDelta(t, 6.994168, body.Route.Zoom, 1e-6)
}

func TestHandleDashboard_DefaultsAndReading(t *testing.T) {
	env := newTestEnv(t)

	reading := models.NominalReading()
	reading.HydraulicPressure = 1000
	rec := env.do(t, http.MethodPost, "/api/aircraft/boeing737/readings", reading)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/dashboard", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode[dashboardResponse](t, rec)
	assert.Equal(t, "boeing737", body.Selection.AircraftID, "first aircraft by default")
	require.NotNil(t, body.Reading)
	assert.Equal(t, []models.SubsystemFlag{models.RightWing}, body.FaultyZones.Sorted())
	assert.Len(t, body.Channels, 9)
	assert.Nil(t, body.Route)
}

func TestHandleDashboard_BadSelection(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/dashboard?aircraft=boeing737&to=LOND", nil)
	assertAPIError(t, rec, http.StatusBadRequest, "VALIDATION_ERROR")

	rec = env.do(t, http.MethodGet, "/api/dashboard?aircraft=boeing737&from=XXXX", nil)
	assertAPIError(t, rec, http.StatusBadRequest, "VALIDATION_ERROR")

	rec = env.do(t, http.MethodGet, "/api/dashboard?aircraft=concorde", nil)
	assertAPIError(t, rec, http.StatusNotFound, "NOT_FOUND")
}

func TestHandleMaintenanceReport(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/reports/maintenance", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get(echo.HeaderContentType))
	assert.Equal(t, `attachment; filename="maintenance-report-2025-06-15.csv"`, rec.Header().Get(echo.HeaderContentDisposition))

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 5)
	assert.True(t, strings.HasPrefix(lines[0], "Aircraft,"))
	assert.True(t, strings.HasPrefix(lines[1], "Boeing 737 Boris Air,84.0,11,01-05-2026,"))

	rec = env.do(t, http.MethodGet, "/api/reports/maintenance?format=xlsx", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")))

	rec = env.do(t, http.MethodGet, "/api/reports/maintenance?format=pdf", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))

	rec = env.do(t, http.MethodGet, "/api/reports/maintenance?format=doc", nil)
	assertAPIError(t, rec, http.StatusBadRequest, "VALIDATION_ERROR")
}

func TestUnknownRoute(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/nothing", nil)
	assertAPIError(t, rec, http.StatusNotFound, "HTTP_ERROR")
}
