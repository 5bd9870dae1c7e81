package api

import (
	"net/http"
	"strconv"
	"strings"

	"aircare/internal/classifier"
	"aircare/internal/database"
	"aircare/internal/metrics"
	"aircare/internal/models"

	"github.com/labstack/echo/v4"
	"github.com/vmihailenco/msgpack/v5"
)

const mimeMsgpack = "application/msgpack"

type classification struct {
	FaultyZones models.FlagSet            `json:"faultyZones"`
	Faults      []classifier.ZoneFault    `json:"faults"`
	Channels    []classifier.ChannelState `json:"channels"`
}

func classify(r models.SensorReading) classification {
	faults := classifier.Faults(r)
	if faults == nil {
		faults = []classifier.ZoneFault{}
	}
	return classification{
		FaultyZones: classifier.ClassifyFromReading(r),
		Faults:      faults,
		Channels:    classifier.ChannelReport(r),
	}
}

type storedReadingResponse struct {
	Record *models.ReadingRecord `json:"record"`
	classification
}

// HandleStoreReading classifies a posted reading as received and stores it
// clamped to the channel ranges
func (h *Handler) HandleStoreReading(c echo.Context) error {
	ac, err := h.loadAircraft(c, c.Param("id"))
	if err != nil {
		return err
	}

	var reading models.SensorReading
	if err := c.Bind(&reading); err != nil {
		return NewBadRequestError("invalid JSON body", err)
	}

	result := classify(reading)
	record := &models.ReadingRecord{
		AircraftID: ac.ID,
		RecordedAt: h.now().UTC(),
		Reading:    reading,
	}
	if err := h.readings.InsertBatch(c.Request().Context(), []*models.ReadingRecord{record}); err != nil {
		metrics.IncBatchFailed()
		return NewInternalError("failed to store reading", err)
	}

	metrics.AddReadingsStored(1)
	for _, flag := range result.FaultyZones.Sorted() {
		metrics.IncZoneFlag(string(flag))
	}

	return c.JSON(http.StatusCreated, storedReadingResponse{Record: record, classification: result})
}

type readingHistory struct {
	AircraftID string                  `json:"aircraftId" msgpack:"aircraftId"`
	Readings   []*models.ReadingRecord `json:"readings" msgpack:"readings"`
}

// HandleReadingHistory returns the most recent readings of an aircraft, newest
// first, as JSON or msgpack depending on the Accept header
func (h *Handler) HandleReadingHistory(c echo.Context) error {
	ac, err := h.loadAircraft(c, c.Param("id"))
	if err != nil {
		return err
	}

	limit := database.DefaultHistoryLimit
	if raw := c.QueryParam("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return NewValidationError("limit", err)
		}
	}

	records, err := h.readings.History(c.Request().Context(), ac.ID, limit)
	if err != nil {
		return NewInternalError("failed to load reading history", err)
	}
	resp := readingHistory{AircraftID: ac.ID, Readings: records}

	if strings.Contains(c.Request().Header.Get(echo.HeaderAccept), mimeMsgpack) {
		data, err := msgpack.Marshal(resp)
		if err != nil {
			return NewInternalError("failed to encode msgpack", err)
		}
		return c.Blob(http.StatusOK, mimeMsgpack, data)
	}
	return c.JSON(http.StatusOK, resp)
}

// HandleClassify classifies a reading without storing it
func (h *Handler) HandleClassify(c echo.Context) error {
	var reading models.SensorReading
	if err := c.Bind(&reading); err != nil {
		return NewBadRequestError("invalid JSON body", err)
	}
	return c.JSON(http.StatusOK, classify(reading))
}

type probabilityResponse struct {
	FailureProbability float64           `json:"failureProbability"`
	Status             models.RiskStatus `json:"status"`
}

// HandleClassifyProbability maps a failure probability to a risk status.
// Unparseable probabilities read as 0.
func (h *Handler) HandleClassifyProbability(c echo.Context) error {
	var req models.FailureDescriptor
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid JSON body", err)
	}

	p := classifier.ParseProbability(req.FailureProbability)
	return c.JSON(http.StatusOK, probabilityResponse{
		FailureProbability: p,
		Status:             classifier.StatusForProbability(p),
	})
}
