// Package proxy implements the backend HTTP service that translates
// client queries into NASA SSC Web Services requests.
package proxy

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/skysurvey/ssc-view/internal/logging"
	"github.com/skysurvey/ssc-view/internal/metrics"
	"github.com/skysurvey/ssc-view/internal/ssc"
)

// Request defaults, matching the service's documented example query.
const (
	defaultObservatories = "ace,wind,goes17,goes16"
	defaultStartTime     = "20240101T000000Z"
	defaultEndTime       = "20240101T010000Z"
	defaultSystem        = "GSE"

	// timeParamLen is the length of a well-formed YYYYMMDDTHHMMSSZ value.
	timeParamLen = 16
)

// User-facing response strings.
const (
	msgInvalidTime   = "Invalid time format. Expected YYYYMMDDTHHMMSSZ."
	msgInvalidFactor = "resolution_factor must be a positive integer."
	msgUpstreamFail  = "Failed to fetch satellite data."
	msgNoData        = "No data points available for the requested period."
)

// Handler serves the client-facing API backed by an SSC client.
type Handler struct {
	ssc              *ssc.Client
	resolutionFactor int
	logger           *logging.Logger
}

// NewHandler creates the API handler. resolutionFactor is the default used
// when the client omits the parameter.
func NewHandler(client *ssc.Client, resolutionFactor int, logger *logging.Logger) *Handler {
	return &Handler{
		ssc:              client,
		resolutionFactor: resolutionFactor,
		logger:           logger,
	}
}

// locationsResponse is the client-facing success body.
type locationsResponse struct {
	Vertices [][3]float64 `json:"vertices"`
	Labels   []string     `json:"labels"`
	Message  string       `json:"message,omitempty"`
}

// Locations handles GET /api/get-satellite-locations.
func (h *Handler) Locations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	observatories := q.Get("observatories")
	if observatories == "" {
		observatories = defaultObservatories
	}
	startTime := q.Get("start_time")
	if startTime == "" {
		startTime = defaultStartTime
	}
	endTime := q.Get("end_time")
	if endTime == "" {
		endTime = defaultEndTime
	}
	system := q.Get("coordinate_system")
	if system == "" {
		system = defaultSystem
	}

	if len(startTime) != timeParamLen || len(endTime) != timeParamLen {
		h.logger.Error("invalid time format: start=%q end=%q", startTime, endTime)
		writeError(w, http.StatusBadRequest, msgInvalidTime)
		return
	}

	factor := h.resolutionFactor
	if raw := q.Get("resolution_factor"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, msgInvalidFactor)
			return
		}
		factor = n
	}

	req := ssc.LocationRequest{
		Observatories:    splitCodes(observatories),
		StartTime:        startTime,
		EndTime:          endTime,
		System:           system,
		ResolutionFactor: factor,
	}

	h.logger.Debug("requesting satellite data: obs=%s window=%s..%s system=%s factor=%d",
		observatories, startTime, endTime, system, factor)

	start := time.Now()
	set, err := h.ssc.Locations(r.Context(), req)
	metrics.ObserveUpstream("locations", time.Since(start), err)
	if err != nil {
		h.logger.Error("error fetching data: %v", err)
		writeError(w, http.StatusBadGateway, msgUpstreamFail)
		return
	}

	resp := locationsResponse{
		Vertices: set.Vertices,
		Labels:   set.Labels,
	}
	if len(resp.Vertices) == 0 {
		resp.Vertices = [][3]float64{}
		resp.Labels = []string{}
		resp.Message = msgNoData
	}

	h.logger.Info("parsed %d vertices and %d labels", len(set.Vertices), len(set.Labels))
	writeJSON(w, http.StatusOK, resp)
}

// Observatories handles GET /api/observatories.
func (h *Handler) Observatories(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	list, err := h.ssc.Observatories(r.Context())
	metrics.ObserveUpstream("observatories", time.Since(start), err)
	if err != nil {
		h.logger.Error("error fetching observatory catalog: %v", err)
		writeError(w, http.StatusBadGateway, "Failed to fetch observatory catalog.")
		return
	}

	if list == nil {
		list = []ssc.Observatory{}
	}
	writeJSON(w, http.StatusOK, list)
}

func splitCodes(s string) []string {
	var codes []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			codes = append(codes, part)
		}
	}
	return codes
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
