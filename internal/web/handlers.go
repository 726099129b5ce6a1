package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/cjeanneret/solargeo/internal/debug"
	"github.com/cjeanneret/solargeo/internal/logic/geometry"
	"github.com/cjeanneret/solargeo/internal/logic/report"
	"github.com/cjeanneret/solargeo/internal/logic/solar"
	"github.com/cjeanneret/solargeo/internal/metrics"
)

// MaxBodyBytes caps the size of a POST /compute body.
const MaxBodyBytes = 1 << 20

// Inputs are the form values of one computation.
type Inputs struct {
	LatitudeDeg     float64 `json:"latitude_deg"`
	Date            string  `json:"date"` // YYYY-MM-DD
	LocalSolarTimeH float64 `json:"local_solar_time_h"`
}

// GeoTime validates in and converts it for the calculator.
func (in Inputs) GeoTime() (solar.GeoTime, error) {
	if in.Date == "" {
		return solar.GeoTime{}, solar.ErrMissingDate
	}
	d, err := time.Parse(time.DateOnly, in.Date)
	if err != nil {
		return solar.GeoTime{}, fmt.Errorf("date must be YYYY-MM-DD: %w", err)
	}
	return solar.NewGeoTime(in.LatitudeDeg, d, in.LocalSolarTimeH)
}

// ValidateInputs reports whether in can be computed.
func ValidateInputs(in Inputs) error {
	_, err := in.GeoTime()
	return err
}

// ComputeFunc produces the full result for validated inputs.
type ComputeFunc func(ctx context.Context, g solar.GeoTime) (report.Result, error)

// SceneFunc returns the illustrative scene.
type SceneFunc func(ctx context.Context) geometry.SceneGeometry

// FormConfig holds default values for the input form (from config).
type FormConfig struct {
	LocationName    string  `json:"location_name,omitempty"`
	LatitudeDeg     float64 `json:"latitude_deg"`
	Date            string  `json:"date"`
	LocalSolarTimeH float64 `json:"local_solar_time_h"`
	TimeStepH       float64 `json:"time_step_h"`
}

// ComputeResponse is the body of a successful POST /compute.
type ComputeResponse struct {
	ID string `json:"id"`
	report.Result
}

// Handlers holds dependencies for HTTP handlers.
type Handlers struct {
	Broadcaster  *StatusBroadcaster
	Compute      ComputeFunc
	Scene        SceneFunc
	FormDefaults FormConfig
	Metrics      *metrics.Collector
	staticFS     fs.FS
}

// NewHandlers creates handlers with the given dependencies.
// If compute or scene is nil, the matching endpoint returns 503 Service Unavailable.
func NewHandlers(broadcaster *StatusBroadcaster, compute ComputeFunc, scene SceneFunc, formDefaults FormConfig, m *metrics.Collector, staticFS fs.FS) *Handlers {
	return &Handlers{
		Broadcaster:  broadcaster,
		Compute:      compute,
		Scene:        scene,
		FormDefaults: formDefaults,
		Metrics:      m,
		staticFS:     staticFS,
	}
}

// HandleConfig returns the form default values (from config) as JSON.
func (h *Handlers) HandleConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.FormDefaults)
}

// ServeIndex serves the main HTML page (root path only).
func (h *Handlers) ServeIndex(w http.ResponseWriter, r *http.Request) {
	data, err := fs.ReadFile(h.staticFS, "index.html")
	if err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(data)
}

// HandleCompute handles POST /compute: angles, table, formulas and scene for the inputs.
func (h *Handlers) HandleCompute(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	var in Inputs
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "request body too large", http.StatusBadRequest)
			return
		}
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	g, err := in.GeoTime()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if h.Compute == nil {
		http.Error(w, "calculator not configured", http.StatusServiceUnavailable)
		return
	}

	id := uuid.NewString()
	start := time.Now()
	res, err := h.Compute(r.Context(), g)
	h.Metrics.ObserveComputation(metrics.KindAngles, time.Since(start))
	if err != nil {
		h.broadcast("error", fmt.Sprintf("computation %s failed: %v", id, err))
		debug.Error(fmt.Errorf("computation %s: %w", id, err))
		http.Error(w, "computation failed", http.StatusInternalServerError)
		return
	}

	debug.Live("computation %s: φ=%.2f° %s t=%.2fh → h=%.2f° a_s=%.2f°",
		id, in.LatitudeDeg, res.Date, in.LocalSolarTimeH, res.Angles.ElevationDeg, res.Angles.AzimuthDeg)
	if h.Broadcaster != nil {
		h.Broadcaster.BroadcastMsg(fmt.Sprintf("computation %s: day %d, h=%.2f°, a_s=%.2f°",
			id, res.Angles.DayOfYear, res.Angles.ElevationDeg, res.Angles.AzimuthDeg))
	}

	writeJSON(w, http.StatusOK, ComputeResponse{ID: id, Result: res})
}

// HandleScene handles GET /scene: the illustrative diagram alone.
func (h *Handlers) HandleScene(w http.ResponseWriter, r *http.Request) {
	if h.Scene == nil {
		http.Error(w, "scene not configured", http.StatusServiceUnavailable)
		return
	}
	start := time.Now()
	scene := h.Scene(r.Context())
	h.Metrics.ObserveComputation(metrics.KindScene, time.Since(start))
	debug.Trace("scene: %d vectors, %d arcs, sun mesh %dx%d",
		len(scene.Vectors), len(scene.Arcs), scene.Sun.Rows(), scene.Sun.Cols())

	writeJSON(w, http.StatusOK, scene)
}

// HandleStatusStream handles GET /status/stream for SSE.
// The stream ends when the request context is done, including on server shutdown.
func (h *Handlers) HandleStatusStream(w http.ResponseWriter, r *http.Request) {
	if h.Broadcaster == nil {
		http.Error(w, "status stream not configured", http.StatusServiceUnavailable)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // nginx

	ch, unsub := h.Broadcaster.Subscribe()
	defer unsub()
	h.Metrics.StreamOpened()
	defer h.Metrics.StreamClosed()

	// Send initial comment to establish connection
	w.Write([]byte(": connected\n\n"))
	flusher.Flush()

	// Heartbeat while idle
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			w.Write([]byte("data: " + msg + "\n\n"))
			flusher.Flush()

		case <-ticker.C:
			w.Write([]byte(": heartbeat\n\n"))
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}

func (h *Handlers) broadcast(level, msg string) {
	if h.Broadcaster != nil {
		h.Broadcaster.Broadcast(level, msg)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		debug.Error(fmt.Errorf("encode response: %w", err))
	}
}
