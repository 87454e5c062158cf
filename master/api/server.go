package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"fnplot.com/master/expr"
	"fnplot.com/master/plot"
	"fnplot.com/master/render"
)

// MaxRequestBytes caps the body of POST /visualize.
const MaxRequestBytes = 64 << 10

type Server struct {
	engine  *plot.Engine
	canvas  *render.Canvas
	logger  *slog.Logger
	metrics http.Handler
}

// NewServer wires the HTTP API. metrics may be nil, in which case
// /metrics is not served.
func NewServer(engine *plot.Engine, canvas *render.Canvas, logger *slog.Logger, metrics http.Handler) *Server {
	return &Server{engine: engine, canvas: canvas, logger: logger, metrics: metrics}
}

// VisualizeRequest is the body of POST /visualize.
type VisualizeRequest struct {
	Function string `json:"function"`
	Type     string `json:"type"`
}

// VisualizeResponse carries the sampled curve. A null y value is a gap.
type VisualizeResponse struct {
	Equation string        `json:"equation"`
	Label    string        `json:"label"`
	XValues  []float64     `json:"x_values"`
	YValues  []*float64    `json:"y_values"`
	Samples  []plot.Sample `json:"samples"`
}

type StatsResponse struct {
	TotalRequests    int            `json:"total_requests"`
	CompileErrors    int            `json:"compile_errors"`
	EvaluationErrors int            `json:"evaluation_errors"`
	InvalidModes     int            `json:"invalid_modes"`
	GapSamples       int            `json:"gap_samples"`
	RequestsByMode   map[string]int `json:"requests_by_mode"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// Handler returns the routed API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(s.enableCORS)

	r.Post("/visualize", s.handleVisualize)
	r.Get("/plot.png", s.handlePlot)
	r.Get("/stats", s.handleStats)
	r.Get("/functions", s.handleFunctions)
	r.Get("/health", s.handleHealth)
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics)
	}
	return r
}

// Start serves the API on addr.
func (s *Server) Start(addr string) error {
	s.logger.Info("API server listening", "addr", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// POST /visualize - Sample a function, its derivative or its integral
func (s *Server) handleVisualize(w http.ResponseWriter, r *http.Request) {
	var req VisualizeRequest
	body := http.MaxBytesReader(w, r.Body, MaxRequestBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.sendError(w, "Request body too large", http.StatusRequestEntityTooLarge)
			return
		}
		s.sendError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Function == "" {
		s.sendError(w, "Please enter a function", http.StatusBadRequest)
		return
	}

	curve, err := s.engine.VisualizeNamed(req.Function, req.Type)
	if err != nil {
		code := http.StatusInternalServerError
		if plot.IsRequestError(err) {
			code = http.StatusBadRequest
		}
		s.sendError(w, err.Error(), code)
		return
	}

	s.canvas.Draw(curve)
	s.sendJSON(w, newVisualizeResponse(curve))
}

func newVisualizeResponse(curve *plot.Curve) VisualizeResponse {
	resp := VisualizeResponse{
		Equation: curve.Label,
		Label:    curve.SeriesName(),
		XValues:  make([]float64, len(curve.Samples)),
		YValues:  make([]*float64, len(curve.Samples)),
		Samples:  curve.Samples,
	}
	for i, sample := range curve.Samples {
		resp.XValues[i] = sample.X
		if !sample.Gap {
			y := sample.Y
			resp.YValues[i] = &y
		}
	}
	return resp
}

// GET /plot.png - Render the last visualized curve
func (s *Server) handlePlot(w http.ResponseWriter, r *http.Request) {
	curve := s.canvas.Last()
	if curve == nil {
		s.sendError(w, render.ErrNothingDrawn.Error(), http.StatusNotFound)
		return
	}

	width, height := s.canvas.Size()
	ch, err := render.Chart(curve, width, height)
	if err != nil {
		s.sendError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	if err := render.Encode(w, ch); err != nil {
		s.logger.Error("failed to render plot", "error", err)
	}
}

// GET /stats - Get request statistics
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats := s.engine.Stats()
	s.sendJSON(w, StatsResponse{
		TotalRequests:    stats.TotalRequests,
		CompileErrors:    stats.CompileErrors,
		EvaluationErrors: stats.EvaluationErrors,
		InvalidModes:     stats.InvalidModes,
		GapSamples:       stats.GapSamples,
		RequestsByMode:   stats.RequestsByMode,
	})
}

// GET /functions - List supported function names
func (s *Server) handleFunctions(w http.ResponseWriter, r *http.Request) {
	s.sendJSON(w, map[string]interface{}{
		"variable":  expr.Variable,
		"functions": expr.Functions(),
	})
}

// GET /health - Health check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.sendJSON(w, map[string]string{
		"status": "ok",
	})
}

func (s *Server) sendJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

func (s *Server) sendError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}

func (s *Server) enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
