// Package stub serves a local stand-in for the model evaluation and
// prediction backend. It scores uploaded datasets with simple baselines
// computed from the data and answers effort predictions with an intermediate
// COCOMO estimate.
package stub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/idlab-discover/modelmaster-cli/internal/predict"
	"github.com/idlab-discover/modelmaster-cli/internal/results"
	"github.com/idlab-discover/modelmaster-cli/internal/tabular"
)

// DefaultAddr is the listen address of the stub.
const DefaultAddr = "localhost:5000"

const maxUploadBytes = 32 << 20

// Server is the stub backend.
type Server struct {
	schema  predict.Schema
	predict func(map[string]float64) (float64, error)
	router  *chi.Mux
}

// Option configures a Server.
type Option func(*Server)

// WithSchema replaces the prediction schema and estimator.
func WithSchema(s predict.Schema, estimate func(map[string]float64) (float64, error)) Option {
	return func(srv *Server) {
		srv.schema = s
		srv.predict = estimate
	}
}

// New builds a Server with the bundled effort model.
func New(opts ...Option) *Server {
	s := &Server{
		schema:  EffortSchema(),
		predict: EstimateEffort,
		router:  chi.NewRouter(),
	}
	for _, o := range opts {
		o(s)
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(requestLogger)
	s.router.Use(middleware.Recoverer)
}

func (s *Server) setupRoutes() {
	s.router.Post("/api/process", s.handleProcess)
	s.router.Get("/api/predict/input-ranges", s.handleInputRanges)
	s.router.Post("/api/predict", s.handlePredict)
	s.router.Get("/api/health", s.handleHealth)
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}
	srv := &http.Server{Addr: addr, Handler: s.router, ReadHeaderTimeout: 10 * time.Second}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	logf("", "listening on %s", addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "No file part")
		return
	}
	file, hdr, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file part")
		return
	}
	defer file.Close()
	if hdr.Filename == "" {
		writeError(w, http.StatusBadRequest, "No file selected")
		return
	}
	target := r.FormValue("target_variable")
	if target == "" {
		writeError(w, http.StatusBadRequest, "No target variable specified")
		return
	}
	modelType := r.FormValue("model_type")
	if modelType == "" {
		modelType = results.Regression.String()
	}
	task, err := results.ParseTaskType(modelType)
	if err != nil || task.String() != modelType {
		writeError(w, http.StatusBadRequest, "Invalid model type. Must be 'regression' or 'classification'")
		return
	}

	var buf strings.Builder
	if _, err := io.Copy(&buf, io.LimitReader(file, maxUploadBytes)); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	ev, err := Evaluate(tabular.Parse(buf.String()), target, task)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp := map[string]any{
		"results":         ev.Results,
		"best_model":      ev.BestModel,
		"model_type":      task.String(),
		"target_variable": target,
	}
	if task == results.Classification {
		if ev.ClassDistribution != nil && ev.ClassDistribution.Total() > 0 {
			resp["class_distribution"] = ev.ClassDistribution
		}
		resp["best_accuracy"] = ev.BestScore
	} else {
		resp["best_r2_score"] = ev.BestScore
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleInputRanges(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.schema)
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Inputs map[string]any `json:"inputs"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Inputs == nil {
		writeError(w, http.StatusBadRequest, "Invalid request format. Expected JSON with 'inputs' field.")
		return
	}

	var missing []string
	for _, c := range s.schema.Columns {
		if _, ok := body.Inputs[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":           "Missing required inputs: " + strings.Join(missing, ", "),
			"required_inputs": s.schema.Columns,
		})
		return
	}

	record := make(map[string]float64, len(s.schema.Columns))
	for _, c := range s.schema.Columns {
		v, err := toFloat(body.Inputs[c])
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		record[c] = v
	}

	p, err := s.predict(record)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"prediction": p, "inputs": body.Inputs})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func toFloat(v any) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, fmt.Errorf("could not convert string to float: '%s'", x)
		}
		return f, nil
	}
	return 0, fmt.Errorf("could not convert %T to float", v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
