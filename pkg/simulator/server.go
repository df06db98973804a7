package simulator

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/flowpilot-dev/flowpilot/pkg/core"
	"github.com/flowpilot-dev/flowpilot/pkg/engine"
	"github.com/flowpilot-dev/flowpilot/pkg/logger"
)

// Server serves the execution engine's HTTP API with simulated runs. It
// speaks the same wire contract the real engine does, so the client stack
// can be pointed at it unchanged.
type Server struct {
	mux *http.ServeMux
}

// NewServer creates the simulated engine server.
func NewServer() *Server {
	s := &Server{mux: http.NewServeMux()}
	s.mux.HandleFunc("POST /workflow/run", s.handleRun)
	s.mux.HandleFunc("POST /workflow/execute-steps", s.handleExecuteSteps)
	s.mux.HandleFunc("POST /workflow/parse", s.handleParse)
	s.mux.HandleFunc("POST /workflow/stream", s.handleStream)
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	var req engine.RunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpError(w, http.StatusBadRequest, "invalid request body: %v", err)
		return
	}
	steps := ParseInstructions(req.Instructions)
	if len(steps) == 0 {
		httpError(w, http.StatusBadRequest, "failed to parse workflow instructions")
		return
	}
	logger.Info("simulated run: %d steps from instructions", len(steps))

	report := Run(steps, req.UserData)
	writeJSON(w, engine.RunResult{Report: *report, WorkflowSteps: steps})
}

func (s *Server) handleExecuteSteps(w http.ResponseWriter, r *http.Request) {
	var req engine.StepsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpError(w, http.StatusBadRequest, "invalid request body: %v", err)
		return
	}
	if len(req.Steps) == 0 {
		httpError(w, http.StatusBadRequest, "no steps to execute")
		return
	}
	logger.Info("simulated run: %d pre-composed steps", len(req.Steps))

	report := Run(req.Steps, req.UserData)
	writeJSON(w, engine.RunResult{Report: *report})
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	var req engine.RunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpError(w, http.StatusBadRequest, "invalid request body: %v", err)
		return
	}
	steps := ParseInstructions(req.Instructions)
	result := engine.ParseResult{Success: len(steps) > 0, Steps: steps, Count: len(steps)}
	if len(steps) == 0 {
		result.Error = "no recognizable steps in instructions"
	}
	writeJSON(w, result)
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	var req engine.StreamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpError(w, http.StatusBadRequest, "invalid request body: %v", err)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		httpError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	emit := func(name engine.EventType, payload any) {
		data, err := json.Marshal(payload)
		if err != nil {
			return
		}
		fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, data)
		flusher.Flush()
	}

	emit(engine.EventStatus, engine.StatusEvent{Message: "Starting workflow..."})

	steps := req.Steps
	if len(steps) == 0 && req.Instructions != "" {
		steps = ParseInstructions(req.Instructions)
	}
	if len(steps) == 0 {
		emit(engine.EventStreamError, engine.StreamErrorEvent{Message: "no steps to execute"})
		return
	}

	onStart := func(number int, action string) {
		emit(engine.EventStepStart, engine.StepStartEvent{
			StepNumber: number,
			Action:     action,
			TotalSteps: len(steps),
		})
	}
	onStep := func(sr core.StepReport) {
		emit(engine.EventStepComplete, sr)
	}

	workflowID := nextWorkflowID()
	emit(engine.EventWorkflowParsed, engine.WorkflowParsedEvent{
		WorkflowID: workflowID,
		StepCount:  len(steps),
		Steps:      steps,
	})

	report := runWith(steps, req.UserData, onStart, onStep)
	report.WorkflowID = workflowID

	emit(engine.EventWorkflowComplete, engine.WorkflowCompleteEvent{
		WorkflowID:      workflowID,
		Success:         report.Success,
		TotalDurationMs: report.TotalDurationMs,
		StepsCompleted:  report.StepsCompleted(),
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("encode response: %v", err)
	}
}

func httpError(w http.ResponseWriter, status int, format string, v ...any) {
	msg := fmt.Sprintf(format, v...)
	logger.Warn("simulator: %s", msg)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"detail": msg})
}
