package monitoring

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/ducminhle1904/portfolio-ga/pkg/optimization"
)

var startTime = time.Now()

// Run states reported by the health endpoint
const (
	StatusIdle     = "idle"
	StatusRunning  = "running"
	StatusFinished = "finished"
	StatusFailed   = "failed"
)

// HealthChecker tracks the progress of the current run for the /health endpoint
type HealthChecker struct {
	mu              sync.RWMutex
	status          string
	runID           string
	generation      int
	bestEverFitness float64
	lastProgress    time.Time
	outcome         optimization.Outcome
	errors          []string
}

type HealthStatus struct {
	Status          string               `json:"status"`
	Timestamp       time.Time            `json:"timestamp"`
	RunID           string               `json:"run_id,omitempty"`
	Generation      int                  `json:"generation"`
	BestEverFitness float64              `json:"best_ever_fitness"`
	LastProgress    time.Time            `json:"last_progress"`
	Outcome         optimization.Outcome `json:"outcome,omitempty"`
	Uptime          string               `json:"uptime"`
	Errors          []string             `json:"errors,omitempty"`
}

func NewHealthChecker() *HealthChecker {
	return &HealthChecker{
		status: StatusIdle,
		errors: make([]string, 0),
	}
}

// Start marks a run as in progress
func (h *HealthChecker) Start(runID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.status = StatusRunning
	h.runID = runID
	h.generation = 0
	h.lastProgress = time.Now()
}

// OnGeneration records progress; HealthChecker is a GenerationObserver
func (h *HealthChecker) OnGeneration(stats optimization.GenerationStats) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.status == StatusIdle {
		h.status = StatusRunning
	}
	h.generation = stats.Generation
	h.bestEverFitness = stats.BestEverFitness
	h.lastProgress = time.Now()
}

// Finish records the outcome of a completed run
func (h *HealthChecker) Finish(result *optimization.Result) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.status = StatusFinished
	h.runID = result.RunID
	h.outcome = result.Outcome
	h.generation = result.Generations
	if result.Best != nil {
		h.bestEverFitness = result.Best.Fitness
	}
}

// Fail records an error that stopped the run
func (h *HealthChecker) Fail(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.status = StatusFailed
	h.errors = append(h.errors, err.Error())
}

// Status returns a snapshot of the current state
func (h *HealthChecker) Status() HealthStatus {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return HealthStatus{
		Status:          h.status,
		Timestamp:       time.Now(),
		RunID:           h.runID,
		Generation:      h.generation,
		BestEverFitness: h.bestEverFitness,
		LastProgress:    h.lastProgress,
		Outcome:         h.outcome,
		Uptime:          time.Since(startTime).String(),
		Errors:          append([]string(nil), h.errors...),
	}
}

func (h *HealthChecker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	health := h.Status()

	w.Header().Set("Content-Type", "application/json")
	if health.Status == StatusFailed {
		w.WriteHeader(http.StatusInternalServerError)
	}
	json.NewEncoder(w).Encode(health)
}
