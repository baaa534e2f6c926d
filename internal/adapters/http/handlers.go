package httpadapter

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/emreCanbazoglu/pixel-sort-level-designer/internal/domain"
	"github.com/emreCanbazoglu/pixel-sort-level-designer/internal/generator"
	"github.com/emreCanbazoglu/pixel-sort-level-designer/internal/usecase"
)

var (
	gateResults = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "leveld_gate_results_total",
		Help: "Generation gate verdicts by result.",
	}, []string{"result"})
	solveOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "leveld_solve_outcomes_total",
		Help: "Direct solve outcomes by verdict.",
	}, []string{"outcome"})
)

type Handler struct {
	UC *usecase.Service
	// DefaultBudget applies when a solve request carries no budget.
	DefaultBudget domain.Budget
}

func New(uc *usecase.Service, budget domain.Budget) *Handler {
	return &Handler{UC: uc, DefaultBudget: budget}
}

func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/generate", h.handleGenerate)
	mux.HandleFunc("/api/solve", h.handleSolve)
	mux.HandleFunc("/api/verify", h.handleVerify)
	mux.HandleFunc("/api/level", h.handleLevel)
	mux.HandleFunc("/api/levels", h.handleLevels)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errResp struct {
	Error string `json:"error"`
}

// ---- Generate ----

type generateReq struct {
	Skeleton domain.Skeleton  `json:"skeleton"`
	Params   domain.GenParams `json:"params"`
	Save     bool             `json:"save,omitempty"`
}

type generateResp struct {
	Level      *domain.Level `json:"level,omitempty"`
	Attempts   int           `json:"attempts"`
	Nodes      int           `json:"nodes"`
	DurationMs int64         `json:"durationMs"`
	Error      string        `json:"error,omitempty"`
}

func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errResp{Error: "method not allowed"})
		return
	}
	var req generateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errResp{Error: "invalid JSON: " + err.Error()})
		return
	}
	lvl, st, err := h.UC.Generate(r.Context(), req.Skeleton, req.Params)
	resp := generateResp{Attempts: st.Attempts, Nodes: st.Nodes, DurationMs: st.Duration.Milliseconds()}
	if err != nil {
		// "rejected" counts gate verdicts only; bad input and aborted
		// runs get their own labels.
		var label string
		var status int
		switch {
		case errors.Is(err, domain.ErrMalformedBoard):
			label, status = "malformed", http.StatusBadRequest
		case errors.Is(err, generator.ErrRetriesExhausted):
			label, status = "rejected", http.StatusUnprocessableEntity
		default:
			label, status = "error", http.StatusInternalServerError
		}
		gateResults.WithLabelValues(label).Inc()
		resp.Error = err.Error()
		writeJSON(w, status, resp)
		return
	}
	gateResults.WithLabelValues("accepted").Inc()
	if req.Save {
		if err := h.UC.Save(r.Context(), lvl); err != nil {
			resp.Error = "generated but not saved: " + err.Error()
		}
	}
	resp.Level = lvl
	writeJSON(w, http.StatusOK, resp)
}

// ---- Solve ----

type solveReq struct {
	Palette []string      `json:"palette"`
	Top     domain.Grid   `json:"top"`
	Slots   domain.Grid   `json:"slots"`
	Budget  domain.Budget `json:"budget"`
}

func (h *Handler) handleSolve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errResp{Error: "method not allowed"})
		return
	}
	var req solveReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errResp{Error: "invalid JSON: " + err.Error()})
		return
	}
	board, err := domain.NewBoard(req.Palette, req.Top, req.Slots, domain.AllSides)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errResp{Error: err.Error()})
		return
	}
	budget := req.Budget
	if budget == (domain.Budget{}) {
		budget = h.DefaultBudget
	}
	res, err := h.UC.Solve(r.Context(), board, budget)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errResp{Error: err.Error()})
		return
	}
	solveOutcomes.WithLabelValues(res.Outcome.String()).Inc()
	writeJSON(w, http.StatusOK, res)
}

// ---- Verify ----

type verifyReq struct {
	Palette []string    `json:"palette"`
	Top     domain.Grid `json:"top"`
	Slots   domain.Grid `json:"slots"`
}

type verifyResp struct {
	OK        bool         `json:"ok"`
	Conflicts []domain.Pos `json:"conflicts,omitempty"`
	Error     string       `json:"error,omitempty"`
}

func (h *Handler) handleVerify(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errResp{Error: "method not allowed"})
		return
	}
	var req verifyReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errResp{Error: "invalid JSON: " + err.Error()})
		return
	}
	// Build without validation so the validator can report conflicts.
	board := &domain.Board{
		W: req.Top.W, H: req.Top.H,
		Palette: req.Palette, Top: req.Top, Slots: req.Slots,
		Sides: domain.AllSides,
	}
	ok, conflicts, err := h.UC.Validate(r.Context(), board)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, verifyResp{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, verifyResp{OK: ok, Conflicts: conflicts})
}

// ---- Persistence ----

func (h *Handler) handleLevel(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, errResp{Error: "method not allowed"})
		return
	}
	id := r.URL.Query().Get("id")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, errResp{Error: "missing id"})
		return
	}
	lvl, err := h.UC.Load(r.Context(), id)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, os.ErrNotExist) {
			status = http.StatusNotFound
		}
		writeJSON(w, status, errResp{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, lvl)
}

func (h *Handler) handleLevels(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, errResp{Error: "method not allowed"})
		return
	}
	start := time.Now()
	metas, err := h.UC.List(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errResp{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"levels":     metas,
		"durationMs": time.Since(start).Milliseconds(),
	})
}
