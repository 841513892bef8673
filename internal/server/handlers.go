// internal/server/handlers.go
package server

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"decision-assistant/internal/common/errors"
	"decision-assistant/internal/common/metrics"
	"decision-assistant/internal/intake"
	"decision-assistant/internal/models"
	"decision-assistant/internal/store"

	"github.com/google/uuid"
)

const maxIntakeBody = 64 << 10 // 64 KiB is plenty for a form payload

// validationFailure is the rejection body carrying per-field errors.
type validationFailure struct {
	Error  string              `json:"error"`
	Fields []intake.FieldError `json:"fields"`
}

// handleCreateDecision validates the intake, evaluates it, persists the
// record, and returns it.
func (s *Server) handleCreateDecision(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.requestContext(r)
	defer cancel()

	payload, err := io.ReadAll(io.LimitReader(r.Body, maxIntakeBody))
	if err != nil {
		s.errHandler.Respond(w, r, errors.NewIntakeParseFailedError(err))
		return
	}

	p, vr, err := intake.ParseAndValidate(payload)
	if err != nil {
		metrics.IntakesRejected.WithLabelValues(string(errors.ErrCodeIntakeParseFailed)).Inc()
		s.errHandler.Respond(w, r, errors.NewIntakeParseFailedError(err))
		return
	}
	if !vr.Valid {
		status := http.StatusBadRequest
		code := errors.ErrCodeIntakeValidationFailed
		if vr.Schema {
			status = http.StatusUnprocessableEntity
			code = errors.ErrCodeIntakeSchemaInvalid
		}
		metrics.IntakesRejected.WithLabelValues(string(code)).Inc()
		writeJSON(w, status, validationFailure{
			Error:  "intake validation failed",
			Fields: vr.Errors,
		})
		return
	}

	// Identical intake within the cache TTL: return the stored decision.
	if s.cache != nil {
		if rec := s.cache.Get(ctx, p); rec != nil {
			metrics.CacheHits.WithLabelValues("hit").Inc()
			writeJSON(w, http.StatusOK, rec)
			return
		}
		metrics.CacheHits.WithLabelValues("miss").Inc()
	}

	start := time.Now()
	output := s.engine.Evaluate(p)

	rec := &models.DecisionRecord{
		ID:        uuid.New().String(),
		Intake:    *p,
		Output:    *output,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.store.Save(ctx, rec); err != nil {
		s.errHandler.Respond(w, r, errors.NewDatabaseInsertFailedError(err))
		return
	}

	metrics.DecisionsEvaluated.WithLabelValues(output.Decision).Inc()
	metrics.DecisionScores.Observe(float64(output.Score))
	if s.obs != nil {
		s.obs.RecordDecision(ctx, output.Decision)
		s.obs.RecordDecisionDuration(ctx, time.Since(start), output.Decision)
	}

	// Secondary writes degrade: the decision is already durable.
	if s.cache != nil {
		s.cache.Put(ctx, rec)
	}
	if s.history.Enabled() {
		if err := s.history.Index(ctx, rec); err != nil {
			s.logger.Warn("history index write failed", map[string]interface{}{
				"decisionId": rec.ID,
				"error":      err.Error(),
			})
		}
	}
	s.notifier.NotifyDecision(ctx, rec)

	s.logger.Info("decision created", map[string]interface{}{
		"decisionId": rec.ID,
		"decision":   output.Decision,
		"score":      output.Score,
	})

	writeJSON(w, http.StatusOK, rec)
}

// handleGetDecision fetches a stored decision by id.
func (s *Server) handleGetDecision(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.requestContext(r)
	defer cancel()

	id := r.PathValue("id")
	if _, err := uuid.Parse(id); err != nil {
		s.errHandler.Respond(w, r, errors.NewDecisionNotFoundError(id))
		return
	}

	rec, err := s.store.GetByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, store.ErrNotFound) {
			s.errHandler.Respond(w, r, errors.NewDecisionNotFoundError(id))
			return
		}
		s.errHandler.Respond(w, r, errors.NewQueryExecutionFailedError("get_decision", err))
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

// handleListDecisions returns recent decisions, newest first.
func (s *Server) handleListDecisions(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.requestContext(r)
	defer cancel()

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	records, err := s.store.ListRecent(ctx, limit)
	if err != nil {
		s.errHandler.Respond(w, r, errors.NewQueryExecutionFailedError("list_decisions", err))
		return
	}
	if records == nil {
		records = []*models.DecisionRecord{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"decisions": records,
		"count":     len(records),
	})
}

// handleSearchDecisions runs a full-text query over the history index.
func (s *Server) handleSearchDecisions(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.requestContext(r)
	defer cancel()

	if !s.history.Enabled() {
		s.errHandler.Respond(w, r, errors.NewSearchUnavailableError())
		return
	}

	query := r.URL.Query().Get("q")
	if query == "" {
		s.errHandler.Respond(w, r, errors.NewBusinessRuleError("missing query", "q parameter is required"))
		return
	}

	size := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 50 {
			size = n
		}
	}

	hits, err := s.history.Search(ctx, query, size)
	if err != nil {
		s.errHandler.Respond(w, r, errors.NewSearchQueryFailedError(err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"hits":  hits,
		"count": len(hits),
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	if s.readiness != nil {
		ctx, cancel := s.requestContext(r)
		defer cancel()
		if err := s.readiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ready",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
