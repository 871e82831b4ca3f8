package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/ats-autofill/internal/autofill"
	"github.com/jonathan/ats-autofill/internal/db"
	"github.com/jonathan/ats-autofill/internal/profile"
	"github.com/jonathan/ats-autofill/internal/server/middleware"
)

// streamBuffer bounds the write events queued for a slow stream client.
const streamBuffer = 256

// FillRequest is the body of POST /fill and POST /fill/stream.
type FillRequest struct {
	Profile          *profile.Profile `json:"profile" validate:"required"`
	SelectedResumeID string           `json:"selectedResumeId,omitempty"`
	URL              string           `json:"url,omitempty" validate:"omitempty,url"`
}

// FillsResponse is the body of GET /fills.
type FillsResponse struct {
	Fills []db.FillRecord `json:"fills"`
	Count int             `json:"count"`
}

// handlePing answers the liveness probe.
func (s *Server) handlePing(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.engine.Ping())
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// decodeFill reads and validates a fill request.
func (s *Server) decodeFill(r *http.Request) (*FillRequest, error) {
	var req FillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, &ErrValidation{Field: "body", Message: "invalid JSON: " + err.Error()}
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err)
	}
	return &req, nil
}

// startFill navigates when asked to, then runs the synchronous phases of a fill.
func (s *Server) startFill(r *http.Request, req *FillRequest, opts ...autofill.FillOption) (autofill.Outcome, *autofill.Run, error) {
	ctx := r.Context()
	s.fillMu.Lock()
	defer s.fillMu.Unlock()

	fields := []zap.Field{zap.String("url", req.URL), zap.Bool("stream", len(opts) > 0)}
	if clientID, err := middleware.GetClientID(r); err == nil {
		fields = append(fields, zap.String("client_id", clientID))
	}
	s.logger.Info("fill requested", fields...)

	if req.URL != "" {
		if s.navigator == nil {
			return autofill.Outcome{}, nil, &ErrNavigation{URL: req.URL}
		}
		if err := s.navigator.Navigate(ctx, req.URL); err != nil {
			return autofill.Outcome{}, nil, &ErrNavigation{URL: req.URL, Cause: err}
		}
	}

	out, run := s.engine.Fill(ctx, req.Profile, req.SelectedResumeID, opts...)
	s.record(out, run)
	return out, run, nil
}

// record stores the outcome and, once the run drains, what its later phases did.
func (s *Server) record(out autofill.Outcome, run *autofill.Run) {
	if s.store == nil {
		return
	}
	url := ""
	if run != nil {
		url = run.URL()
	}
	ctx := context.Background()
	if _, err := s.store.RecordFill(ctx, db.FillInput{
		RunID:          out.RunID,
		URL:            url,
		Platform:       out.Platform,
		Success:        out.Success,
		FilledFields:   out.FilledFieldCount,
		ResumeUploaded: out.ResumeUploadDetected,
		Error:          out.Error,
	}); err != nil {
		s.logger.Error("failed to record fill", zap.String("run_id", out.RunID), zap.Error(err))
		return
	}
	if run == nil {
		return
	}
	go func() {
		<-run.Done()
		stats := run.Stats()
		if err := s.store.CompleteFill(ctx, run.ID, stats.Async+stats.Rescan, stats.Dropped); err != nil {
			s.logger.Error("failed to complete fill record", zap.String("run_id", run.ID), zap.Error(err))
		}
	}()
}

// handleFill runs a fill and returns its outcome once the synchronous phases are done.
func (s *Server) handleFill(w http.ResponseWriter, r *http.Request) {
	req, err := s.decodeFill(r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	out, _, err := s.startFill(r, req)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, out)
}

// handleFillStream runs a fill and streams its outcome, every later write, and a final
// completion event once the run drains.
func (s *Server) handleFillStream(w http.ResponseWriter, r *http.Request) {
	req, err := s.decodeFill(r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	events := make(chan autofill.WriteEvent, streamBuffer)
	onWrite := autofill.OnWrite(func(ev autofill.WriteEvent) {
		if ev.Phase == autofill.PhaseInstant {
			return
		}
		select {
		case events <- ev:
		default:
			s.logger.Warn("stream client too slow, dropping write event", zap.String("uid", ev.UID))
		}
	})

	out, run, err := s.startFill(r, req, onWrite)
	if err != nil {
		sse.WriteError(err.Error())
		return
	}
	if err := sse.WriteEvent("outcome", out); err != nil {
		return
	}
	if run == nil {
		sse.WriteComplete(CompleteEvent{RunID: out.RunID, Status: "failed"})
		return
	}

	for {
		select {
		case ev := <-events:
			if err := sse.WriteEvent("write", ev); err != nil {
				return
			}
		case <-run.Done():
			for {
				select {
				case ev := <-events:
					if err := sse.WriteEvent("write", ev); err != nil {
						return
					}
				default:
					sse.WriteComplete(CompleteEvent{
						RunID:     run.ID,
						Status:    "completed",
						Stats:     run.Stats(),
						Cancelled: run.Cancelled(),
					})
					return
				}
			}
		case <-r.Context().Done():
			return
		}
	}
}

// handleListFills returns recent fill records.
func (s *Server) handleListFills(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.errorResponse(w, HTTPStatus(ErrNoStore), ErrNoStore.Error())
		return
	}

	limit := db.DefaultListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			s.errorResponse(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	fills, err := s.store.ListFills(r.Context(), limit)
	if err != nil {
		s.logger.Error("failed to list fills", zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, "failed to list fills")
		return
	}
	if fills == nil {
		fills = []db.FillRecord{}
	}
	s.jsonResponse(w, http.StatusOK, FillsResponse{Fills: fills, Count: len(fills)})
}

// handleGetFill returns one fill record by run id.
func (s *Server) handleGetFill(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.errorResponse(w, HTTPStatus(ErrNoStore), ErrNoStore.Error())
		return
	}

	runID, err := uuid.Parse(r.PathValue("runId"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid run id")
		return
	}

	fill, err := s.store.GetFill(r.Context(), runID)
	if err != nil {
		s.logger.Error("failed to get fill", zap.String("run_id", runID.String()), zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, "failed to get fill")
		return
	}
	if fill == nil {
		s.errorResponse(w, http.StatusNotFound, "fill not found")
		return
	}
	s.jsonResponse(w, http.StatusOK, fill)
}
