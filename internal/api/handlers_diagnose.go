package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/agriguard/agriguard/internal/diagnose"
	"github.com/agriguard/agriguard/internal/export"
	"github.com/agriguard/agriguard/internal/pipeline"
)

type diagnoseRequest struct {
	Description string `json:"description"`
	ImageBase64 string `json:"image_base64"`
	Language    string `json:"language"`
}

func (s *Server) handleDiagnose(w http.ResponseWriter, r *http.Request) {
	// Base64 inflates images by a third; allow some room for the JSON envelope.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes*4/3+64*1024)

	var body diagnoseRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			jsonError(w, fmt.Sprintf("request exceeds max size (%d bytes)", tooLarge.Limit), http.StatusRequestEntityTooLarge)
			return
		}
		jsonError(w, "invalid JSON body: "+err.Error(), http.StatusBadRequest)
		return
	}

	if s.cfg.GeminiAPIKey == "" {
		jsonError(w, diagnose.ErrMissingAPIKey.Error(), http.StatusInternalServerError)
		return
	}

	lang, err := s.language(body.Language)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	req := diagnose.Request{
		Description: body.Description,
		ImageBase64: body.ImageBase64,
		Language:    lang,
	}
	attachments, err := diagnose.ValidateRequest(req, s.cfg.MaxDescriptionChars)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	job, err := s.orchestrator.Submit(pipeline.NewJob(uuid.NewString(), req, attachments))
	if err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	log := s.log.With("job_id", job.ID)
	log.Info("diagnosis submitted", "language", lang, "images", len(attachments))

	if r.URL.Query().Get("wait") != "true" {
		writeJSON(w, http.StatusAccepted, map[string]any{
			"job_id":   job.ID,
			"status":   job.Snapshot().Status,
			"poll_url": fmt.Sprintf("/api/diagnose/%s", job.ID),
		})
		return
	}

	select {
	case <-job.Done():
	case <-r.Context().Done():
		log.Warn("client went away while waiting", "error", r.Context().Err())
		return
	}
	snap := job.Snapshot()
	if snap.Status == pipeline.StatusFailed {
		jsonError(w, failureMessage(job.Err()), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// failureMessage returns the user-facing text for a failed job.
func failureMessage(err error) string {
	switch {
	case err == nil:
		return diagnose.ErrProvider.Error()
	case errors.Is(err, diagnose.ErrProvider), errors.Is(err, pipeline.ErrStopped):
		return err.Error()
	default:
		return fmt.Sprintf("%s: %s", diagnose.ErrProvider, err)
	}
}

func (s *Server) handleDiagnoseStatus(w http.ResponseWriter, r *http.Request) {
	job := s.orchestrator.GetJob(chi.URLParam(r, "jobID"))
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, job.Snapshot())
}

func (s *Server) handleDiagnoseReport(w http.ResponseWriter, r *http.Request) {
	job := s.orchestrator.GetJob(chi.URLParam(r, "jobID"))
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	view, ok := job.Result()
	if !ok {
		jsonError(w, fmt.Sprintf("job is %s", job.Snapshot().Status), http.StatusConflict)
		return
	}

	switch format {
	case export.FormatHTML:
		out, err := export.HTML(view)
		if err != nil {
			s.log.Error("html export failed", "job_id", job.ID, "error", err)
			jsonError(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(out))
	default:
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.Write([]byte(export.Markdown(view)))
	}
}
