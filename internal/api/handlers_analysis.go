// Navarasa - Music Emotion Analyzer
// Copyright 2026 Navarasa Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/navarasa/analyzer

package api

import (
	"errors"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/navarasa/analyzer/internal/database"
	"github.com/navarasa/analyzer/internal/logging"
	"github.com/navarasa/analyzer/internal/mlclient"
	"github.com/navarasa/analyzer/internal/models"
	"github.com/navarasa/analyzer/internal/storage"
)

// AnalyzeRequest is the POST /api/analyze body.
type AnalyzeRequest struct {
	FileID string `json:"fileId" validate:"required"`
}

// historyQuery carries the validated GET /api/history parameters.
type historyQuery struct {
	Page    int    `validate:"gte=1"`
	Limit   int    `validate:"gte=1"`
	Emotion string `validate:"omitempty,rasa"`
	SortBy  string
}

// Analyze handles POST /api/analyze: forward the previously uploaded file
// to the ML service, persist the prediction, and return the record.
//
// The handler makes exactly one upstream attempt. When the ML service is
// cold it answers 503 with retry guidance and leaves the retry cadence to
// the client.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "File ID is required", nil)
		return
	}
	if !validateRequest(w, &req) {
		return
	}

	path, err := h.files.Resolve(req.FileID)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			respondError(w, http.StatusNotFound, "File not found", nil)
		case errors.Is(err, storage.ErrInvalidName):
			respondError(w, http.StatusBadRequest, "Invalid file ID", nil)
		default:
			respondError(w, http.StatusInternalServerError, "Failed to analyze audio", err)
		}
		return
	}

	info, err := os.Stat(path)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to analyze audio", err)
		return
	}

	prediction, err := h.ml.Predict(r.Context(), path)
	if err != nil {
		if errors.Is(err, mlclient.ErrUnavailable) {
			respondUnavailable(w, err)
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to analyze audio", err)
		return
	}

	analysis := &models.Analysis{
		Filename:       req.FileID,
		FileSize:       info.Size(),
		FilePath:       path,
		Duration:       prediction.Duration,
		Emotions:       prediction.Emotions,
		PrimaryEmotion: prediction.PrimaryEmotion,
		Confidence:     prediction.Confidence,
		AudioFeatures:  prediction.Features,
	}

	if err := h.store.CreateAnalysis(r.Context(), analysis); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to analyze audio", err)
		return
	}

	logging.Ctx(r.Context()).Info().
		Str("analysis_id", analysis.ID).
		Str("primary_emotion", analysis.PrimaryEmotion).
		Float64("confidence", analysis.Confidence).
		Msg("audio analyzed")

	respondSuccess(w, http.StatusOK, "Audio analyzed successfully", analysis)
}

// History handles GET /api/history with pagination and an optional
// primary-emotion filter.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	q := historyQuery{
		Page:    getIntParam(r, "page", 1),
		Limit:   getIntParam(r, "limit", h.cfg.API.HistoryPageSize),
		Emotion: r.URL.Query().Get("emotion"),
		SortBy:  r.URL.Query().Get("sortBy"),
	}
	if q.Limit > h.cfg.API.MaxPageSize {
		q.Limit = h.cfg.API.MaxPageSize
	}
	if !validateRequest(w, &q) {
		return
	}
	if q.SortBy != "" && !database.AnalysisSortFields[q.SortBy] {
		respondError(w, http.StatusBadRequest, "Invalid sort field", nil)
		return
	}

	analyses, total, err := h.store.ListAnalyses(r.Context(), q.Page, q.Limit,
		database.AnalysisFilter{Emotion: q.Emotion, SortBy: q.SortBy})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch history", err)
		return
	}
	if analyses == nil {
		analyses = []*models.Analysis{}
	}

	respondSuccess(w, http.StatusOK, "History fetched", map[string]interface{}{
		"analyses":   analyses,
		"pagination": models.NewPagination(q.Page, q.Limit, total),
	})
}

// GetAnalysis handles GET /api/history/{id}.
func (h *Handler) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	analysis, err := h.store.GetAnalysis(r.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrAnalysisNotFound) {
			respondError(w, http.StatusNotFound, "Analysis not found", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to fetch analysis", err)
		return
	}

	respondSuccess(w, http.StatusOK, "Analysis fetched", analysis)
}

// DeleteAnalysis handles DELETE /api/history/{id}. The record is removed
// first; audio file cleanup is best-effort and a failure there only logs.
func (h *Handler) DeleteAnalysis(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	analysis, err := h.store.DeleteAnalysis(r.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrAnalysisNotFound) {
			respondError(w, http.StatusNotFound, "Analysis not found", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to delete analysis", err)
		return
	}

	if err := h.files.Remove(analysis.Filename); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).
			Str("file", analysis.Filename).
			Msg("failed to remove audio file for deleted analysis")
	}

	respondSuccess(w, http.StatusOK, "Analysis deleted successfully", nil)
}
