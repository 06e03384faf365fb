// Navarasa - Music Emotion Analyzer
// Copyright 2026 Navarasa Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/navarasa/analyzer

package api

import (
	"errors"
	"net/http"

	"github.com/navarasa/analyzer/internal/logging"
	"github.com/navarasa/analyzer/internal/storage"
)

// multipartOverhead leaves room for the multipart framing around the audio
// payload when capping the request body.
const multipartOverhead = 64 << 10

// Upload handles POST /api/upload. The audio arrives as the "audio" field
// of a multipart form and is streamed to disk; the response carries the
// server-assigned fileId used by POST /api/analyze.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.Upload.MaxSizeBytes+multipartOverhead)

	file, header, err := r.FormFile("audio")
	if err != nil {
		respondError(w, http.StatusBadRequest, "No file uploaded", nil)
		return
	}
	defer file.Close()

	stored, err := h.files.Save(header.Filename, header.Size, file)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrInvalidExtension):
			respondError(w, http.StatusBadRequest, err.Error(), nil)
		case errors.Is(err, storage.ErrFileTooLarge):
			// Size violations are validation failures, same class as a
			// rejected extension.
			respondError(w, http.StatusBadRequest,
				"File too large. Maximum size is 10MB.", nil)
		default:
			respondError(w, http.StatusInternalServerError, "Failed to upload file", err)
		}
		return
	}

	logging.Ctx(r.Context()).Info().
		Str("file_id", stored.ID).
		Int64("size", stored.Size).
		Msg("audio uploaded")

	// filePath is the public playback path, not the server-side location.
	respondSuccess(w, http.StatusOK, "File uploaded successfully", map[string]interface{}{
		"fileId":   stored.ID,
		"filename": stored.OriginalName,
		"filePath": "/uploads/" + stored.ID,
		"fileSize": stored.Size,
		"mimetype": header.Header.Get("Content-Type"),
	})
}
