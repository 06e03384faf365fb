// Navarasa - Music Emotion Analyzer
// Copyright 2026 Navarasa Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/navarasa/analyzer

package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/navarasa/analyzer/internal/database"
	"github.com/navarasa/analyzer/internal/logging"
	"github.com/navarasa/analyzer/internal/models"
)

// ContactRequest is the POST /api/contact body.
type ContactRequest struct {
	Name    string `json:"name" validate:"required,max=100"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"required,max=200"`
	Message string `json:"message" validate:"required,max=5000"`
}

// ContactStatusRequest is the PATCH /api/contact/{id} body.
type ContactStatusRequest struct {
	Status string `json:"status" validate:"required,contact_status"`
}

// contactQuery carries the validated GET /api/contact parameters.
type contactQuery struct {
	Page   int    `validate:"gte=1"`
	Limit  int    `validate:"gte=1"`
	Status string `validate:"omitempty,contact_status"`
}

// SubmitContact handles POST /api/contact.
func (h *Handler) SubmitContact(w http.ResponseWriter, r *http.Request) {
	var req ContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "All fields are required", nil)
		return
	}
	if !validateRequest(w, &req) {
		return
	}

	contact := &models.Contact{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
	}
	if err := h.store.CreateContact(r.Context(), contact); err != nil {
		respondError(w, http.StatusInternalServerError,
			"Failed to send message. Please try again.", err)
		return
	}

	logging.Ctx(r.Context()).Info().Str("contact_id", contact.ID).Msg("contact submitted")

	respondSuccess(w, http.StatusCreated,
		"Message sent successfully! We will get back to you soon.",
		map[string]interface{}{
			"id":        contact.ID,
			"createdAt": contact.CreatedAt,
		})
}

// ListContacts handles GET /api/contact with pagination and an optional
// status filter. Admin surface.
func (h *Handler) ListContacts(w http.ResponseWriter, r *http.Request) {
	q := contactQuery{
		Page:   getIntParam(r, "page", 1),
		Limit:  getIntParam(r, "limit", h.cfg.API.ContactPageSize),
		Status: r.URL.Query().Get("status"),
	}
	if q.Limit > h.cfg.API.MaxPageSize {
		q.Limit = h.cfg.API.MaxPageSize
	}
	if !validateRequest(w, &q) {
		return
	}

	contacts, total, err := h.store.ListContacts(r.Context(), q.Page, q.Limit,
		database.ContactFilter{Status: q.Status})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch contacts", err)
		return
	}
	if contacts == nil {
		contacts = []*models.Contact{}
	}

	respondSuccess(w, http.StatusOK, "Contacts fetched", map[string]interface{}{
		"contacts":   contacts,
		"pagination": models.NewPagination(q.Page, q.Limit, total),
	})
}

// GetContact handles GET /api/contact/{id}. Opening a "new" submission
// marks it "read"; the transition happens on the first read only.
func (h *Handler) GetContact(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	contact, err := h.store.MarkContactRead(r.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrContactNotFound) {
			respondError(w, http.StatusNotFound, "Contact not found", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to fetch contact", err)
		return
	}

	respondSuccess(w, http.StatusOK, "Contact fetched", contact)
}

// UpdateContactStatus handles PATCH /api/contact/{id}.
func (h *Handler) UpdateContactStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req ContactStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid status", nil)
		return
	}
	if req.Status == "" || !models.ValidContactStatus(req.Status) {
		respondError(w, http.StatusBadRequest, "Invalid status", nil)
		return
	}

	contact, err := h.store.UpdateContactStatus(r.Context(), id, req.Status)
	if err != nil {
		if errors.Is(err, database.ErrContactNotFound) {
			respondError(w, http.StatusNotFound, "Contact not found", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to update status", err)
		return
	}

	respondSuccess(w, http.StatusOK, "Status updated", contact)
}

// DeleteContact handles DELETE /api/contact/{id}.
func (h *Handler) DeleteContact(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if _, err := h.store.DeleteContact(r.Context(), id); err != nil {
		if errors.Is(err, database.ErrContactNotFound) {
			respondError(w, http.StatusNotFound, "Contact not found", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to delete contact", err)
		return
	}

	respondSuccess(w, http.StatusOK, "Contact deleted successfully", nil)
}
