// Navarasa - Music Emotion Analyzer
// Copyright 2026 Navarasa Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/navarasa/analyzer

/*
Package models defines data structures for the Navarasa backend.

This package contains all data models used throughout the application:
persisted documents, API request/response structures, and the prediction
payload returned by the external ML service. It is the single source of
truth for data structure definitions.

Key Components:

  - EmotionScores: Confidence scores for the nine rasas of classical
    Indian aesthetics (Navarasa)
  - Analysis: A persisted emotion analysis of one uploaded audio file
  - Contact: A contact form submission with admin workflow status
  - UploadedFile: Metadata for a stored audio upload
  - APIResponse: Standardized response envelope for all HTTP endpoints
  - Pagination: Page/limit/total metadata for listing endpoints

Emotion Model:

Each of the nine rasas carries an independent confidence in [0, 1]. The
scores are produced by per-emotion detectors and are intentionally NOT
normalized into a probability distribution; they do not need to sum
to 1. PrimaryEmotion is the label with the highest confidence.

JSON Marshaling:

All models serialize with camelCase field names matching the public API
contract. Time values use RFC3339. Analysis.FilePath is a server-side
detail and is never serialized.

Thread Safety:

All models are plain data structures, safe for concurrent reads and
immutable after creation by convention.

See Also:

  - internal/database: BadgerDB persistence of these models
  - internal/api: HTTP handlers returning these models
  - internal/mlclient: ML service client producing PredictionResult
*/
package models
