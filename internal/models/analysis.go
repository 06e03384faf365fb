// Navarasa - Music Emotion Analyzer
// Copyright 2026 Navarasa Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/navarasa/analyzer

package models

import (
	"time"
)

// Analysis is a persisted emotion analysis of one uploaded audio file.
//
// FilePath is where the audio lives on disk; it is a server-side detail
// and is excluded from all JSON responses. Clients reference the file
// via the /uploads static route instead.
type Analysis struct {
	ID             string         `json:"id"`
	Filename       string         `json:"filename"`
	FileSize       int64          `json:"fileSize"`
	FilePath       string         `json:"-"`
	Duration       float64        `json:"duration,omitempty"`
	Emotions       EmotionScores  `json:"emotions"`
	PrimaryEmotion string         `json:"primaryEmotion"`
	Confidence     float64        `json:"confidence"`
	AudioFeatures  *AudioFeatures `json:"audioFeatures,omitempty"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

// AudioFeatures holds optional signal-level features extracted alongside
// the emotion prediction.
type AudioFeatures struct {
	Tempo  float64 `json:"tempo,omitempty"`
	Energy float64 `json:"energy,omitempty"`
	Key    string  `json:"key,omitempty"`
}

// PredictionResult is the payload returned by the ML service's /predict
// endpoint. Field names follow the service's JSON contract.
type PredictionResult struct {
	Emotions       EmotionScores  `json:"emotions"`
	PrimaryEmotion string         `json:"primaryEmotion"`
	Confidence     float64        `json:"confidence"`
	Duration       float64        `json:"duration,omitempty"`
	Features       *AudioFeatures `json:"features,omitempty"`
}

// UploadedFile describes a stored audio upload before it is analyzed.
type UploadedFile struct {
	ID           string    `json:"fileId"`
	OriginalName string    `json:"originalName"`
	Size         int64     `json:"size"`
	Path         string    `json:"-"`
	UploadedAt   time.Time `json:"uploadedAt"`
}
