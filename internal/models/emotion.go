// Navarasa - Music Emotion Analyzer
// Copyright 2026 Navarasa Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/navarasa/analyzer

package models

// The nine rasas recognized by the analyzer. These are the only valid
// values for Analysis.PrimaryEmotion and the keys of EmotionScores.
const (
	RasaShringara = "shringara" // love, beauty
	RasaHasya     = "hasya"     // joy, laughter
	RasaKaruna    = "karuna"    // sorrow, compassion
	RasaRaudra    = "raudra"    // anger
	RasaVeera     = "veera"     // courage, heroism
	RasaBhayanaka = "bhayanaka" // fear
	RasaBibhatsa  = "bibhatsa"  // disgust
	RasaAdbhuta   = "adbhuta"   // wonder, surprise
	RasaShanta    = "shanta"    // peace, tranquility
)

// RasaLabels lists all nine rasa labels in canonical order.
var RasaLabels = []string{
	RasaShringara,
	RasaHasya,
	RasaKaruna,
	RasaRaudra,
	RasaVeera,
	RasaBhayanaka,
	RasaBibhatsa,
	RasaAdbhuta,
	RasaShanta,
}

// ValidRasa reports whether label is one of the nine rasas.
func ValidRasa(label string) bool {
	switch label {
	case RasaShringara, RasaHasya, RasaKaruna, RasaRaudra, RasaVeera,
		RasaBhayanaka, RasaBibhatsa, RasaAdbhuta, RasaShanta:
		return true
	}
	return false
}

// EmotionScores holds the per-rasa confidence scores for one analysis.
//
// Each score is an independent confidence in [0, 1] from a dedicated
// detector. The vector is not a probability distribution and is never
// renormalized; values are stored and served exactly as predicted.
type EmotionScores struct {
	Shringara float64 `json:"shringara"`
	Hasya     float64 `json:"hasya"`
	Karuna    float64 `json:"karuna"`
	Raudra    float64 `json:"raudra"`
	Veera     float64 `json:"veera"`
	Bhayanaka float64 `json:"bhayanaka"`
	Bibhatsa  float64 `json:"bibhatsa"`
	Adbhuta   float64 `json:"adbhuta"`
	Shanta    float64 `json:"shanta"`
}

// Get returns the score for the given rasa label, or 0 for an unknown label.
func (e EmotionScores) Get(label string) float64 {
	switch label {
	case RasaShringara:
		return e.Shringara
	case RasaHasya:
		return e.Hasya
	case RasaKaruna:
		return e.Karuna
	case RasaRaudra:
		return e.Raudra
	case RasaVeera:
		return e.Veera
	case RasaBhayanaka:
		return e.Bhayanaka
	case RasaBibhatsa:
		return e.Bibhatsa
	case RasaAdbhuta:
		return e.Adbhuta
	case RasaShanta:
		return e.Shanta
	}
	return 0
}

// Primary returns the rasa with the highest confidence and its score.
// Ties resolve to the earlier label in canonical order.
func (e EmotionScores) Primary() (string, float64) {
	best := RasaLabels[0]
	bestScore := e.Get(best)
	for _, label := range RasaLabels[1:] {
		if score := e.Get(label); score > bestScore {
			best, bestScore = label, score
		}
	}
	return best, bestScore
}

// InRange reports whether every score lies in [0, 1].
func (e EmotionScores) InRange() bool {
	for _, label := range RasaLabels {
		score := e.Get(label)
		if score < 0 || score > 1 {
			return false
		}
	}
	return true
}
