// Navarasa - Music Emotion Analyzer
// Copyright 2026 Navarasa Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/navarasa/analyzer

// Package supervisor builds the suture v4 supervision tree that runs the
// analyzer's long-lived components: the HTTP server and the Badger
// maintenance loop. Service wrappers live in the services subpackage.
package supervisor
