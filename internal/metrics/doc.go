// Navarasa - Music Emotion Analyzer
// Copyright 2026 Navarasa Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/navarasa/analyzer

/*
Package metrics provides Prometheus instrumentation for the backend.

All collectors are registered with the default registry via promauto and
exposed at GET /metrics by promhttp. Recording helpers (RecordAPIRequest,
RecordMLRequest, RecordUpload, RecordStoreOperation) keep label handling in
one place so call sites stay one-liners.

Metric families:

  - api_requests_total, api_request_duration_seconds, api_active_requests
  - uploads_total, upload_size_bytes
  - ml_requests_total, ml_request_duration_seconds, ml_cold_starts_total
  - circuit_breaker_state, circuit_breaker_transitions_total
  - store_operation_duration_seconds, store_operation_errors_total,
    store_documents
*/
package metrics
