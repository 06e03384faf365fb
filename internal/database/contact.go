// Navarasa - Music Emotion Analyzer
// Copyright 2026 Navarasa Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/navarasa/analyzer

package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/navarasa/analyzer/internal/metrics"
	"github.com/navarasa/analyzer/internal/models"
)

// ErrContactNotFound is returned when no contact exists for an ID.
var ErrContactNotFound = errors.New("contact not found")

// ContactFilter narrows contact listings. Zero values match everything.
type ContactFilter struct {
	// Status filters on workflow status equality.
	Status string
}

// CreateContact assigns an ID, timestamps, and the initial "new" status,
// then persists the submission with its time-index key.
func (s *Store) CreateContact(ctx context.Context, c *models.Contact) error {
	start := time.Now()

	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.Status == "" {
		c.Status = models.ContactStatusNew
	}
	now := time.Now().UTC()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now

	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal contact: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(contactKeyPrefix+c.ID), data); err != nil {
			return fmt.Errorf("set contact: %w", err)
		}

		tsKey := []byte(contactTSKeyPrefix + inverseNanos(c.CreatedAt.UnixNano()) + ":" + c.ID)
		if err := txn.Set(tsKey, []byte(c.ID)); err != nil {
			return fmt.Errorf("set contact time index: %w", err)
		}

		return nil
	})

	metrics.RecordStoreOperation("create", "contact", time.Since(start), err)
	if err == nil {
		metrics.StoreDocuments.WithLabelValues("contact").Inc()
	}
	return err
}

// GetContact retrieves one contact by ID.
func (s *Store) GetContact(ctx context.Context, id string) (*models.Contact, error) {
	start := time.Now()

	var c models.Contact
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(contactKeyPrefix + id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrContactNotFound
		}
		if err != nil {
			return fmt.Errorf("get contact: %w", err)
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &c)
		})
	})

	metrics.RecordStoreOperation("get", "contact", time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListContacts returns one page of contacts, newest first, along with the
// total number of records matching the filter. Page is 1-based.
func (s *Store) ListContacts(ctx context.Context, page, limit int, filter ContactFilter) ([]*models.Contact, int64, error) {
	start := time.Now()

	var (
		results []*models.Contact
		total   int64
	)
	skip := int64(page-1) * int64(limit)

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(contactTSKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var id string
			if err := it.Item().Value(func(val []byte) error {
				id = string(val)
				return nil
			}); err != nil {
				return err
			}

			item, err := txn.Get([]byte(contactKeyPrefix + id))
			if errors.Is(err, badger.ErrKeyNotFound) {
				continue
			}
			if err != nil {
				return fmt.Errorf("get contact %s: %w", id, err)
			}

			var c models.Contact
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &c)
			}); err != nil {
				return fmt.Errorf("unmarshal contact %s: %w", id, err)
			}

			if filter.Status != "" && c.Status != filter.Status {
				continue
			}

			total++
			if total <= skip || len(results) >= limit {
				continue
			}
			results = append(results, &c)
		}
		return nil
	})

	metrics.RecordStoreOperation("list", "contact", time.Since(start), err)
	if err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

// UpdateContactStatus sets the workflow status of one contact and returns
// the updated record.
func (s *Store) UpdateContactStatus(ctx context.Context, id, status string) (*models.Contact, error) {
	start := time.Now()

	var c models.Contact
	err := s.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(contactKeyPrefix + id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrContactNotFound
		}
		if err != nil {
			return fmt.Errorf("get contact: %w", err)
		}

		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &c)
		}); err != nil {
			return fmt.Errorf("unmarshal contact: %w", err)
		}

		c.Status = status
		c.UpdatedAt = time.Now().UTC()

		data, err := json.Marshal(&c)
		if err != nil {
			return fmt.Errorf("marshal contact: %w", err)
		}

		return txn.Set([]byte(contactKeyPrefix+id), data)
	})

	metrics.RecordStoreOperation("update", "contact", time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// MarkContactRead transitions a "new" contact to "read". Contacts already
// read or replied are returned unchanged; the transition happens at most
// once.
func (s *Store) MarkContactRead(ctx context.Context, id string) (*models.Contact, error) {
	c, err := s.GetContact(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.Status != models.ContactStatusNew {
		return c, nil
	}
	return s.UpdateContactStatus(ctx, id, models.ContactStatusRead)
}

// DeleteContact removes a contact and its time-index key.
func (s *Store) DeleteContact(ctx context.Context, id string) (*models.Contact, error) {
	start := time.Now()

	c, err := s.GetContact(ctx, id)
	if err != nil {
		return nil, err
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete([]byte(contactKeyPrefix + id)); err != nil {
			return fmt.Errorf("delete contact: %w", err)
		}

		tsKey := []byte(contactTSKeyPrefix + inverseNanos(c.CreatedAt.UnixNano()) + ":" + id)
		if err := txn.Delete(tsKey); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("delete contact time index: %w", err)
		}

		return nil
	})

	metrics.RecordStoreOperation("delete", "contact", time.Since(start), err)
	if err != nil {
		return nil, err
	}
	metrics.StoreDocuments.WithLabelValues("contact").Dec()
	return c, nil
}

// CountContacts returns the total number of stored contacts.
func (s *Store) CountContacts(ctx context.Context) (int64, error) {
	return s.countPrefix(contactKeyPrefix)
}
