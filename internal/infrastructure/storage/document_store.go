// Package storage persists rendered documents (invoice and receipt PDFs).
package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrDocumentNotFound is returned when a stored document does not exist
var ErrDocumentNotFound = errors.New("document not found")

// DocumentStore abstracts object storage for generated PDFs
type DocumentStore interface {
	// Put uploads a document under the given key
	Put(ctx context.Context, key string, data []byte, contentType string) error
	// DownloadURL returns a time-limited URL for fetching a document
	DownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, time.Time, error)
	// Exists reports whether a document is stored under the key
	Exists(ctx context.Context, key string) (bool, error)
	// Delete removes a document
	Delete(ctx context.Context, key string) error
}

// InvoiceKey is the storage key for a rendered invoice PDF
func InvoiceKey(invoiceNumber string) string {
	return fmt.Sprintf("invoices/%s.pdf", invoiceNumber)
}

// ReceiptKey is the storage key for a rendered receipt PDF
func ReceiptKey(receiptNumber string) string {
	return fmt.Sprintf("receipts/%s.pdf", receiptNumber)
}

// InMemoryDocumentStore keeps documents in a map. Used in development and tests.
type InMemoryDocumentStore struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

// NewInMemoryDocumentStore creates an empty in-memory store
func NewInMemoryDocumentStore() *InMemoryDocumentStore {
	return &InMemoryDocumentStore{docs: make(map[string][]byte)}
}

// Put stores the document in memory
func (s *InMemoryDocumentStore) Put(_ context.Context, key string, data []byte, _ string) error {
	if key == "" {
		return errors.New("storage key is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	buf := make([]byte, len(data))
	copy(buf, data)
	s.docs[key] = buf
	return nil
}

// DownloadURL returns a fake URL for a stored document
func (s *InMemoryDocumentStore) DownloadURL(_ context.Context, key string, expiresIn time.Duration) (string, time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.docs[key]; !ok {
		return "", time.Time{}, ErrDocumentNotFound
	}
	if expiresIn <= 0 {
		expiresIn = 15 * time.Minute
	}
	return "memory://" + key, time.Now().Add(expiresIn), nil
}

// Exists reports whether the key is stored
func (s *InMemoryDocumentStore) Exists(_ context.Context, key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.docs[key]
	return ok, nil
}

// Delete removes the document
func (s *InMemoryDocumentStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, key)
	return nil
}

// Get returns the stored bytes. Test helper, not part of DocumentStore.
func (s *InMemoryDocumentStore) Get(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.docs[key]
	return data, ok
}

var _ DocumentStore = (*InMemoryDocumentStore)(nil)
