// Package blobstore keeps finalized binary objects in memory and hands out
// local object URLs for them, so a producer can pass a video to the download
// dispatcher by reference.
package blobstore

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"sync"
)

// Scheme is the URL scheme of object URLs minted by a Store.
const Scheme = "blob:"

var (
	// ErrNotFound is returned for URLs that were never minted or already revoked.
	ErrNotFound = errors.New("blobstore: object not found")
)

// Object is an immutable binary object.
type Object struct {
	MIMEType string
	Data     []byte
}

// Store maps object URLs to objects. The zero value is not usable; use New.
type Store struct {
	origin string

	mu      sync.RWMutex
	objects map[string]Object
}

// New creates a Store whose URLs look like "blob:<origin>/<id>".
func New(origin string) *Store {
	return &Store{
		origin:  origin,
		objects: make(map[string]Object),
	}
}

// Create stores data and returns a fresh URL referencing it.
func (s *Store) Create(data []byte, mimeType string) (string, error) {
	var id [16]byte
	if _, err := rand.Read(id[:]); err != nil {
		return "", fmt.Errorf("blobstore: mint id: %w", err)
	}
	url := Scheme + s.origin + "/" + hex.EncodeToString(id[:])

	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[url] = Object{MIMEType: mimeType, Data: data}
	return url, nil
}

// Open returns the object referenced by url.
func (s *Store) Open(url string) (Object, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[url]
	if !ok {
		return Object{}, fmt.Errorf("%w: %s", ErrNotFound, url)
	}
	return obj, nil
}

// Revoke releases the object referenced by url. Revoking an unknown URL is a no-op.
func (s *Store) Revoke(url string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, url)
}

// Len returns the number of live objects.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}

// IsObjectURL reports whether s uses the blob scheme.
func IsObjectURL(s string) bool {
	return strings.HasPrefix(s, Scheme)
}
