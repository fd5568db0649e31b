// credentialstore/memorystore.go
package credentialstore

import (
	"context"
	"sync"
)

// MemoryStore is a process-local Store implementation guarded by a mutex. Suitable for
// tests and short-lived CLI processes where credentials do not need to outlive the
// process.
type MemoryStore struct {
	mu         sync.Mutex
	credential string
	refresh    string
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// NewMemoryStoreWith creates a MemoryStore pre-seeded with the given credentials.
func NewMemoryStoreWith(credential, refreshCredential string) *MemoryStore {
	return &MemoryStore{credential: credential, refresh: refreshCredential}
}

func (s *MemoryStore) GetCredential(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.credential, nil
}

func (s *MemoryStore) GetRefreshCredential(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refresh, nil
}

func (s *MemoryStore) SetCredential(_ context.Context, credential string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.credential = credential
	return nil
}

func (s *MemoryStore) SetRefreshCredential(_ context.Context, credential string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refresh = credential
	return nil
}

func (s *MemoryStore) RemoveCredentials(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.credential = ""
	s.refresh = ""
	return nil
}
