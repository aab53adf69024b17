package token

import (
	"sync"
	"time"

	"github.com/consent-mgmt/consent-validation-service/domain"
)

// Record is the server-side token record. Token validation consults this
// record; the opaque token string itself carries no decodable claims.
type Record struct {
	Token            string
	TokenID          string
	PatientID        string
	RequesterID      string
	RequesterOrg     string
	Purpose          string
	Scope            []string
	IssuedAt         time.Time
	ExpiresAt        time.Time
	Emergency        bool
	Revoked          bool
	RevocationReason string
}

// Store is the external token store boundary.
type Store interface {
	Save(record Record) error
	Get(token string) (*Record, error)
	Revoke(token, reason string) error
}

// MemoryStore keeps token records in memory. Good enough for the demo driver
// and tests; deployments plug in a persistent store.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: map[string]Record{}}
}

func (s *MemoryStore) Save(record Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.Token] = record
	return nil
}

func (s *MemoryStore) Get(token string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[token]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := record
	return &copied, nil
}

func (s *MemoryStore) Revoke(token, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.records[token]
	if !ok {
		return domain.ErrNotFound
	}
	if record.Revoked {
		return domain.ErrTokenRevoked
	}
	record.Revoked = true
	record.RevocationReason = reason
	s.records[token] = record
	return nil
}
