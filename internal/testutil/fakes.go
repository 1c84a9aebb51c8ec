package testutil

import (
	"context"
	"errors"
	"sync"
	"time"

	"neuropharm-backend/internal/domain/gateway"

	"github.com/google/uuid"
)

// ErrFake is returned by fakes configured to fail
var ErrFake = errors.New("fake failure")

// Completer is a scripted language model
type Completer struct {
	mu       sync.Mutex
	Response string
	Err      error
	Requests []gateway.CompletionRequest
}

func (c *Completer) Complete(ctx context.Context, req gateway.CompletionRequest) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.Requests = append(c.Requests, req)
	if c.Err != nil {
		return "", c.Err
	}
	return c.Response, nil
}

// Calls returns the number of prompts received
func (c *Completer) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.Requests)
}

// LastRequest returns the most recent prompt
func (c *Completer) LastRequest() gateway.CompletionRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.Requests) == 0 {
		return gateway.CompletionRequest{}
	}
	return c.Requests[len(c.Requests)-1]
}

// FailingStorage wraps an ObjectStorage and fails uploads to FailBucket
type FailingStorage struct {
	gateway.ObjectStorage
	FailBucket string
}

func (s *FailingStorage) Upload(ctx context.Context, bucket, path string, content []byte, contentType string) error {
	if bucket == s.FailBucket {
		return ErrFake
	}
	return s.ObjectStorage.Upload(ctx, bucket, path, content, contentType)
}

// Renderer returns fixed bytes, or Err when set
type Renderer struct {
	Err error
}

func (r *Renderer) RenderAnalysis(doc gateway.AnalysisDocument) ([]byte, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	return []byte("%PDF-analysis " + doc.Title), nil
}

func (r *Renderer) RenderEvaluation(doc gateway.EvaluationDocument) ([]byte, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	return []byte("%PDF-evaluation " + doc.PatientName), nil
}

// TokenStore is an in-memory token whitelist
type TokenStore struct {
	mu     sync.Mutex
	tokens map[string]uuid.UUID
}

func NewTokenStore() *TokenStore {
	return &TokenStore{tokens: make(map[string]uuid.UUID)}
}

func tokenKey(kind gateway.TokenKind, userID uuid.UUID, tokenID string) string {
	return string(kind) + ":" + userID.String() + ":" + tokenID
}

func (s *TokenStore) Store(ctx context.Context, kind gateway.TokenKind, userID uuid.UUID, tokenID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[tokenKey(kind, userID, tokenID)] = userID
	return nil
}

func (s *TokenStore) Exists(ctx context.Context, kind gateway.TokenKind, userID uuid.UUID, tokenID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.tokens[tokenKey(kind, userID, tokenID)]
	return ok, nil
}

func (s *TokenStore) Revoke(ctx context.Context, kind gateway.TokenKind, userID uuid.UUID, tokenID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, tokenKey(kind, userID, tokenID))
	return nil
}

func (s *TokenStore) RevokeAll(ctx context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, owner := range s.tokens {
		if owner == userID {
			delete(s.tokens, key)
		}
	}
	return nil
}

// Len returns the number of whitelisted tokens
func (s *TokenStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tokens)
}
