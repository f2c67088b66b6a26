package services

import (
	"context"

	"github.com/dmitrijs2005/fruitpie/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/fruitpie/internal/common"
)

// TokenStore persists the session token. An empty token means absent.
// Implementations perform no validation.
type TokenStore interface {
	Token(ctx context.Context) (string, error)
	SaveToken(ctx context.Context, token string) error
	ClearToken(ctx context.Context) error
}

// MetadataTokenStore keeps the token in the metadata key/value repository.
type MetadataTokenStore struct {
	repo metadata.Repository
	key  string
}

func NewTokenStore(repo metadata.Repository) *MetadataTokenStore {
	return &MetadataTokenStore{repo: repo, key: common.TokenStorageKey}
}

func (s *MetadataTokenStore) Token(ctx context.Context) (string, error) {
	v, err := s.repo.Get(ctx, s.key)
	if err != nil {
		return "", err
	}
	return string(v), nil
}

// SaveToken stores token. Saving an empty token is the same as clearing.
func (s *MetadataTokenStore) SaveToken(ctx context.Context, token string) error {
	if token == "" {
		return s.ClearToken(ctx)
	}
	return s.repo.Set(ctx, s.key, []byte(token))
}

func (s *MetadataTokenStore) ClearToken(ctx context.Context) error {
	return s.repo.Delete(ctx, s.key)
}
