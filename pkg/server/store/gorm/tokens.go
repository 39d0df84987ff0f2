package gorm

import (
	"gorm.io/gorm"

	"github.com/alqor-ug/qlued-go/pkg/model"
	"github.com/alqor-ug/qlued-go/pkg/server/store"
)

// Ensure TokensStore implements store.TokensStore
var _ store.TokensStore = (*TokensStore)(nil)

// TokensStore implements store.TokensStore using GORM
type TokensStore struct {
	db *gorm.DB
}

// NewTokensStore creates a new TokensStore
func NewTokensStore(db *gorm.DB) *TokensStore {
	return &TokensStore{db: db}
}

// FetchByKey retrieves a token by its key.
func (s *TokensStore) FetchByKey(key string) (*store.Token, error) {
	var token model.Token
	tx := s.db.Preload("User").Where("key = ?", key).First(&token)
	if tx.Error != nil {
		if tx.Error == gorm.ErrRecordNotFound {
			return nil, store.ErrTokenNotFound
		}
		return nil, tx.Error
	}

	username := ""
	if token.User != nil {
		username = token.User.Username
	}
	uuidHex := ""
	if token.UUIDHex != nil {
		uuidHex = *token.UUIDHex
	}

	return &store.Token{
		Key:       token.Key,
		Username:  username,
		UUIDHex:   uuidHex,
		IsActive:  token.IsActive,
		CreatedAt: token.CreatedAt,
	}, nil
}
