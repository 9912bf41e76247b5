// file: internals/features/users/auth/service/token_service.go
package service

import (
	"context"
	"sync"
	"time"

	"eduarchive_backend/internals/features/users/auth/model"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

type TokenConfig struct {
	Secret string
	Issuer string
	TTL    time.Duration
}

// IssueToken JWT HS256 berisi sub, role, user_name, jti. Mengembalikan (token, jti, exp).
func IssueToken(cfg TokenConfig, acc model.Account, now time.Time) (string, string, time.Time, error) {
	if cfg.TTL <= 0 {
		cfg.TTL = 12 * time.Hour
	}
	jti := uuid.NewString()
	exp := now.Add(cfg.TTL)
	claims := jwt.MapClaims{
		"sub":       acc.Username,
		"user_name": acc.Username,
		"role":      acc.Role,
		"jti":       jti,
		"iat":       now.Unix(),
		"exp":       exp.Unix(),
	}
	if cfg.Issuer != "" {
		claims["iss"] = cfg.Issuer
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.Secret))
	if err != nil {
		return "", "", time.Time{}, err
	}
	return signed, jti, exp, nil
}

/* =========================================================
   Blacklist token (logout), in-memory; dibersihkan reaper
========================================================= */

type TokenBlacklist struct {
	mu  sync.RWMutex
	ids map[string]time.Time // jti → exp token
}

func NewTokenBlacklist() *TokenBlacklist {
	return &TokenBlacklist{ids: map[string]time.Time{}}
}

func (b *TokenBlacklist) Revoke(jti string, exp time.Time) {
	if jti == "" {
		return
	}
	b.mu.Lock()
	b.ids[jti] = exp
	b.mu.Unlock()
}

func (b *TokenBlacklist) IsRevoked(jti string) bool {
	b.mu.RLock()
	_, ok := b.ids[jti]
	b.mu.RUnlock()
	return ok
}

// Sweep membuang entri yang tokennya sudah kedaluwarsa sebelum cutoff.
func (b *TokenBlacklist) Sweep(ctx context.Context, cutoff time.Time) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for id, exp := range b.ids {
		if exp.Before(cutoff) {
			delete(b.ids, id)
			n++
		}
	}
	return n, nil
}

func (b *TokenBlacklist) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.ids)
}
