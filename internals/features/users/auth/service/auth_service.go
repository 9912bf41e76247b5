// file: internals/features/users/auth/service/auth_service.go
package service

import (
	"errors"
	"strings"
	"time"

	"eduarchive_backend/internals/features/users/auth/model"
)

var ErrInvalidCredentials = errors.New("username atau password salah")

type AuthService struct {
	Token     TokenConfig
	Blacklist *TokenBlacklist
	accounts  map[string]model.Account
	now       func() time.Time
}

func NewAuthService(token TokenConfig, accounts []model.Account, blacklist *TokenBlacklist) *AuthService {
	m := make(map[string]model.Account, len(accounts))
	for _, a := range accounts {
		m[strings.ToLower(a.Username)] = a
	}
	if blacklist == nil {
		blacklist = NewTokenBlacklist()
	}
	return &AuthService{Token: token, Blacklist: blacklist, accounts: m, now: time.Now}
}

type LoginResult struct {
	AccessToken string        `json:"access_token"`
	TokenType   string        `json:"token_type"`
	ExpiresAt   time.Time     `json:"expires_at"`
	User        model.Account `json:"user"`
}

func (s *AuthService) Login(username, password string) (*LoginResult, error) {
	acc, ok := s.accounts[strings.ToLower(strings.TrimSpace(username))]
	if !ok || !CheckPassword(acc.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	tok, _, exp, err := IssueToken(s.Token, acc, s.now())
	if err != nil {
		return nil, err
	}
	return &LoginResult{AccessToken: tok, TokenType: "Bearer", ExpiresAt: exp, User: acc}, nil
}

func (s *AuthService) Logout(jti string, exp time.Time) {
	s.Blacklist.Revoke(jti, exp)
}

func (s *AuthService) Account(username string) (model.Account, bool) {
	acc, ok := s.accounts[strings.ToLower(username)]
	return acc, ok
}
