// file: internals/features/users/auth/service/password_service.go
package service

import (
	"eduarchive_backend/internals/constants"
	"eduarchive_backend/internals/features/users/auth/model"

	"golang.org/x/crypto/bcrypt"
)

func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// DevAccounts akun bawaan development: admin/admin123, operator/operator123, viewer/viewer123.
func DevAccounts() ([]model.Account, error) {
	var out []model.Account
	for _, role := range constants.AllRoles {
		h, err := bcrypt.GenerateFromPassword([]byte(role+"123"), bcrypt.MinCost)
		if err != nil {
			return nil, err
		}
		out = append(out, model.Account{Username: role, PasswordHash: string(h), Role: role})
	}
	return out, nil
}
