// file: internals/features/users/auth/model/account_model.go
package model

import (
	"fmt"
	"strings"

	"eduarchive_backend/internals/constants"
)

// Account pengguna; tidak ada tabel users, daftar dibaca dari AUTH_USERS.
type Account struct {
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	Role         string `json:"role"`
}

// ParseAccounts format "username:bcrypt-hash:role;username2:...".
// Hash bcrypt berisi '$' tapi tidak ':', jadi pemisah ':' aman.
func ParseAccounts(spec string) ([]Account, error) {
	var out []Account
	seen := map[string]bool{}
	for _, part := range strings.Split(spec, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		f := strings.Split(part, ":")
		if len(f) != 3 {
			return nil, fmt.Errorf("AUTH_USERS: entri %q harus username:hash:role", part)
		}
		a := Account{
			Username:     strings.ToLower(strings.TrimSpace(f[0])),
			PasswordHash: strings.TrimSpace(f[1]),
			Role:         strings.TrimSpace(f[2]),
		}
		if a.Username == "" || a.PasswordHash == "" {
			return nil, fmt.Errorf("AUTH_USERS: entri %q tidak lengkap", part)
		}
		if !constants.IsKnownRole(a.Role) {
			return nil, fmt.Errorf("AUTH_USERS: role %q tidak dikenal", a.Role)
		}
		if seen[a.Username] {
			return nil, fmt.Errorf("AUTH_USERS: username %q ganda", a.Username)
		}
		seen[a.Username] = true
		out = append(out, a)
	}
	return out, nil
}
