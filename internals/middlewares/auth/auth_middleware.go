// internals/middlewares/auth/auth_middleware.go
package auth

import (
	"errors"
	"strings"
	"time"

	"eduarchive_backend/internals/constants"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
)

const expirySkew = 30 * time.Second

// Revoker daftar token (jti) yang sudah logout.
type Revoker interface {
	IsRevoked(jti string) bool
}

type Options struct {
	Secret  string
	Issuer  string
	Revoked Revoker // nil = tidak ada blacklist
	Log     *zap.Logger
}

var (
	errNoSecret = errors.New("missing JWT secret")
	errRevoked  = errors.New("unauthorized - Token is revoked")
)

// verify: parse HS256 → exp → issuer → jti → sub/role. Mengembalikan claims valid.
func verify(c *fiber.Ctx, opts Options) (jwt.MapClaims, time.Time, error) {
	if opts.Secret == "" {
		return nil, time.Time{}, errNoSecret
	}
	tokenString, err := extractBearerToken(c)
	if err != nil {
		return nil, time.Time{}, err
	}

	claims := jwt.MapClaims{}
	parser := jwt.Parser{SkipClaimsValidation: true, ValidMethods: []string{jwt.SigningMethodHS256.Alg()}}
	if _, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(opts.Secret), nil
	}); err != nil {
		return nil, time.Time{}, errors.New("unauthorized - Token parse error")
	}

	exp, err := validateTokenExpiry(claims, expirySkew)
	if err != nil {
		return nil, time.Time{}, errors.New("unauthorized - Token expired")
	}
	if opts.Issuer != "" && !claims.VerifyIssuer(opts.Issuer, true) {
		return nil, time.Time{}, errors.New("unauthorized - Invalid issuer")
	}
	if opts.Revoked != nil {
		if jti, _ := claims["jti"].(string); jti != "" && opts.Revoked.IsRevoked(jti) {
			return nil, time.Time{}, errRevoked
		}
	}
	if _, err := extractSubject(claims); err != nil {
		return nil, time.Time{}, errors.New("unauthorized - Invalid or missing subject")
	}
	role, _ := claims["role"].(string)
	if !constants.IsKnownRole(strings.TrimSpace(role)) {
		return nil, time.Time{}, errors.New("unauthorized - Unknown role")
	}
	return claims, exp, nil
}

func storeClaims(c *fiber.Ctx, claims jwt.MapClaims, exp time.Time) {
	sub, _ := extractSubject(claims)
	c.Locals(LocUserID, sub)
	c.Locals(LocTokenExp, exp)
	storeBasicClaimsToLocals(c, claims)
}

// AuthMiddleware wajib login; klaim disimpan ke Locals (user_id, userRole, user_name, jti).
func AuthMiddleware(opts Options) fiber.Handler {
	log := opts.Log
	if log == nil {
		log = zap.L()
	}
	log = log.Named("auth")

	return func(c *fiber.Ctx) error {
		claims, exp, err := verify(c, opts)
		if err != nil {
			if errors.Is(err, errNoSecret) {
				log.Error("JWT_SECRET kosong")
				return fiber.NewError(fiber.StatusInternalServerError, "Missing JWT Secret")
			}
			log.Debug("token ditolak", zap.String("path", c.Path()), zap.Error(err))
			return fiber.NewError(fiber.StatusUnauthorized, err.Error())
		}
		storeClaims(c, claims, exp)
		return c.Next()
	}
}
