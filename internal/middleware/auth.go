package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/RubachokBoss/internhub/internal/config"
	"github.com/RubachokBoss/internhub/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
)

type actorKey struct{}

// Заголовки, из которых берется пользователь при выключенной авторизации.
const (
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"
)

// Claims — содержимое токена: sub — uid пользователя.
type Claims struct {
	Role models.Role `json:"role"`
	Name string      `json:"name,omitempty"`
	jwt.RegisteredClaims
}

type Authenticator struct {
	enabled bool
	secret  []byte
	issuer  string
	logger  zerolog.Logger
}

func NewAuthenticator(cfg config.AuthConfig, logger zerolog.Logger) *Authenticator {
	return &Authenticator{
		enabled: cfg.Enabled,
		secret:  []byte(cfg.JWTSecret),
		issuer:  cfg.Issuer,
		logger:  logger,
	}
}

// Authenticate кладет Actor в контекст запроса. Без авторизации пользователь
// берется из X-User-ID/X-User-Role, по умолчанию — админ.
func (a *Authenticator) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !a.enabled {
			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), headerActor(r))))
			return
		}

		token := bearerToken(r)
		if token == "" {
			writeError(w, http.StatusUnauthorized, "Missing bearer token")
			return
		}

		actor, err := a.Parse(token)
		if err != nil {
			a.logger.Debug().
				Err(err).
				Str("path", r.URL.Path).
				Msg("Rejected token")
			writeError(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), *actor)))
	})
}

func (a *Authenticator) Parse(raw string) (*models.Actor, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if a.issuer != "" {
		opts = append(opts, jwt.WithIssuer(a.issuer))
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if claims.Subject == "" {
		return nil, errors.New("token has no subject")
	}
	if !models.IsValidRole(string(claims.Role)) {
		return nil, fmt.Errorf("unknown role %q", claims.Role)
	}

	return &models.Actor{ID: claims.Subject, Role: claims.Role, Name: claims.Name}, nil
}

// Issue подписывает токен для пользователя; используется командой token и в тестах.
func (a *Authenticator) Issue(actor models.Actor, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: actor.Role,
		Name: actor.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actor.ID,
			Issuer:    a.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// RequireRoles пропускает только перечисленные роли.
func RequireRoles(roles ...models.Role) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := ActorFromContext(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, "Authentication required")
				return
			}
			for _, role := range roles {
				if actor.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			writeError(w, http.StatusForbidden, "Access denied")
		})
	}
}

func WithActor(ctx context.Context, actor models.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

func ActorFromContext(ctx context.Context) (models.Actor, bool) {
	actor, ok := ctx.Value(actorKey{}).(models.Actor)
	return actor, ok
}

func headerActor(r *http.Request) models.Actor {
	actor := models.Actor{ID: "admin", Role: models.RoleAdmin}
	if id := r.Header.Get(HeaderUserID); id != "" {
		actor.ID = id
	}
	if role := r.Header.Get(HeaderUserRole); models.IsValidRole(role) {
		actor.Role = models.Role(role)
	}
	return actor
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if len(header) < 7 || !strings.EqualFold(header[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error":   http.StatusText(status),
		"message": message,
	})
}
