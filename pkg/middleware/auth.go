package middleware

import (
	"context"
	"errors"
	"strings"

	"worker-finder/pkg/access"
	"worker-finder/pkg/config"
	"worker-finder/pkg/errutil"

	"github.com/casbin/casbin/v2"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const principalKey = "principal"

// Principal is the authenticated caller.
type Principal struct {
	UserID     int64
	UserType   string
	Email      string
	IsVerified bool
	IsActive   bool
}

func (p *Principal) IsWorker() bool { return p.UserType == access.RoleWorker }
func (p *Principal) IsSeeker() bool { return p.UserType == access.RoleSeeker }

// PrincipalStore loads the current state of a user. It returns nil, nil when
// the user does not exist.
type PrincipalStore interface {
	LoadPrincipal(ctx context.Context, userID int64) (*Principal, error)
}

// Claims are issued by the auth service at login.
type Claims struct {
	UserID   int64  `json:"userId"`
	UserType string `json:"userType"`
	jwt.RegisteredClaims
}

type Authenticator struct {
	secret   []byte
	issuer   string
	store    PrincipalStore
	enforcer *casbin.Enforcer
}

func NewAuthenticator(cfg *config.Config, store PrincipalStore, enforcer *casbin.Enforcer) *Authenticator {
	if cfg.Auth.JWTSecret == "" {
		zap.L().Warn("AUTH.JWT_SECRET is empty, every bearer token will be rejected")
	}

	return &Authenticator{
		secret:   []byte(cfg.Auth.JWTSecret),
		issuer:   cfg.Auth.Issuer,
		store:    store,
		enforcer: enforcer,
	}
}

func (a *Authenticator) parse(raw string) (*Claims, error) {
	if len(a.secret) == 0 {
		return nil, errors.New("jwt secret not configured")
	}

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if a.issuer != "" {
		opts = append(opts, jwt.WithIssuer(a.issuer))
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return a.secret, nil
	}, opts...)
	if err != nil {
		return nil, err
	}

	return claims, nil
}

// Authenticate requires a valid bearer token belonging to an active user.
func (a *Authenticator) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			c.Error(errutil.Unauthorized("Access denied. No token provided.", nil))
			c.Abort()
			return
		}

		claims, err := a.parse(raw)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				c.Error(errutil.Unauthorized("Token expired. Please login again.", err))
			} else {
				c.Error(errutil.Unauthorized("Invalid token", err))
			}
			c.Abort()
			return
		}

		principal, err := a.store.LoadPrincipal(c.Request.Context(), claims.UserID)
		if err != nil {
			zap.L().Error("failed to load principal", zap.Int64("user_id", claims.UserID), zap.Error(err))
			c.Error(errutil.Internal("Authentication failed", err))
			c.Abort()
			return
		}

		if principal == nil {
			c.Error(errutil.Unauthorized("User not found", nil))
			c.Abort()
			return
		}

		if !principal.IsActive {
			c.Error(errutil.Forbidden("Account is deactivated", nil))
			c.Abort()
			return
		}

		c.Set(principalKey, principal)
		c.Next()
	}
}

// Authorize checks the caller's account type against the access policy for
// the matched route.
func (a *Authenticator) Authorize() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := PrincipalFrom(c)
		if !ok {
			c.Error(errutil.Unauthorized("Access denied. No token provided.", nil))
			c.Abort()
			return
		}

		obj, act := c.FullPath(), c.Request.Method
		allowed, err := a.enforcer.Enforce(principal.UserType, obj, act)
		if err != nil {
			c.Error(errutil.Internal("Authorization failed", err))
			c.Abort()
			return
		}

		if !allowed {
			c.Error(errutil.Forbidden(access.DenyMessage(a.enforcer, obj, act), nil))
			c.Abort()
			return
		}

		c.Next()
	}
}

// PrincipalFrom returns the caller stored by Authenticate.
func PrincipalFrom(c *gin.Context) (*Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return nil, false
	}
	p, ok := v.(*Principal)
	return p, ok
}
