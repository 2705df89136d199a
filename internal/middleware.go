package internal

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const cookieName = "ctf_token"
const ctxConfig = "config"

type claims struct {
	UserID int    `json:"uid"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

func Auth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, err := c.Cookie(cookieName)
		if err != nil || tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authorized"})
			return
		}

		cl, ok := parseToken(tokenStr, secret)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "bad token"})
			return
		}

		c.Set("uid", cl.UserID)
		c.Set("role", cl.Role)
		c.Next()
	}
}

// TryAuth attaches caller identity when a valid token cookie is present but
// never rejects. Scoreboard endpoints are reachable anonymously; the identity
// only drives the admin privilege flag and the visibility gates.
func TryAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenStr, err := c.Cookie(cookieName); err == nil && tokenStr != "" {
			if cl, ok := parseToken(tokenStr, secret); ok {
				c.Set("uid", cl.UserID)
				c.Set("role", cl.Role)
			}
		}
		c.Next()
	}
}

func parseToken(tokenStr, secret string) (*claims, bool) {
	tok, err := jwt.ParseWithClaims(tokenStr, &claims{}, func(token *jwt.Token) (any, error) {
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return nil, false
	}
	cl, ok := tok.Claims.(*claims)
	return cl, ok
}

func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := c.Get("role")
		if role != "admin" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin only"})
			return
		}
		c.Next()
	}
}

func uid(c *gin.Context) int {
	v, _ := c.Get("uid")
	return v.(int)
}

func isAdmin(c *gin.Context) bool {
	role, _ := c.Get("role")
	return role == "admin"
}

func loggedIn(c *gin.Context) bool {
	_, ok := c.Get("uid")
	return ok
}

/* ===================== CONFIG + VISIBILITY ===================== */

// WithConfig loads the config snapshot once per request. Everything
// downstream (gates, freeze, population filter) reads this snapshot, never
// the table.
func WithConfig(db *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		cfg, err := loadConfig(c.Request.Context(), db)
		if err != nil {
			c.AbortWithStatusJSON(500, gin.H{"error": "db"})
			return
		}
		c.Set(ctxConfig, cfg)
		c.Next()
	}
}

func cfgFrom(c *gin.Context) Config {
	v, _ := c.Get(ctxConfig)
	cfg, _ := v.(Config)
	return cfg
}

func CheckAccountVisibility() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !visibilityAllows(cfgFrom(c).AccountVisibility, loggedIn(c), isAdmin(c)) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "not allowed"})
			return
		}
		c.Next()
	}
}

func CheckScoreVisibility() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !visibilityAllows(cfgFrom(c).ScoreVisibility, loggedIn(c), isAdmin(c)) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "not allowed"})
			return
		}
		c.Next()
	}
}
