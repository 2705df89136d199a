package internal

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

func Register(db *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Name      string `json:"name"`
			Password  string `json:"password"`
			Password2 string `json:"password2"`
		}
		if err := c.BindJSON(&req); err != nil {
			c.JSON(400, gin.H{"error": "bad json"})
			return
		}
		if req.Name == "" || req.Password == "" || req.Password2 == "" {
			c.JSON(400, gin.H{"error": "fill all fields"})
			return
		}
		if req.Password != req.Password2 {
			c.JSON(400, gin.H{"error": "passwords do not match"})
			return
		}
		if len(req.Password) < 6 {
			c.JSON(400, gin.H{"error": "password too short"})
			return
		}

		hash, _ := bcrypt.GenerateFromPassword([]byte(req.Password), 10)

		var id int
		err := db.QueryRow(context.Background(),
			"INSERT INTO users(name, pass_hash, role) VALUES ($1,$2,'user') RETURNING id",
			req.Name, string(hash),
		).Scan(&id)
		if err != nil {
			c.JSON(409, gin.H{"error": "name already exists"})
			return
		}
		logAction(db, &id, "register", "user registered")
		c.JSON(200, gin.H{"ok": true})
	}
}

func Login(db *pgxpool.Pool, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Name     string `json:"name"`
			Password string `json:"password"`
		}
		if err := c.BindJSON(&req); err != nil {
			c.JSON(400, gin.H{"error": "bad json"})
			return
		}

		var id int
		var role, passHash string
		var banned bool
		err := db.QueryRow(context.Background(),
			"SELECT id, role, banned, pass_hash FROM users WHERE name=$1",
			req.Name,
		).Scan(&id, &role, &banned, &passHash)
		if err != nil {
			c.JSON(401, gin.H{"error": "invalid credentials"})
			return
		}
		if bcrypt.CompareHashAndPassword([]byte(passHash), []byte(req.Password)) != nil {
			c.JSON(401, gin.H{"error": "invalid credentials"})
			return
		}
		if banned {
			c.JSON(403, gin.H{"error": "account banned"})
			return
		}

		tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
			UserID: id,
			Role:   role,
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
				IssuedAt:  jwt.NewNumericDate(time.Now()),
				Issuer:    "ctf-scoreboard",
			},
		})
		s, _ := tok.SignedString([]byte(secret))

		secure := os.Getenv("COOKIE_SECURE") == "1"
		c.SetCookie(cookieName, s, 86400, "/", "", secure, true)

		logAction(db, &id, "login", "success")
		c.JSON(200, gin.H{"ok": true})
	}
}

func Logout() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.SetCookie(cookieName, "", -1, "/", "", false, true)
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}
