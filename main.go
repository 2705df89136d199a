package main

import (
	"log"
	"os"

	"ctf-scoreboard/internal"

	"github.com/gin-gonic/gin"
)

func main() {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is required")
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET is required")
	}
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	db := internal.MustDB(dbURL)
	defer db.Close()

	rdb := internal.MustRedis(redisAddr)
	qc := internal.NewQueryCache(rdb)

	r := gin.Default()
	r.LoadHTMLGlob("templates/*.html")

	api := r.Group("/api")
	{
		api.POST("/auth/register", internal.Register(db))
		api.POST("/auth/login", internal.Login(db, secret))
		api.POST("/auth/logout", internal.Logout())
		api.GET("/me", internal.Auth(secret), internal.Me(db))

		sb := api.Group("/scoreboard",
			internal.TryAuth(secret),
			internal.WithConfig(db),
			internal.CheckAccountVisibility(),
			internal.CheckScoreVisibility(),
		)
		{
			sb.GET("", internal.Scoreboard(db, qc))
			sb.GET("/top/:count", internal.ScoreboardTop(db, qc))
			sb.GET("/matched", internal.MatchedScoreboard(db, qc))
		}

		admin := api.Group("/admin", internal.Auth(secret), internal.RequireAdmin())
		{
			admin.GET("/config", internal.AdminConfig(db))
			admin.PUT("/config", internal.AdminSetConfig(db))
			admin.GET("/logs", internal.AdminLogs(db))
		}
	}

	// HTML scoreboard; POST updates the watched-accounts selection.
	page := []gin.HandlerFunc{
		internal.TryAuth(secret),
		internal.WithConfig(db),
		internal.CheckScoreVisibility(),
		internal.ScoreboardPage(db, qc),
	}
	r.GET("/scoreboard", page...)
	r.POST("/scoreboard", page...)

	log.Printf("Listening on :%s", port)
	_ = r.Run(":" + port)
}
