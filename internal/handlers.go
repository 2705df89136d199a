package internal

import (
	"context"
	"net/http"
	"sort"
	"strconv"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

func Me(db *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := uid(c)
		var u struct {
			ID   int    `json:"id"`
			Name string `json:"name"`
			Role string `json:"role"`
		}
		err := qRow(c.Request.Context(), db,
			psql.Select("id", "name", "role").From("users").Where(sq.Eq{"id": id}),
		).Scan(&u.ID, &u.Name, &u.Role)
		if err != nil {
			c.JSON(500, gin.H{"error": "db"})
			return
		}
		c.JSON(200, u)
	}
}

// ------------------- Scoreboard API -------------------

// GET /api/scoreboard?bracket_id=<category>
func Scoreboard(db *pgxpool.Pool, qc *QueryCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		scoreboardResponse(c, db, qc, 0)
	}
}

// GET /api/scoreboard/top/:count?bracket_id=<category>
func ScoreboardTop(db *pgxpool.Pool, qc *QueryCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		count, err := strconv.Atoi(c.Param("count"))
		if err != nil || count < 1 {
			c.JSON(400, gin.H{"error": "bad count"})
			return
		}
		scoreboardResponse(c, db, qc, count)
	}
}

func scoreboardResponse(c *gin.Context, db *pgxpool.Pool, qc *QueryCache, count int) {
	ctx := c.Request.Context()
	cfg := cfgFrom(c)
	admin := isAdmin(c)
	category := c.Query("bracket_id")

	standings, err := getStandings(ctx, db, qc, cfg, admin, category, count)
	if err != nil {
		c.JSON(500, gin.H{"error": "db"})
		return
	}
	challengeIDs, err := getChallengeIDs(ctx, db, qc, category)
	if err != nil {
		c.JSON(500, gin.H{"error": "db"})
		return
	}

	accountIDs := make([]int, 0, len(standings))
	for _, s := range standings {
		accountIDs = append(accountIDs, s.AccountID)
	}

	// Timelines depend on rows fetched fresh alongside the cached standings.
	solves, err := fetchSolves(ctx, db, accountIDs)
	if err != nil {
		c.JSON(500, gin.H{"error": "db"})
		return
	}
	awards, err := fetchAwards(ctx, db, accountIDs)
	if err != nil {
		c.JSON(500, gin.H{"error": "db"})
		return
	}

	cut := cfg.freezeTime()
	if admin {
		cut = nil
	}
	solves = solvesBefore(solves, cut)
	awards = awardsBefore(awards, cut)

	challenges := make(map[int]bool, len(challengeIDs))
	for _, id := range challengeIDs {
		challenges[id] = true
	}

	data := map[string]ScoreboardStanding{}
	for i, s := range standings {
		data[strconv.Itoa(i+1)] = ScoreboardStanding{
			ID:     s.AccountID,
			Name:   s.Name,
			Solves: assembleTimeline(s.AccountID, solves, awards, challenges),
		}
	}
	c.JSON(200, gin.H{"success": true, "data": data})
}

// GET /api/scoreboard/matched - standings restricted to the configured
// team-attribute population.
func MatchedScoreboard(db *pgxpool.Pool, qc *QueryCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		standings, err := getMatchedStandings(c.Request.Context(), db, qc, cfgFrom(c), isAdmin(c), 0)
		if err != nil {
			c.JSON(500, gin.H{"error": "db"})
			return
		}
		c.JSON(200, gin.H{"success": true, "data": standings})
	}
}

// ------------------- Scoreboard page -------------------

const watchCookie = "teams_watching"

// parseWatchList decodes the watch cookie: comma-joined integer account ids.
// Junk entries are dropped silently.
func parseWatchList(raw string) []int {
	ids := []int{}
	for _, part := range strings.Split(raw, ",") {
		if n, err := strconv.Atoi(strings.TrimSpace(part)); err == nil {
			ids = append(ids, n)
		}
	}
	return ids
}

func joinWatchList(ids []int) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, strconv.Itoa(id))
	}
	return strings.Join(parts, ",")
}

type pageRow struct {
	Rank    int
	Entry   StandingsEntry
	Watched bool
}

func pageRows(standings []StandingsEntry, watching map[int]bool) []pageRow {
	rows := make([]pageRow, 0, len(standings))
	for i, e := range standings {
		rows = append(rows, pageRow{Rank: i + 1, Entry: e, Watched: watching[e.AccountID]})
	}
	return rows
}

// GET+POST /scoreboard - HTML page. A POST of repeated "teams" form fields
// replaces the watched-accounts cookie before rendering; the selection only
// affects highlighting, never computation. The page always shows the public
// (non-privileged) standings, like the JSON API does for anonymous callers.
func ScoreboardPage(db *pgxpool.Pool, qc *QueryCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		cfg := cfgFrom(c)

		var watching []int
		if raw, err := c.Cookie(watchCookie); err == nil {
			watching = parseWatchList(raw)
		}
		if c.Request.Method == http.MethodPost {
			watching = []int{}
			for _, v := range c.PostFormArray("teams") {
				if n, err := strconv.Atoi(v); err == nil {
					watching = append(watching, n)
				}
			}
			c.SetCookie(watchCookie, joinWatchList(watching), 86400*30, "/", "", false, false)
		}
		watchSet := make(map[int]bool, len(watching))
		for _, id := range watching {
			watchSet[id] = true
		}

		standings, err := getStandings(ctx, db, qc, cfg, false, "", 0)
		if err != nil {
			c.String(500, "db error")
			return
		}
		categories, err := getCategories(ctx, db, qc)
		if err != nil {
			c.String(500, "db error")
			return
		}
		byCategory := make(map[string][]pageRow, len(categories))
		for _, cat := range categories {
			s, err := getStandings(ctx, db, qc, cfg, false, cat, 0)
			if err != nil {
				c.String(500, "db error")
				return
			}
			byCategory[cat] = pageRows(s, watchSet)
		}

		accounts, err := fetchAccounts(ctx, db, cfg.modelTable())
		if err != nil {
			c.String(500, "db error")
			return
		}
		// Hidden accounts stay watchable; only banned ones are dropped.
		watchable := make([]Account, 0, len(accounts))
		for _, a := range accounts {
			if !a.Banned {
				watchable = append(watchable, a)
			}
		}
		sort.Slice(watchable, func(i, j int) bool { return watchable[i].ID < watchable[j].ID })

		c.HTML(200, "scoreboard.html", gin.H{
			"Standings":  pageRows(standings, watchSet),
			"Categories": categories,
			"ByCategory": byCategory,
			"Teams":      watchable,
			"WatchSet":   watchSet,
			"Frozen":     cfg.frozen(),
		})
	}
}

// ------------------- Admin: config/logs -------------------

// GET /api/admin/config
func AdminConfig(db *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		cfg, err := loadConfig(c.Request.Context(), db)
		if err != nil {
			c.JSON(500, gin.H{"error": "db"})
			return
		}
		c.JSON(200, cfg)
	}
}

// PUT /api/admin/config - upsert one config key. Standings tolerate up to one
// cache window of staleness after a write.
func AdminSetConfig(db *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := uid(c)
		var req struct {
			Key   string `json:"key"`
			Value string `json:"value"`
		}
		if err := c.BindJSON(&req); err != nil || req.Key == "" {
			c.JSON(400, gin.H{"error": "bad request"})
			return
		}

		_, err := qExec(c.Request.Context(), db,
			psql.Insert("config").
				Columns("key", "value").
				Values(req.Key, req.Value).
				Suffix("ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value"))
		if err != nil {
			c.JSON(500, gin.H{"error": "db"})
			return
		}

		logAction(db, &actor, "set_config", req.Key+"="+req.Value)
		c.JSON(200, gin.H{"ok": true})
	}
}

// GET /api/admin/logs
func AdminLogs(db *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := db.Query(context.Background(),
			`SELECT l.id,
			        to_char(l.created_at, 'YYYY-MM-DD HH24:MI:SS') AS created_at,
			        COALESCE(u.name,'(deleted)') AS actor,
			        l.action,
			        l.details
			 FROM logs l
			 LEFT JOIN users u ON u.id=l.actor_id
			 ORDER BY l.id DESC LIMIT 200`)
		if err != nil {
			c.JSON(500, gin.H{"error": "db"})
			return
		}
		defer rows.Close()

		type row struct {
			ID        int64  `json:"id"`
			CreatedAt string `json:"created_at"`
			Actor     string `json:"actor"`
			Action    string `json:"action"`
			Details   string `json:"details"`
		}

		out := []row{}
		for rows.Next() {
			var r row
			if err := rows.Scan(&r.ID, &r.CreatedAt, &r.Actor, &r.Action, &r.Details); err != nil {
				c.JSON(500, gin.H{"error": "scan"})
				return
			}
			out = append(out, r)
		}

		c.JSON(200, out)
	}
}
