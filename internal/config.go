package internal

import (
	"context"
	"strconv"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Population filter sentinels. category_scoreboard_attr either carries one of
// these or the numeric id of a custom team field.
const (
	attrTeamSizeEq = "-1"
	attrTeamSizeLe = "-2"
	attrTeamSizeGe = "-3"
)

// Config is the per-request snapshot of the config table. WithConfig loads it
// once and threads it through the request so a single computation never sees
// two different freeze values.
type Config struct {
	Freeze            int64  `json:"freeze"`
	AttrID            string `json:"category_scoreboard_attr"`
	AttrValue         string `json:"category_scoreboard_value"`
	UserMode          string `json:"user_mode"`
	ScoreVisibility   string `json:"score_visibility"`
	AccountVisibility string `json:"account_visibility"`
}

var configKeys = []string{
	"freeze",
	"category_scoreboard_attr",
	"category_scoreboard_value",
	"user_mode",
	"score_visibility",
	"account_visibility",
}

func loadConfig(ctx context.Context, db *pgxpool.Pool) (Config, error) {
	rows, err := qQuery(ctx, db,
		psql.Select("key", "value").From("config").Where(sq.Eq{"key": configKeys}))
	if err != nil {
		return Config{}, err
	}
	defer rows.Close()

	vals := map[string]string{}
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return Config{}, err
		}
		vals[k] = v
	}
	if err := rows.Err(); err != nil {
		return Config{}, err
	}
	return configFromValues(vals), nil
}

func configFromValues(vals map[string]string) Config {
	cfg := Config{
		AttrID:            "0",
		AttrValue:         "hidden",
		UserMode:          "teams",
		ScoreVisibility:   "public",
		AccountVisibility: "public",
	}
	if v := vals["freeze"]; v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Freeze = n
		}
	}
	if v := vals["category_scoreboard_attr"]; v != "" {
		cfg.AttrID = v
	}
	if v, ok := vals["category_scoreboard_value"]; ok {
		cfg.AttrValue = v
	}
	if v := vals["user_mode"]; v != "" {
		cfg.UserMode = v
	}
	if v := vals["score_visibility"]; v != "" {
		cfg.ScoreVisibility = v
	}
	if v := vals["account_visibility"]; v != "" {
		cfg.AccountVisibility = v
	}
	return cfg
}

// modelTable names the table backing the Account abstraction for the active
// platform mode.
func (c Config) modelTable() string {
	if c.UserMode == "users" {
		return "users"
	}
	return "teams"
}

func (c Config) freezeTime() *time.Time {
	if c.Freeze == 0 {
		return nil
	}
	t := time.Unix(c.Freeze, 0).UTC()
	return &t
}

func (c Config) frozen() bool {
	return c.Freeze != 0 && time.Now().Unix() >= c.Freeze
}

// visibilityAllows evaluates one visibility gate. Unknown settings fail
// closed to admins only.
func visibilityAllows(setting string, loggedIn, admin bool) bool {
	switch setting {
	case "public":
		return true
	case "private":
		return loggedIn || admin
	default:
		return admin
	}
}
