package internal

import (
	"context"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"
)

// getStandings computes the ranked scoreboard, memoized per (admin, category,
// count) for one cache window. count 0 means the full board.
func getStandings(ctx context.Context, db *pgxpool.Pool, qc *QueryCache, cfg Config, admin bool, category string, count int) ([]StandingsEntry, error) {
	key := cacheKey("standings",
		"admin="+strconv.FormatBool(admin),
		"category="+category,
		"count="+strconv.Itoa(count),
	)
	var cached []StandingsEntry
	if qc.get(ctx, key, &cached) {
		return cached, nil
	}

	standings, err := computeStandings(ctx, db, cfg, admin, category, count, nil)
	if err != nil {
		return nil, err
	}
	qc.set(ctx, key, standings)
	return standings, nil
}

// getMatchedStandings is getStandings restricted to the configured
// team-attribute population. No category applies here.
func getMatchedStandings(ctx context.Context, db *pgxpool.Pool, qc *QueryCache, cfg Config, admin bool, count int) ([]StandingsEntry, error) {
	key := cacheKey("matched_standings",
		"admin="+strconv.FormatBool(admin),
		"count="+strconv.Itoa(count),
		"attr="+cfg.AttrID,
		"value="+cfg.AttrValue,
	)
	var cached []StandingsEntry
	if qc.get(ctx, key, &cached) {
		return cached, nil
	}

	teamIDs, err := getTeamIDs(ctx, db, qc, cfg)
	if err != nil {
		return nil, err
	}
	include := make(map[int]bool, len(teamIDs))
	for _, id := range teamIDs {
		include[id] = true
	}

	standings, err := computeStandings(ctx, db, cfg, admin, "", count, include)
	if err != nil {
		return nil, err
	}
	qc.set(ctx, key, standings)
	return standings, nil
}

func computeStandings(ctx context.Context, db *pgxpool.Pool, cfg Config, admin bool, category string, count int, include map[int]bool) ([]StandingsEntry, error) {
	solves, err := fetchSolves(ctx, db, nil)
	if err != nil {
		return nil, err
	}
	awards, err := fetchAwards(ctx, db, nil)
	if err != nil {
		return nil, err
	}
	accounts, err := fetchAccounts(ctx, db, cfg.modelTable())
	if err != nil {
		return nil, err
	}

	aggs := aggregateScores(solves, awards, scoreOptions{
		Admin:    admin,
		Category: category,
		Freeze:   cfg.freezeTime(),
	})
	return rankStandings(aggs, accounts, standingsOptions{
		Admin:   admin,
		Count:   count,
		Include: include,
	}), nil
}
