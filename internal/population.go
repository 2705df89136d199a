package internal

import (
	"context"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

/* ===================== PREDICATES ===================== */

// filterTeamSizes picks team ids whose member count satisfies the sentinel
// comparison. Unknown sentinels match nothing.
func filterTeamSizes(sizes []TeamSize, op string, want int) []int {
	ids := []int{}
	for _, s := range sizes {
		keep := false
		switch op {
		case attrTeamSizeEq:
			keep = s.Members == want
		case attrTeamSizeLe:
			keep = s.Members <= want
		case attrTeamSizeGe:
			keep = s.Members >= want
		}
		if keep {
			ids = append(ids, s.TeamID)
		}
	}
	return ids
}

// filterFieldEntries picks team ids whose stored field value equals want,
// case-insensitively.
func filterFieldEntries(entries []FieldEntry, want string) []int {
	ids := []int{}
	for _, e := range entries {
		if strings.EqualFold(e.Value, want) {
			ids = append(ids, e.TeamID)
		}
	}
	return ids
}

/* ===================== RESOLVERS ===================== */

// getTeamIDs resolves the configured population filter to account ids. A
// selector or value that does not parse degrades to an empty set, so the
// scoped scoreboard renders empty instead of failing the request.
func getTeamIDs(ctx context.Context, db *pgxpool.Pool, qc *QueryCache, cfg Config) ([]int, error) {
	key := cacheKey("team_ids", "attr="+cfg.AttrID, "value="+cfg.AttrValue)
	var ids []int
	if qc.get(ctx, key, &ids) {
		return ids, nil
	}

	switch cfg.AttrID {
	case attrTeamSizeEq, attrTeamSizeLe, attrTeamSizeGe:
		want, err := strconv.Atoi(cfg.AttrValue)
		if err != nil {
			return []int{}, nil
		}
		sizes, err := fetchTeamSizes(ctx, db)
		if err != nil {
			return nil, err
		}
		ids = filterTeamSizes(sizes, cfg.AttrID, want)
	default:
		fieldID, err := strconv.Atoi(cfg.AttrID)
		if err != nil {
			return []int{}, nil
		}
		entries, err := fetchFieldEntries(ctx, db, fieldID)
		if err != nil {
			return nil, err
		}
		ids = filterFieldEntries(entries, cfg.AttrValue)
	}

	qc.set(ctx, key, ids)
	return ids, nil
}

func getChallengeIDs(ctx context.Context, db *pgxpool.Pool, qc *QueryCache, category string) ([]int, error) {
	key := cacheKey("challenge_ids", "category="+category)
	var ids []int
	if qc.get(ctx, key, &ids) {
		return ids, nil
	}

	ids, err := fetchChallengeIDs(ctx, db, category)
	if err != nil {
		return nil, err
	}
	qc.set(ctx, key, ids)
	return ids, nil
}

func getCategories(ctx context.Context, db *pgxpool.Pool, qc *QueryCache) ([]string, error) {
	key := cacheKey("categories")
	var cats []string
	if qc.get(ctx, key, &cats) {
		return cats, nil
	}

	cats, err := fetchCategories(ctx, db)
	if err != nil {
		return nil, err
	}
	qc.set(ctx, key, cats)
	return cats, nil
}
