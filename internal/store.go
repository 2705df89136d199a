package internal

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Row fetches. All scoreboard reads come through here; filtering and
// aggregation happen in Go (scores.go) so one fetch shape serves every scope.
// A nil accountIDs slice means no restriction; an empty one matches nothing.

func fetchSolves(ctx context.Context, db *pgxpool.Pool, accountIDs []int) ([]SolveRow, error) {
	q := psql.Select(
		"s.id", "s.challenge_id", "s.account_id", "s.team_id", "s.user_id", "s.date",
		"c.value", "c.category",
	).
		From("solves s").
		Join("challenges c ON c.id = s.challenge_id")
	if accountIDs != nil {
		q = q.Where(sq.Eq{"s.account_id": accountIDs})
	}

	rows, err := qQuery(ctx, db, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SolveRow
	for rows.Next() {
		var s SolveRow
		if err := rows.Scan(&s.ID, &s.ChallengeID, &s.AccountID, &s.TeamID, &s.UserID,
			&s.Date, &s.Value, &s.Category); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func fetchAwards(ctx context.Context, db *pgxpool.Pool, accountIDs []int) ([]AwardRow, error) {
	q := psql.Select("id", "account_id", "team_id", "user_id", "value", "date").
		From("awards")
	if accountIDs != nil {
		q = q.Where(sq.Eq{"account_id": accountIDs})
	}

	rows, err := qQuery(ctx, db, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AwardRow
	for rows.Next() {
		var a AwardRow
		if err := rows.Scan(&a.ID, &a.AccountID, &a.TeamID, &a.UserID, &a.Value, &a.Date); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func fetchAccounts(ctx context.Context, db *pgxpool.Pool, table string) ([]Account, error) {
	rows, err := qQuery(ctx, db,
		psql.Select("id", "oauth_id", "name", "hidden", "banned").From(table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Account
	for rows.Next() {
		var a Account
		if err := rows.Scan(&a.ID, &a.OauthID, &a.Name, &a.Hidden, &a.Banned); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// fetchTeamSizes counts member associations per team. The outer join keeps
// zero-member teams at size 0.
func fetchTeamSizes(ctx context.Context, db *pgxpool.Pool) ([]TeamSize, error) {
	rows, err := qQuery(ctx, db,
		psql.Select("t.id", "count(m.user_id)").
			From("teams t").
			LeftJoin("team_members m ON m.team_id = t.id").
			GroupBy("t.id"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TeamSize
	for rows.Next() {
		var ts TeamSize
		if err := rows.Scan(&ts.TeamID, &ts.Members); err != nil {
			return nil, err
		}
		out = append(out, ts)
	}
	return out, rows.Err()
}

func fetchFieldEntries(ctx context.Context, db *pgxpool.Pool, fieldID int) ([]FieldEntry, error) {
	rows, err := qQuery(ctx, db,
		psql.Select("team_id", "value").
			From("team_field_entries").
			Where(sq.Eq{"field_id": fieldID}))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []FieldEntry
	for rows.Next() {
		var e FieldEntry
		if err := rows.Scan(&e.TeamID, &e.Value); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// fetchChallengeIDs returns the ids in one category, or every challenge id
// (null categories included) when category is empty. fetchCategories below
// excludes the null category; the asymmetry is deliberate.
func fetchChallengeIDs(ctx context.Context, db *pgxpool.Pool, category string) ([]int, error) {
	q := psql.Select("id").From("challenges")
	if category != "" {
		q = q.Where(sq.Eq{"category": category})
	}

	rows, err := qQuery(ctx, db, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func fetchCategories(ctx context.Context, db *pgxpool.Pool) ([]string, error) {
	rows, err := qQuery(ctx, db,
		psql.Select("category").
			Distinct().
			From("challenges").
			Where("category IS NOT NULL").
			OrderBy("category"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var cat string
		if err := rows.Scan(&cat); err != nil {
			return nil, err
		}
		out = append(out, cat)
	}
	return out, rows.Err()
}
