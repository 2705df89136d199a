package internal

import (
	"sort"
	"time"
)

/* ===================== AGGREGATION ===================== */

// scoreOptions scope one aggregation run. Category empty means all
// categories; Freeze nil means no cutoff. Admin bypasses the cutoff.
type scoreOptions struct {
	Admin    bool
	Category string
	Freeze   *time.Time
}

// aggregateScores folds solve and award rows into one total per account.
//
// Zero-value challenges and zero awards never score. With a category active,
// only that category's solves count and awards are dropped altogether. A
// non-admin run with a freeze cutoff ignores events dated at or after it.
// TieID is the max contributing row id across both tables: timestamp
// precision differs across storage backends, row ids do not.
//
// Accounts with no qualifying events produce no row at all.
func aggregateScores(solves []SolveRow, awards []AwardRow, opts scoreOptions) []ScoreAggregate {
	cut := opts.Freeze
	if opts.Admin {
		cut = nil
	}

	byAccount := map[int]*ScoreAggregate{}
	add := func(accountID, value, rowID int, date time.Time) {
		agg, ok := byAccount[accountID]
		if !ok {
			agg = &ScoreAggregate{AccountID: accountID}
			byAccount[accountID] = agg
		}
		agg.Score += value
		if rowID > agg.TieID {
			agg.TieID = rowID
		}
		if date.After(agg.Date) {
			agg.Date = date
		}
	}

	for _, s := range solves {
		if s.Value == 0 {
			continue
		}
		if opts.Category != "" && (s.Category == nil || *s.Category != opts.Category) {
			continue
		}
		if cut != nil && !s.Date.Before(*cut) {
			continue
		}
		add(s.AccountID, s.Value, s.ID, s.Date)
	}

	if opts.Category == "" {
		for _, a := range awards {
			if a.Value == 0 {
				continue
			}
			if cut != nil && !a.Date.Before(*cut) {
				continue
			}
			add(a.AccountID, a.Value, a.ID, a.Date)
		}
	}

	out := make([]ScoreAggregate, 0, len(byAccount))
	for _, agg := range byAccount {
		out = append(out, *agg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AccountID < out[j].AccountID })
	return out
}

/* ===================== RANKING ===================== */

// standingsOptions scope one ranking run. Count 0 means no truncation.
// Include nil means no account restriction; an empty non-nil map excludes
// everyone (an empty population matched nothing).
type standingsOptions struct {
	Admin   bool
	Count   int
	Include map[int]bool
}

// rankStandings joins aggregates with account identity and orders them:
// score descending, then contributing row id ascending, so on a tie whoever
// got there first wins. Non-admin callers never see banned or hidden
// accounts; admin callers see everyone with the flags exposed. Truncation
// happens after sorting.
func rankStandings(aggs []ScoreAggregate, accounts []Account, opts standingsOptions) []StandingsEntry {
	byID := make(map[int]Account, len(accounts))
	for _, a := range accounts {
		byID[a.ID] = a
	}

	qualified := make([]ScoreAggregate, 0, len(aggs))
	for _, agg := range aggs {
		acct, ok := byID[agg.AccountID]
		if !ok {
			continue // account deleted since scoring; join semantics drop it
		}
		if opts.Include != nil && !opts.Include[agg.AccountID] {
			continue
		}
		if !opts.Admin && (acct.Banned || acct.Hidden) {
			continue
		}
		qualified = append(qualified, agg)
	}

	sort.Slice(qualified, func(i, j int) bool {
		if qualified[i].Score != qualified[j].Score {
			return qualified[i].Score > qualified[j].Score
		}
		return qualified[i].TieID < qualified[j].TieID
	})

	if opts.Count > 0 && len(qualified) > opts.Count {
		qualified = qualified[:opts.Count]
	}

	out := make([]StandingsEntry, 0, len(qualified))
	for _, agg := range qualified {
		acct := byID[agg.AccountID]
		e := StandingsEntry{
			AccountID: agg.AccountID,
			OauthID:   acct.OauthID,
			Name:      acct.Name,
			Score:     agg.Score,
		}
		if opts.Admin {
			hidden, banned := acct.Hidden, acct.Banned
			e.Hidden, e.Banned = &hidden, &banned
		}
		out = append(out, e)
	}
	return out
}
