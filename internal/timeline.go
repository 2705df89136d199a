package internal

import (
	"sort"
	"time"
)

// solvesBefore and awardsBefore apply the freeze cutoff to raw timeline rows.
// Admin callers pass a nil cutoff and keep everything.

func solvesBefore(solves []SolveRow, cut *time.Time) []SolveRow {
	if cut == nil {
		return solves
	}
	out := make([]SolveRow, 0, len(solves))
	for _, s := range solves {
		if s.Date.Before(*cut) {
			out = append(out, s)
		}
	}
	return out
}

func awardsBefore(awards []AwardRow, cut *time.Time) []AwardRow {
	if cut == nil {
		return awards
	}
	out := make([]AwardRow, 0, len(awards))
	for _, a := range awards {
		if a.Date.Before(*cut) {
			out = append(out, a)
		}
	}
	return out
}

// assembleTimeline builds one account's scoring history: one event per solve
// whose challenge is in the active challenge set (value is the challenge's
// current value, so challenge edits reprice history) and one per award,
// sorted oldest first. Not memoized - it runs on rows fetched fresh per
// request.
func assembleTimeline(accountID int, solves []SolveRow, awards []AwardRow, challenges map[int]bool) []TimelineEvent {
	events := []TimelineEvent{}
	for _, s := range solves {
		if s.AccountID != accountID || !challenges[s.ChallengeID] {
			continue
		}
		cid := s.ChallengeID
		events = append(events, TimelineEvent{
			ChallengeID: &cid,
			AccountID:   s.AccountID,
			TeamID:      s.TeamID,
			UserID:      s.UserID,
			Value:       s.Value,
			Date:        s.Date,
		})
	}
	for _, a := range awards {
		if a.AccountID != accountID {
			continue
		}
		events = append(events, TimelineEvent{
			AccountID: a.AccountID,
			TeamID:    a.TeamID,
			UserID:    a.UserID,
			Value:     a.Value,
			Date:      a.Date,
		})
	}
	sort.SliceStable(events, func(i, j int) bool { return events[i].Date.Before(events[j].Date) })
	return events
}
