package internal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ts(sec int64) time.Time { return time.Unix(sec, 0).UTC() }

func strp(s string) *string { return &s }

func TestAggregateScoresSumsSolvesAndAwards(t *testing.T) {
	solves := []SolveRow{
		{ID: 10, ChallengeID: 1, AccountID: 1, UserID: 1, Date: ts(100), Value: 100, Category: strp("web")},
		{ID: 12, ChallengeID: 2, AccountID: 1, UserID: 1, Date: ts(300), Value: 200, Category: strp("pwn")},
		{ID: 13, ChallengeID: 3, AccountID: 1, UserID: 1, Date: ts(400), Value: 0, Category: strp("web")}, // zero-value, never scores
		{ID: 14, ChallengeID: 1, AccountID: 2, UserID: 2, Date: ts(150), Value: 100, Category: strp("web")},
	}
	awards := []AwardRow{
		{ID: 3, AccountID: 1, UserID: 1, Value: 50, Date: ts(200)},
		{ID: 4, AccountID: 1, UserID: 1, Value: 0, Date: ts(500)}, // zero award, never scores
		{ID: 5, AccountID: 2, UserID: 2, Value: -30, Date: ts(250)},
	}

	aggs := aggregateScores(solves, awards, scoreOptions{})
	require.Len(t, aggs, 2)

	assert.Equal(t, 1, aggs[0].AccountID)
	assert.Equal(t, 350, aggs[0].Score)
	assert.Equal(t, 12, aggs[0].TieID)
	assert.Equal(t, ts(300), aggs[0].Date)

	assert.Equal(t, 2, aggs[1].AccountID)
	assert.Equal(t, 70, aggs[1].Score)
}

func TestAggregateScoresTieIDSpansAwards(t *testing.T) {
	solves := []SolveRow{
		{ID: 10, ChallengeID: 1, AccountID: 1, UserID: 1, Date: ts(100), Value: 100},
	}
	awards := []AwardRow{
		{ID: 99, AccountID: 1, UserID: 1, Value: 10, Date: ts(50)},
	}

	aggs := aggregateScores(solves, awards, scoreOptions{})
	require.Len(t, aggs, 1)
	assert.Equal(t, 99, aggs[0].TieID)
	assert.Equal(t, ts(100), aggs[0].Date)
}

func TestAggregateScoresCategoryDropsAwards(t *testing.T) {
	solves := []SolveRow{
		{ID: 1, ChallengeID: 1, AccountID: 1, UserID: 1, Date: ts(100), Value: 100, Category: strp("web")},
		{ID: 2, ChallengeID: 2, AccountID: 1, UserID: 1, Date: ts(200), Value: 200, Category: strp("pwn")},
		{ID: 3, ChallengeID: 3, AccountID: 2, UserID: 2, Date: ts(300), Value: 150, Category: nil},
	}
	awards := []AwardRow{
		{ID: 7, AccountID: 1, UserID: 1, Value: 500, Date: ts(100)},
		{ID: 8, AccountID: 3, UserID: 3, Value: 500, Date: ts(100)},
	}

	aggs := aggregateScores(solves, awards, scoreOptions{Category: "web"})
	require.Len(t, aggs, 1)
	assert.Equal(t, 1, aggs[0].AccountID)
	assert.Equal(t, 100, aggs[0].Score)
}

func TestAggregateScoresFreezeCutoff(t *testing.T) {
	cut := ts(1000)
	solves := []SolveRow{
		{ID: 1, ChallengeID: 1, AccountID: 1, UserID: 1, Date: ts(999), Value: 100},
		{ID: 2, ChallengeID: 2, AccountID: 1, UserID: 1, Date: ts(1000), Value: 200}, // at cutoff, excluded
		{ID: 3, ChallengeID: 3, AccountID: 1, UserID: 1, Date: ts(1001), Value: 400},
	}
	awards := []AwardRow{
		{ID: 9, AccountID: 1, UserID: 1, Value: 50, Date: ts(1500)},
	}

	frozen := aggregateScores(solves, awards, scoreOptions{Freeze: &cut})
	require.Len(t, frozen, 1)
	assert.Equal(t, 100, frozen[0].Score)
	assert.Equal(t, 1, frozen[0].TieID)

	admin := aggregateScores(solves, awards, scoreOptions{Admin: true, Freeze: &cut})
	require.Len(t, admin, 1)
	assert.Equal(t, 750, admin[0].Score)
	assert.Equal(t, 9, admin[0].TieID)
}

func TestRankStandingsTieBreakOrder(t *testing.T) {
	// A and B both total 100; A's contributing row id is lower so A wins.
	solves := []SolveRow{
		{ID: 10, ChallengeID: 1, AccountID: 1, UserID: 1, Date: ts(1), Value: 100},
		{ID: 11, ChallengeID: 2, AccountID: 2, UserID: 2, Date: ts(2), Value: 100},
	}
	accounts := []Account{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}}

	aggs := aggregateScores(solves, nil, scoreOptions{})
	standings := rankStandings(aggs, accounts, standingsOptions{})
	require.Len(t, standings, 2)
	assert.Equal(t, "A", standings[0].Name)
	assert.Equal(t, "B", standings[1].Name)

	// Repricing A's challenge to zero removes its only scoring event
	// entirely; A drops off the board and B ranks first.
	solves[0].Value = 0
	aggs = aggregateScores(solves, nil, scoreOptions{})
	standings = rankStandings(aggs, accounts, standingsOptions{})
	require.Len(t, standings, 1)
	assert.Equal(t, "B", standings[0].Name)
}

func TestRankStandingsDeterministic(t *testing.T) {
	solves := []SolveRow{
		{ID: 5, ChallengeID: 1, AccountID: 3, UserID: 3, Date: ts(1), Value: 100},
		{ID: 6, ChallengeID: 1, AccountID: 1, UserID: 1, Date: ts(1), Value: 100},
		{ID: 7, ChallengeID: 1, AccountID: 2, UserID: 2, Date: ts(1), Value: 100},
	}
	accounts := []Account{{ID: 1, Name: "a"}, {ID: 2, Name: "b"}, {ID: 3, Name: "c"}}

	first := rankStandings(aggregateScores(solves, nil, scoreOptions{}), accounts, standingsOptions{})
	for i := 0; i < 10; i++ {
		again := rankStandings(aggregateScores(solves, nil, scoreOptions{}), accounts, standingsOptions{})
		assert.Equal(t, first, again)
	}
	assert.Equal(t, []int{3, 1, 2}, []int{first[0].AccountID, first[1].AccountID, first[2].AccountID})
}

func TestRankStandingsBannedHidden(t *testing.T) {
	aggs := []ScoreAggregate{
		{AccountID: 1, Score: 900, TieID: 1},
		{AccountID: 2, Score: 500, TieID: 2},
		{AccountID: 3, Score: 800, TieID: 3},
	}
	accounts := []Account{
		{ID: 1, Name: "banned-top", Banned: true},
		{ID: 2, Name: "clean"},
		{ID: 3, Name: "hidden", Hidden: true},
	}

	public := rankStandings(aggs, accounts, standingsOptions{})
	require.Len(t, public, 1)
	assert.Equal(t, "clean", public[0].Name)
	assert.Nil(t, public[0].Banned)

	admin := rankStandings(aggs, accounts, standingsOptions{Admin: true})
	require.Len(t, admin, 3)
	assert.Equal(t, "banned-top", admin[0].Name)
	require.NotNil(t, admin[0].Banned)
	assert.True(t, *admin[0].Banned)
	require.NotNil(t, admin[1].Hidden)
	assert.True(t, *admin[1].Hidden)
	assert.Equal(t, "hidden", admin[1].Name)
}

func TestRankStandingsTruncationPreservesOrder(t *testing.T) {
	var aggs []ScoreAggregate
	var accounts []Account
	for i := 1; i <= 8; i++ {
		aggs = append(aggs, ScoreAggregate{AccountID: i, Score: (i * 37) % 5 * 100, TieID: i})
		accounts = append(accounts, Account{ID: i, Name: "t"})
	}

	full := rankStandings(aggs, accounts, standingsOptions{})
	for n := 1; n <= len(full); n++ {
		top := rankStandings(aggs, accounts, standingsOptions{Count: n})
		assert.Equal(t, full[:n], top)
	}
}

func TestRankStandingsRestrictionSet(t *testing.T) {
	aggs := []ScoreAggregate{
		{AccountID: 1, Score: 300, TieID: 1},
		{AccountID: 2, Score: 200, TieID: 2},
		{AccountID: 3, Score: 100, TieID: 3},
	}
	accounts := []Account{{ID: 1, Name: "a"}, {ID: 2, Name: "b"}, {ID: 3, Name: "c"}}

	got := rankStandings(aggs, accounts, standingsOptions{Include: map[int]bool{2: true, 3: true}})
	require.Len(t, got, 2)
	assert.Equal(t, 2, got[0].AccountID)
	assert.Equal(t, 3, got[1].AccountID)

	// Empty population matched nothing: empty non-nil set excludes everyone.
	got = rankStandings(aggs, accounts, standingsOptions{Include: map[int]bool{}})
	assert.Empty(t, got)
}

func TestRankStandingsDropsDeletedAccounts(t *testing.T) {
	aggs := []ScoreAggregate{
		{AccountID: 1, Score: 300, TieID: 1},
		{AccountID: 99, Score: 900, TieID: 2},
	}
	accounts := []Account{{ID: 1, Name: "a"}}

	got := rankStandings(aggs, accounts, standingsOptions{})
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].AccountID)
}
