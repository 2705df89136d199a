package internal

import "time"

// Account is a scoring participant. Depending on the configured user mode it
// is backed by the users or the teams table; the scoreboard core does not
// care which.
type Account struct {
	ID      int    `json:"id"`
	OauthID *int   `json:"oauth_id"`
	Name    string `json:"name"`
	Banned  bool   `json:"banned"`
	Hidden  bool   `json:"hidden"`
}

// SolveRow is one recorded solve joined with its challenge's current value
// and category. Value is the challenge's value at query time, not at solve
// time: editing a challenge reprices history.
type SolveRow struct {
	ID          int
	ChallengeID int
	AccountID   int
	TeamID      *int
	UserID      int
	Date        time.Time
	Value       int
	Category    *string
}

type AwardRow struct {
	ID        int
	AccountID int
	TeamID    *int
	UserID    int
	Value     int // may be negative (penalty)
	Date      time.Time
}

// ScoreAggregate is one account's summed score. TieID is the max row id among
// contributing solve/award rows and exists only to break score ties.
type ScoreAggregate struct {
	AccountID int
	Score     int
	TieID     int
	Date      time.Time
}

// StandingsEntry is a ranked aggregate joined with account identity. Hidden
// and Banned are only populated for privileged callers.
type StandingsEntry struct {
	AccountID int    `json:"account_id"`
	OauthID   *int   `json:"oauth_id"`
	Name      string `json:"name"`
	Score     int    `json:"score"`
	Hidden    *bool  `json:"hidden,omitempty"`
	Banned    *bool  `json:"banned,omitempty"`
}

// TimelineEvent is one scoring event in an account's history. ChallengeID is
// nil for awards.
type TimelineEvent struct {
	ChallengeID *int      `json:"challenge_id"`
	AccountID   int       `json:"account_id"`
	TeamID      *int      `json:"team_id"`
	UserID      int       `json:"user_id"`
	Value       int       `json:"value"`
	Date        time.Time `json:"date"`
}

// ScoreboardStanding is one rank slot in the scoreboard API response.
type ScoreboardStanding struct {
	ID     int             `json:"id"`
	Name   string          `json:"name"`
	Solves []TimelineEvent `json:"solves"`
}

// TeamSize is a team with its member count. Zero-member teams are included
// with size 0.
type TeamSize struct {
	TeamID  int
	Members int
}

// FieldEntry is one stored value of a custom team field.
type FieldEntry struct {
	TeamID int
	Value  string
}
