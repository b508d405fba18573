package internal

import (
	"time"
)

const (
	DefaultMaxRounds     = 5
	DefaultRoundDuration = 30 * time.Second

	StartLine       = 5.0
	FinishLine      = 80.0
	BaseMove        = 5.0
	BoostMultiplier = 1.5
	SlowMultiplier  = 0.5

	ItemEffectDuration   = 2000 * time.Millisecond
	PenaltyFlashDuration = 500 * time.Millisecond
	WinCelebrationDelay  = 1000 * time.Millisecond

	QuizTimeout       = 8 * time.Second
	QuizCorrectPoints = 30
	QuizTimeoutPoints = 10

	CountdownFrom = 3
	CountdownStep = 1 * time.Second

	MaxItemsOnField    = 3
	MinItemDistance    = 15.0
	PickupRadius       = 5.0
	SpawnAheadDistance = 15.0
	SpawnMinPosition   = 25.0
	SpawnFinishMargin  = 20.0
	ItemLifetime       = 5 * time.Second
	ItemFadeDuration   = 500 * time.Millisecond
)

var (
	GreenDwell      = DurationRange{Min: 1000 * time.Millisecond, Max: 1200 * time.Millisecond}
	YellowDwell     = DurationRange{Min: 800 * time.Millisecond, Max: 1000 * time.Millisecond}
	RedDwell        = DurationRange{Min: 1500 * time.Millisecond, Max: 2500 * time.Millisecond}
	FirstSpawnDelay = DurationRange{Min: 1 * time.Second, Max: 2 * time.Second}
	NextSpawnDelay  = DurationRange{Min: 3 * time.Second, Max: 7 * time.Second}
)

// DurationRange is an inclusive [Min, Max] window used for randomized dwell times.
type DurationRange struct {
	Min time.Duration `json:"min" yaml:"min"`
	Max time.Duration `json:"max" yaml:"max"`
}

type GamePhase string

const (
	PhaseStart      GamePhase = "start"
	PhaseTeamSetup  GamePhase = "team_setup"
	PhaseRoundStart GamePhase = "round_start"
	PhasePlaying    GamePhase = "playing"
	PhaseQuiz       GamePhase = "quiz"
	PhaseRoundEnd   GamePhase = "round_end"
	PhaseGameOver   GamePhase = "game_over"
)

// PlayingStage refines PhasePlaying. Once a team crosses the finish line the
// round sits in StageAwaitingWin until the celebration timer hands over to the
// quiz, and no further GO presses are accepted.
type PlayingStage string

const (
	StageNone        PlayingStage = ""
	StageRacing      PlayingStage = "racing"
	StageAwaitingWin PlayingStage = "awaiting_win"
)

type Light string

const (
	LightRed    Light = "red"
	LightYellow Light = "yellow"
	LightGreen  Light = "green"
)

// CanMove reports whether pressing GO under this light is legal.
func (l Light) CanMove() bool {
	return l == LightGreen || l == LightYellow
}

type Team string

const (
	TeamA Team = "teamA"
	TeamB Team = "teamB"
)

var Teams = []Team{TeamA, TeamB}

func (t Team) Valid() bool {
	return t == TeamA || t == TeamB
}

func (t Team) Opponent() Team {
	if t == TeamA {
		return TeamB
	}
	return TeamA
}

func (t Team) Label() string {
	switch t {
	case TeamA:
		return "Team A"
	case TeamB:
		return "Team B"
	}
	return string(t)
}

// PerTeam holds one value per side with value semantics, so copying a
// SessionState copies every per-team field with it.
type PerTeam[T any] struct {
	A T `json:"teamA"`
	B T `json:"teamB"`
}

func (p *PerTeam[T]) Get(t Team) T {
	return *p.Ptr(t)
}

func (p *PerTeam[T]) Set(t Team, v T) {
	*p.Ptr(t) = v
}

func (p *PerTeam[T]) Ptr(t Team) *T {
	if t == TeamB {
		return &p.B
	}
	return &p.A
}

type ItemKind string

const (
	ItemShield  ItemKind = "shield"
	ItemBooster ItemKind = "booster"
	ItemSlow    ItemKind = "slow"
	ItemIce     ItemKind = "ice"
)

var ItemKinds = []ItemKind{ItemShield, ItemBooster, ItemSlow, ItemIce}

// IsPositive reports whether the item benefits the collector. Negative items
// are applied to the opposing team instead.
func (k ItemKind) IsPositive() bool {
	return k == ItemShield || k == ItemBooster
}

func (k ItemKind) Effect() EffectKind {
	switch k {
	case ItemShield:
		return EffectShield
	case ItemBooster:
		return EffectBoost
	case ItemSlow:
		return EffectSlow
	default:
		return EffectFreeze
	}
}

type EffectKind string

const (
	EffectShield EffectKind = "shield"
	EffectBoost  EffectKind = "boost"
	EffectSlow   EffectKind = "slow"
	EffectFreeze EffectKind = "freeze"
)

var EffectKinds = []EffectKind{EffectShield, EffectBoost, EffectSlow, EffectFreeze}

func (k EffectKind) IsNegative() bool {
	return k == EffectSlow || k == EffectFreeze
}

type PlayerStatus struct {
	HasShield    bool `json:"hasShield"`
	IsBoosted    bool `json:"isBoosted"`
	IsSlowed     bool `json:"isSlowed"`
	IsFrozen     bool `json:"isFrozen"`
	IsWinner     bool `json:"isWinner"`
	PenaltyFlash bool `json:"penaltyFlash"`
}

// NewPlayerStatus returns a status record with every flag cleared.
func NewPlayerStatus() PlayerStatus {
	return PlayerStatus{}
}

func (s PlayerStatus) Has(k EffectKind) bool {
	switch k {
	case EffectShield:
		return s.HasShield
	case EffectBoost:
		return s.IsBoosted
	case EffectSlow:
		return s.IsSlowed
	case EffectFreeze:
		return s.IsFrozen
	}
	return false
}

func (s *PlayerStatus) SetEffect(k EffectKind, on bool) {
	switch k {
	case EffectShield:
		s.HasShield = on
	case EffectBoost:
		s.IsBoosted = on
	case EffectSlow:
		s.IsSlowed = on
	case EffectFreeze:
		s.IsFrozen = on
	}
}

func (s PlayerStatus) HasNegative() bool {
	return s.IsSlowed || s.IsFrozen
}

func (s PlayerStatus) HasPositive() bool {
	return s.HasShield || s.IsBoosted
}

type Item struct {
	Id           string   `json:"id"`
	Lane         Team     `json:"lane"`
	Kind         ItemKind `json:"kind"`
	Position     float64  `json:"position"`
	Disappearing bool     `json:"disappearing"`
}

type NextActionKind string

const (
	NextShowQuiz NextActionKind = "show_quiz"
	NextRound    NextActionKind = "next_round"
	NextGameOver NextActionKind = "game_over"
)

type NextAction struct {
	Kind NextActionKind `json:"kind"`
	Team Team           `json:"team,omitempty"`
}

type RoundEndState struct {
	Title       string     `json:"title"`
	Text        string     `json:"text"`
	WinningTeam *Team      `json:"winning_team"`
	IsSuccess   *bool      `json:"is_success"`
	NextAction  NextAction `json:"next_action"`
}

type QuizQuestion struct {
	Question      string   `json:"question"`
	Answers       []string `json:"answers"`
	CorrectAnswer string   `json:"correctAnswer"`
}

type RoundOutcome string

const (
	OutcomeFinish RoundOutcome = "finish"
	OutcomeTimeUp RoundOutcome = "time_up"
	OutcomeTie    RoundOutcome = "tie"
)

type QuizResult string

const (
	QuizNone    QuizResult = "none"
	QuizCorrect QuizResult = "correct"
	QuizWrong   QuizResult = "wrong"
	QuizExpired QuizResult = "timeout"
)

type RoundStats struct {
	RoundNumber   int              `json:"round_number"`
	Outcome       RoundOutcome     `json:"outcome"`
	Winner        *Team            `json:"winner"`
	QuizResult    QuizResult       `json:"quiz_result"`
	PointsAwarded int              `json:"points_awarded"`
	Positions     PerTeam[float64] `json:"positions"`
	EndTime       time.Time        `json:"end_time"`
}

type FinalResults struct {
	Scores       PerTeam[int] `json:"scores"`
	Winner       *Team        `json:"winner"`
	IsTie        bool         `json:"is_tie"`
	RoundsPlayed int          `json:"rounds_played"`
	History      []RoundStats `json:"history"`
}

// SessionState is the single source of truth for one game. It is owned by a
// game.Session and only ever mutated while that session's lock is held.
type SessionState struct {
	Phase        GamePhase    `json:"phase"`
	Stage        PlayingStage `json:"stage,omitempty"`
	CurrentRound int          `json:"current_round"`
	MaxRounds    int          `json:"max_rounds"`
	TimeLeft     int          `json:"time_left"`
	Countdown    int          `json:"countdown"`

	Positions    PerTeam[float64]      `json:"positions"`
	Scores       PerTeam[int]          `json:"scores"`
	CurrentLight Light                 `json:"current_light"`
	PlayerStatus PerTeam[PlayerStatus] `json:"player_status"`
	Items        []Item                `json:"items"`

	RoundEnd      *RoundEndState `json:"round_end,omitempty"`
	Quiz          *QuizQuestion  `json:"quiz,omitempty"`
	QuizTeam      Team           `json:"quiz_team,omitempty"`
	IsQuizLoading bool           `json:"is_quiz_loading"`

	IsPaused     bool `json:"is_paused"`
	ShowMenu     bool `json:"show_menu"`
	IsPreloading bool `json:"is_preloading"`

	Roster  Roster        `json:"roster"`
	History []RoundStats  `json:"history"`
	Results *FinalResults `json:"results,omitempty"`
}

// NewSessionState builds the state a session starts in and returns to on
// reset or exit.
func NewSessionState(maxRounds int, startLine float64) SessionState {
	if maxRounds < 1 {
		maxRounds = DefaultMaxRounds
	}
	return SessionState{
		Phase:        PhaseStart,
		CurrentRound: 1,
		MaxRounds:    maxRounds,
		Positions:    PerTeam[float64]{A: startLine, B: startLine},
		CurrentLight: LightRed,
		PlayerStatus: PerTeam[PlayerStatus]{A: NewPlayerStatus(), B: NewPlayerStatus()},
		Items:        make([]Item, 0, MaxItemsOnField),
		History:      make([]RoundStats, 0),
	}
}

// Clone returns a deep copy safe to hand to readers outside the session lock.
func (s SessionState) Clone() SessionState {
	out := s
	out.Items = append(make([]Item, 0, len(s.Items)), s.Items...)
	out.History = make([]RoundStats, len(s.History))
	for i, h := range s.History {
		h.Winner = cloneTeam(h.Winner)
		out.History[i] = h
	}
	out.Roster = s.Roster.Clone()
	if s.RoundEnd != nil {
		re := *s.RoundEnd
		re.WinningTeam = cloneTeam(re.WinningTeam)
		if re.IsSuccess != nil {
			v := *re.IsSuccess
			re.IsSuccess = &v
		}
		out.RoundEnd = &re
	}
	if s.Quiz != nil {
		q := *s.Quiz
		q.Answers = append([]string(nil), s.Quiz.Answers...)
		out.Quiz = &q
	}
	if s.Results != nil {
		r := *s.Results
		r.Winner = cloneTeam(r.Winner)
		r.History = out.History
		out.Results = &r
	}
	return out
}

func cloneTeam(t *Team) *Team {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
