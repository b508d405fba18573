package internal

import "encoding/json"

type Message[T any] struct {
	Type string `json:"type"`
	Data T      `json:"data"`
}

// Inbound action types sent by the presentation layer.
const (
	ActionStart            = "start"
	ActionConfirmTeamSetup = "confirm_team_setup"
	ActionBeginRound       = "begin_round"
	ActionPressGo          = "press_go"
	ActionSubmitQuizAnswer = "submit_quiz_answer"
	ActionAnswerQuiz       = "answer_quiz"
	ActionContinue         = "continue"
	ActionPause            = "pause"
	ActionResume           = "resume"
	ActionOpenMenu         = "open_menu"
	ActionCloseMenu        = "close_menu"
	ActionEndGame          = "end_game"
	ActionExit             = "exit"
	ActionReset            = "reset"
	ActionAddBonus         = "add_bonus"
)

// Outbound message types.
const (
	MessageSnapshot = "snapshot"
	MessageError    = "error"
)

type Action = Message[json.RawMessage]

type TeamSetupData struct {
	TeamA []string `json:"teamA"`
	TeamB []string `json:"teamB"`
}

type TeamData struct {
	Team Team `json:"team"`
}

type QuizAnswerData struct {
	Team      Team   `json:"team"`
	IsCorrect bool   `json:"isCorrect"`
	Answer    string `json:"answer,omitempty"`
}

type BonusData struct {
	Team   Team `json:"team"`
	Amount int  `json:"amount"`
}

// SnapshotData is the read-only projection pushed after every state change.
type SnapshotData struct {
	SessionID string       `json:"session_id"`
	Version   uint64       `json:"version"`
	State     SessionState `json:"state"`
}

type Response struct {
	StatusCode    int   `json:"status_code"`
	RespStartTime int64 `json:"resp_time_start_ms"`
	RespEndTime   int64 `json:"resp_time_end_ms"`
	NetRespTime   int64 `json:"net_resp_time_ms"`
	Data          any   `json:"data"`
}
