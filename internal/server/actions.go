package server

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/scythe504/stopgo-backend/internal"
	"github.com/scythe504/stopgo-backend/internal/game"
)

var (
	ErrUnknownAction = errors.New("unknown action")
	ErrInvalidTeam   = errors.New("invalid team")
)

// Dispatch decodes action's payload and invokes the matching session
// operation. Only malformed input is an error; actions that are not legal in
// the current phase are silently ignored by the session.
func Dispatch(session *game.Session, action internal.Action) error {
	switch action.Type {
	case internal.ActionStart:
		session.Start()
	case internal.ActionConfirmTeamSetup:
		var data internal.TeamSetupData
		if err := decode(action, &data); err != nil {
			return err
		}
		session.ConfirmTeamSetup(data.TeamA, data.TeamB)
	case internal.ActionBeginRound:
		session.BeginRound()
	case internal.ActionPressGo:
		var data internal.TeamData
		if err := decodeTeam(action, &data); err != nil {
			return err
		}
		session.PressGo(data.Team)
	case internal.ActionSubmitQuizAnswer:
		var data internal.QuizAnswerData
		if err := decode(action, &data); err != nil {
			return err
		}
		if !data.Team.Valid() {
			return ErrInvalidTeam
		}
		session.SubmitQuizAnswer(data.Team, data.IsCorrect)
	case internal.ActionAnswerQuiz:
		var data internal.QuizAnswerData
		if err := decode(action, &data); err != nil {
			return err
		}
		if !data.Team.Valid() {
			return ErrInvalidTeam
		}
		session.AnswerQuiz(data.Team, data.Answer)
	case internal.ActionContinue:
		session.Continue()
	case internal.ActionPause:
		session.Pause()
	case internal.ActionResume:
		session.Resume()
	case internal.ActionOpenMenu:
		session.OpenMenu()
	case internal.ActionCloseMenu:
		session.CloseMenu()
	case internal.ActionEndGame:
		session.EndGameFromMenu()
	case internal.ActionExit:
		session.Exit()
	case internal.ActionReset:
		session.Reset()
	case internal.ActionAddBonus:
		var data internal.BonusData
		if err := decode(action, &data); err != nil {
			return err
		}
		if !data.Team.Valid() {
			return ErrInvalidTeam
		}
		session.AddManualBonusPoints(data.Team, data.Amount)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, action.Type)
	}
	return nil
}

func decode(action internal.Action, v any) error {
	if len(action.Data) == 0 {
		return fmt.Errorf("%s: missing data", action.Type)
	}
	if err := json.Unmarshal(action.Data, v); err != nil {
		return fmt.Errorf("%s: decoding data: %w", action.Type, err)
	}
	return nil
}

func decodeTeam(action internal.Action, data *internal.TeamData) error {
	if err := decode(action, data); err != nil {
		return err
	}
	if !data.Team.Valid() {
		return fmt.Errorf("%s: %w %q", action.Type, ErrInvalidTeam, data.Team)
	}
	return nil
}
