package game

import (
	"context"
	"fmt"

	"github.com/scythe504/stopgo-backend/internal"
	"github.com/scythe504/stopgo-backend/internal/quiz"
)

// =============================================================================
// QUIZ FLOW
// =============================================================================

// enterQuizLocked shows a quiz to team. The question is fetched in the
// background while the timeout runs; whichever of answer or timeout comes
// first decides the score.
func (s *Session) enterQuizLocked(team internal.Team) {
	s.leavePlayingLocked()
	s.abandonQuizFetchLocked()

	s.state.Phase = internal.PhaseQuiz
	s.state.RoundEnd = nil
	s.state.Quiz = nil
	s.state.QuizTeam = team
	s.state.IsQuizLoading = true

	s.quizGen++
	gen := s.quizGen
	ctx, cancel := context.WithTimeout(context.Background(), s.tuning.QuizTimeout)
	s.quizCancel = cancel

	s.schedule(TimerQuiz, s.tuning.QuizTimeout, s.quizTimedOutLocked)
	go s.fetchQuiz(ctx, gen)

	s.log.Infof("[enterQuiz] round=%d: quiz for %s (timeout %v)", s.state.CurrentRound, team, s.tuning.QuizTimeout)
}

// fetchQuiz runs without the lock. Its result is dropped if the quiz it was
// started for is no longer showing.
func (s *Session) fetchQuiz(ctx context.Context, gen uint64) {
	q, err := s.quiz.FetchQuestion(ctx)
	if err == nil {
		err = quiz.Validate(q)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || gen != s.quizGen || s.state.Phase != internal.PhaseQuiz || !s.state.IsQuizLoading {
		s.log.Debugf("[fetchQuiz] gen=%d: quiz no longer pending, dropping result", gen)
		return
	}
	if err != nil {
		s.log.Warnf("[fetchQuiz] using local question: %v", err)
		q = s.fallback.Random()
	}
	s.state.Quiz = &q
	s.state.IsQuizLoading = false
	s.publishLocked()
}

func (s *Session) abandonQuizFetchLocked() {
	if s.quizCancel != nil {
		s.quizCancel()
		s.quizCancel = nil
	}
	s.quizGen++
}

func (s *Session) quizTimedOutLocked() {
	if s.state.Phase != internal.PhaseQuiz {
		return
	}
	team := s.state.QuizTeam
	points := s.tuning.QuizTimeoutPoints
	s.closeQuizLocked()

	*s.state.Scores.Ptr(team) += points
	s.log.Infof("[quizTimedOut] %s: no answer, +%d", team, points)
	s.concludeRoundLocked(
		"Time's Up!",
		fmt.Sprintf("No answer in time. %s still earns %d bonus points!", s.state.Roster.DisplayName(team, s.state.CurrentRound), points),
		&team, nil, internal.QuizExpired, points,
	)
}

// SubmitQuizAnswer scores the quiz for team. It is ignored unless team is the
// one being quizzed and the question is on screen.
func (s *Session) SubmitQuizAnswer(team internal.Team, isCorrect bool) {
	s.apply("SubmitQuizAnswer", func() bool {
		return s.submitQuizAnswerLocked(team, isCorrect)
	})
}

// AnswerQuiz checks choice against the current question and scores it.
func (s *Session) AnswerQuiz(team internal.Team, choice string) {
	s.apply("AnswerQuiz", func() bool {
		if s.state.Quiz == nil {
			return false
		}
		return s.submitQuizAnswerLocked(team, quiz.IsCorrect(*s.state.Quiz, choice))
	})
}

func (s *Session) submitQuizAnswerLocked(team internal.Team, isCorrect bool) bool {
	if s.state.Phase != internal.PhaseQuiz || team != s.state.QuizTeam || s.state.IsQuizLoading || s.state.Quiz == nil {
		return false
	}
	correctAnswer := s.state.Quiz.CorrectAnswer
	s.closeQuizLocked()

	name := s.state.Roster.DisplayName(team, s.state.CurrentRound)
	if isCorrect {
		points := s.tuning.QuizCorrectPoints
		*s.state.Scores.Ptr(team) += points
		s.log.Infof("[SubmitQuizAnswer] %s: correct, +%d", team, points)
		s.concludeRoundLocked("Correct!", fmt.Sprintf("%s earns %d points!", name, points),
			&team, boolPtr(true), internal.QuizCorrect, points)
		return true
	}

	s.log.Infof("[SubmitQuizAnswer] %s: wrong", team)
	s.concludeRoundLocked("Not quite!", fmt.Sprintf("The answer was %s. No points for %s this time.", correctAnswer, name),
		&team, boolPtr(false), internal.QuizWrong, 0)
	return true
}

// closeQuizLocked stops the timeout and any in-flight fetch.
func (s *Session) closeQuizLocked() {
	s.timers.Cancel(TimerQuiz)
	s.abandonQuizFetchLocked()
	s.state.Quiz = nil
	s.state.QuizTeam = ""
	s.state.IsQuizLoading = false
}

func boolPtr(v bool) *bool {
	return &v
}
