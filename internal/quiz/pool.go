package quiz

import (
	"context"
	_ "embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/scythe504/stopgo-backend/internal"
)

//go:embed trivia.csv
var defaultTrivia string

// Pool is a fixed local set of questions. It never fails and is used both as
// a provider on its own and as the fallback for a remote provider.
type Pool struct {
	mu        sync.Mutex
	questions []internal.QuizQuestion
	rng       *rand.Rand
	last      int
}

func NewPool(questions []internal.QuizQuestion, rng *rand.Rand) (*Pool, error) {
	if len(questions) == 0 {
		return nil, errors.New("quiz pool is empty")
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Pool{
		questions: append([]internal.QuizQuestion(nil), questions...),
		rng:       rng,
		last:      -1,
	}, nil
}

// DefaultPool builds a pool from the embedded trivia set.
func DefaultPool() *Pool {
	questions, err := ReadCSV(strings.NewReader(defaultTrivia))
	if err != nil {
		panic(fmt.Sprintf("embedded trivia invalid: %v", err))
	}
	p, err := NewPool(questions, nil)
	if err != nil {
		panic(err)
	}
	return p
}

func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.questions)
}

// Add appends extra questions, e.g. from an operator supplied CSV.
func (p *Pool) Add(questions ...internal.QuizQuestion) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.questions = append(p.questions, questions...)
}

// Random picks a question, avoiding an immediate repeat when the pool has
// more than one entry. Answers are returned in a fresh shuffled slice.
func (p *Pool) Random() internal.QuizQuestion {
	p.mu.Lock()
	defer p.mu.Unlock()

	idx := p.rng.IntN(len(p.questions))
	if idx == p.last && len(p.questions) > 1 {
		idx = (idx + 1) % len(p.questions)
	}
	p.last = idx

	q := p.questions[idx]
	q.Answers = append([]string(nil), q.Answers...)
	p.rng.Shuffle(len(q.Answers), func(i, j int) {
		q.Answers[i], q.Answers[j] = q.Answers[j], q.Answers[i]
	})
	return q
}

func (p *Pool) FetchQuestion(ctx context.Context) (internal.QuizQuestion, error) {
	if err := ctx.Err(); err != nil {
		return internal.QuizQuestion{}, err
	}
	return p.Random(), nil
}

// ReadCSV parses rows of "question,answer1,answer2,answer3,answer4,correct".
// Invalid rows are logged and skipped.
func ReadCSV(r io.Reader) ([]internal.QuizQuestion, error) {
	csvReader := csv.NewReader(r)
	csvReader.FieldsPerRecord = -1
	csvReader.TrimLeadingSpace = true

	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse trivia csv: %w", err)
	}

	var questions []internal.QuizQuestion
	for i, record := range records {
		if len(record) != AnswerCount+2 {
			log.Debugf("[ReadCSV] skipping row %d with %d fields", i+1, len(record))
			continue
		}
		q := internal.QuizQuestion{
			Question:      strings.TrimSpace(record[0]),
			Answers:       make([]string, 0, AnswerCount),
			CorrectAnswer: strings.TrimSpace(record[AnswerCount+1]),
		}
		for _, a := range record[1 : AnswerCount+1] {
			q.Answers = append(q.Answers, strings.TrimSpace(a))
		}
		if err := Validate(q); err != nil {
			log.Debugf("[ReadCSV] skipping row %d: %v", i+1, err)
			continue
		}
		questions = append(questions, q)
	}
	return questions, nil
}

func ReadCSVFile(path string) ([]internal.QuizQuestion, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open trivia file %s: %w", path, err)
	}
	defer f.Close()

	return ReadCSV(f)
}
