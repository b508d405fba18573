package quiz

import (
	"context"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scythe504/stopgo-backend/internal"
)

func TestReadCSVSkipsInvalidRows(t *testing.T) {
	data := strings.Join([]string{
		"How many legs does a spider have?,6,8,10,4,8",
		"Too few fields,a,b",
		"Correct answer missing?,a,b,c,d,e",
		`"Quoted, with a comma?", yes , no ,maybe,never, yes`,
	}, "\n")

	questions, err := ReadCSV(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, questions, 2)
	assert.Equal(t, "8", questions[0].CorrectAnswer)
	assert.Equal(t, "Quoted, with a comma?", questions[1].Question)
	assert.Equal(t, []string{"yes", "no", "maybe", "never"}, questions[1].Answers)
}

func TestReadCSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trivia.csv")
	require.NoError(t, os.WriteFile(path, []byte("What do bees make?,Milk,Honey,Bread,Juice,Honey\n"), 0o600))

	questions, err := ReadCSVFile(path)
	require.NoError(t, err)
	assert.Len(t, questions, 1)

	_, err = ReadCSVFile(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

func TestDefaultPoolQuestionsAreValid(t *testing.T) {
	p := DefaultPool()
	require.Greater(t, p.Len(), 10)
	for i := 0; i < 50; i++ {
		assert.NoError(t, Validate(p.Random()))
	}
}

func TestPoolAvoidsImmediateRepeat(t *testing.T) {
	questions := []internal.QuizQuestion{
		{Question: "One?", Answers: []string{"a", "b", "c", "d"}, CorrectAnswer: "a"},
		{Question: "Two?", Answers: []string{"a", "b", "c", "d"}, CorrectAnswer: "b"},
	}
	p, err := NewPool(questions, rand.New(rand.NewPCG(3, 4)))
	require.NoError(t, err)

	prev := p.Random().Question
	for i := 0; i < 20; i++ {
		next := p.Random().Question
		assert.NotEqual(t, prev, next)
		prev = next
	}
}

func TestPoolShufflesCopy(t *testing.T) {
	q := internal.QuizQuestion{Question: "One?", Answers: []string{"a", "b", "c", "d"}, CorrectAnswer: "a"}
	p, err := NewPool([]internal.QuizQuestion{q}, rand.New(rand.NewPCG(1, 1)))
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		got := p.Random()
		assert.ElementsMatch(t, q.Answers, got.Answers)
	}
	assert.Equal(t, []string{"a", "b", "c", "d"}, q.Answers)
}

func TestEmptyPool(t *testing.T) {
	_, err := NewPool(nil, nil)
	assert.Error(t, err)
}

func TestPoolFetchHonorsContext(t *testing.T) {
	p := DefaultPool()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := p.FetchQuestion(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
