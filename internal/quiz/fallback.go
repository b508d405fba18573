package quiz

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/scythe504/stopgo-backend/internal"
)

type fallbackProvider struct {
	primary Provider
	pool    *Pool
	log     *log.Entry
}

// WithFallback wraps primary so that any error or malformed payload is
// replaced by a question from pool. The returned provider only fails when ctx
// is already done.
func WithFallback(primary Provider, pool *Pool, logger *log.Entry) Provider {
	if primary == nil {
		return pool
	}
	if logger == nil {
		logger = log.NewEntry(log.StandardLogger())
	}
	return &fallbackProvider{primary: primary, pool: pool, log: logger}
}

func (f *fallbackProvider) FetchQuestion(ctx context.Context) (internal.QuizQuestion, error) {
	q, err := f.primary.FetchQuestion(ctx)
	if err == nil {
		err = Validate(q)
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return internal.QuizQuestion{}, ctxErr
		}
		f.log.Warnf("[WithFallback] quiz provider failed, using local pool: %v", err)
		return f.pool.Random(), nil
	}
	return q, nil
}
