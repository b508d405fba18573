package quiz

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	log "github.com/sirupsen/logrus"

	"github.com/scythe504/stopgo-backend/internal"
)

// HTTPProvider GETs a JSON question from URL:
//
//	{"question": "...", "answers": ["a","b","c","d"], "correctAnswer": "b"}
//
// Transport errors and 5xx responses are retried with exponential backoff
// until ctx ends. 4xx responses and malformed payloads fail immediately.
type HTTPProvider struct {
	URL        string
	Client     *http.Client
	MaxRetries uint64
	Log        *log.Entry
}

func NewHTTPProvider(url string, logger *log.Entry) *HTTPProvider {
	return &HTTPProvider{
		URL:        url,
		Client:     &http.Client{Timeout: 4 * time.Second},
		MaxRetries: 3,
		Log:        logger,
	}
}

func (p *HTTPProvider) FetchQuestion(ctx context.Context) (internal.QuizQuestion, error) {
	var q internal.QuizQuestion
	attempt := 0

	op := func() error {
		attempt++
		fetched, err := p.fetchOnce(ctx)
		if err != nil {
			if p.Log != nil {
				p.Log.Debugf("[HTTPProvider.FetchQuestion] attempt=%d: %v", attempt, err)
			}
			return err
		}
		q = fetched
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 200 * time.Millisecond
	b.MaxInterval = 2 * time.Second
	if err := backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(b, p.MaxRetries), ctx)); err != nil {
		return internal.QuizQuestion{}, fmt.Errorf("fetch quiz question from %s: %w", p.URL, err)
	}
	return q, nil
}

func (p *HTTPProvider) fetchOnce(ctx context.Context) (internal.QuizQuestion, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.URL, nil)
	if err != nil {
		return internal.QuizQuestion{}, backoff.Permanent(err)
	}
	req.Header.Set("Accept", "application/json")

	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return internal.QuizQuestion{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return internal.QuizQuestion{}, fmt.Errorf("quiz server status %d", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return internal.QuizQuestion{}, backoff.Permanent(fmt.Errorf("quiz server status %d", resp.StatusCode))
	}

	var q internal.QuizQuestion
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&q); err != nil {
		return internal.QuizQuestion{}, backoff.Permanent(fmt.Errorf("%w: %v", ErrMalformedQuestion, err))
	}
	if err := Validate(q); err != nil {
		return internal.QuizQuestion{}, backoff.Permanent(err)
	}
	return q, nil
}
