package nlp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/conversify/conversify/internal/config"
	"github.com/conversify/conversify/internal/core"
	"github.com/conversify/conversify/pkg/log"
	"github.com/conversify/conversify/pkg/retry"
)

// Remote calls an out-of-process model server for annotation. The server owns
// the transformer pipelines; this client only ships text and decodes the
// annotation. Transient failures are retried with backoff; the engine's
// neutral-fallback path handles anything that still fails.
type Remote struct {
	url     string
	client  *http.Client
	retrier *retry.Retrier
}

func NewRemote(cfg *config.NLPConfig) (*Remote, error) {
	if cfg.RemoteURL == "" {
		return nil, fmt.Errorf("NLP_REMOTE_URL is required for the remote provider")
	}

	return &Remote{
		url:    cfg.RemoteURL,
		client: &http.Client{Timeout: cfg.Timeout()},
		retrier: retry.NewRetrier(&retry.Config{
			MaxRetries:    cfg.MaxRetries,
			BackoffFactor: 2.0,
			InitialDelay:  200 * time.Millisecond,
			MaxDelay:      5 * time.Second,
			Jitter:        50 * time.Millisecond,
		}),
	}, nil
}

type annotateRequest struct {
	Text string `json:"text"`
}

func (r *Remote) Annotate(ctx context.Context, text string) (core.Annotation, error) {
	body, err := json.Marshal(annotateRequest{Text: text})
	if err != nil {
		return core.Annotation{}, fmt.Errorf("failed to marshal annotate request: %w", err)
	}

	var ann core.Annotation
	err = r.retrier.Do(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url+"/annotate", bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := r.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			return fmt.Errorf("annotate returned %d: %s", resp.StatusCode, payload)
		}

		return json.NewDecoder(resp.Body).Decode(&ann)
	})
	if err != nil {
		return core.Annotation{}, fmt.Errorf("remote annotation failed: %w", err)
	}

	log.FromCtx(ctx).Debug().Str("intent", ann.Intent.Primary).Float64("sentiment", ann.Sentiment).Msg("remote annotation")
	return ann, nil
}
