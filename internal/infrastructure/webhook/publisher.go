// Package webhook pushes accepted-score events to a configured HTTP sink
// (Discord bridge, analytics collector). Delivery is fire-and-forget from
// the pipeline's perspective.
package webhook

import (
	"context"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/devstack-game/leaderboard/internal/domain/result"
	"github.com/devstack-game/leaderboard/internal/platform/logging"
	"github.com/devstack-game/leaderboard/internal/platform/resilience"
	"github.com/valyala/bytebufferpool"
	"github.com/valyala/fasthttp"
)

type PublisherConfig struct {
	SinkURL        string
	SigningToken   string
	Timeout        time.Duration
	MaxAttempts    int
	CircuitBreaker resilience.CircuitBreakerConfig
}

type Publisher struct {
	client         *fasthttp.Client
	sinkURL        string
	signingToken   string
	timeout        time.Duration
	maxAttempts    int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
}

func NewPublisher(cfg PublisherConfig, logger *logging.Logger) *Publisher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	maxAttempts := cfg.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	if logger == nil {
		logger = logging.Default()
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Publisher{
		client: &fasthttp.Client{
			ReadTimeout:  timeout,
			WriteTimeout: timeout,
		},
		sinkURL:        strings.TrimSpace(cfg.SinkURL),
		signingToken:   strings.TrimSpace(cfg.SigningToken),
		timeout:        timeout,
		maxAttempts:    maxAttempts,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

type acceptedEvent struct {
	Event       string    `json:"event"`
	ResultID    string    `json:"result_id"`
	PlayerID    string    `json:"player_id"`
	PlayerName  string    `json:"player_name"`
	Score       int       `json:"score"`
	Rounds      int       `json:"rounds"`
	Fingerprint string    `json:"fingerprint"`
	CompletedAt time.Time `json:"completed_at"`
}

// PublishAccepted posts one accepted result to the sink. Transport failures
// and 5xx responses are retried up to MaxAttempts and feed the circuit
// breaker; 4xx responses fail immediately.
func (p *Publisher) PublishAccepted(ctx context.Context, res result.Result) error {
	if p.sinkURL == "" {
		return nil
	}

	if p.circuitEnabled {
		if err := p.breaker.Allow(); err != nil {
			p.logger.WarnContext(ctx, "webhook circuit breaker rejected publish", "state", p.breaker.State())
			return crerr.Wrap(err, "webhook sink is temporarily unavailable")
		}
	}

	payload := acceptedEvent{
		Event:       "score.accepted",
		ResultID:    res.ID,
		PlayerID:    res.PlayerID,
		PlayerName:  res.PlayerName,
		Score:       res.Score,
		Rounds:      res.Rounds,
		Fingerprint: res.Fingerprint,
		CompletedAt: res.CompletedAt,
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	encoded, err := sonic.Marshal(payload)
	if err != nil {
		return crerr.Wrap(err, "marshal accepted event")
	}
	_, _ = buf.Write(encoded)

	err = p.post(ctx, buf.Bytes())
	if p.circuitEnabled {
		if err != nil {
			p.breaker.RecordFailure()
		} else {
			p.breaker.RecordSuccess()
		}
	}

	return err
}

func (p *Publisher) post(ctx context.Context, body []byte) error {
	var lastErr error
	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return crerr.Wrap(err, "publish accepted event")
		}

		req := fasthttp.AcquireRequest()
		resp := fasthttp.AcquireResponse()

		req.SetRequestURI(p.sinkURL)
		req.Header.SetMethod(fasthttp.MethodPost)
		req.Header.SetContentType("application/json")
		if p.signingToken != "" {
			req.Header.Set("X-Webhook-Token", p.signingToken)
		}
		req.SetBody(body)

		err := p.client.DoTimeout(req, resp, p.timeout)
		status := resp.StatusCode()
		fasthttp.ReleaseRequest(req)
		fasthttp.ReleaseResponse(resp)

		switch {
		case err != nil:
			lastErr = crerr.Wrapf(err, "post accepted event attempt=%d", attempt)
		case status/100 == 2:
			return nil
		case status >= 500:
			lastErr = crerr.Newf("webhook sink returned status %d attempt=%d", status, attempt)
		default:
			return crerr.Newf("webhook sink rejected event with status %d", status)
		}
	}

	return lastErr
}
