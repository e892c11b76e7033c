package bot

// Telegram sender with retry and circuit breaker
// 429 and 5xx answers are retried (retry_after honoured), others fail at once
// The breaker opens after repeated failures so a dead API is not hammered

import (
	"context"
	"errors"
	"net/http"
	"time"

	log "line-chart/internal/infra/log"
	"line-chart/internal/infra/retry"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// Messenger is the part of the Bot API the command handler uses.
type Messenger interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Sender struct {
	api            Messenger
	retryOpts      retry.Options
	circuitBreaker *gobreaker.CircuitBreaker
}

func NewSender(api Messenger, opts retry.Options) *Sender {
	circuitBreaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "TelegramAPI",
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.LogWarn("Circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})

	return &Sender{
		api:            api,
		retryOpts:      opts,
		circuitBreaker: circuitBreaker,
	}
}

// Send delivers c, retrying transient Telegram failures.
func (s *Sender) Send(ctx context.Context, c tgbotapi.Chattable) (tgbotapi.Message, error) {
	var sent tgbotapi.Message
	_, err := s.circuitBreaker.Execute(func() (interface{}, error) {
		err := retry.Do(ctx, s.retryOpts, func() error {
			msg, err := s.api.Send(c)
			if err != nil {
				return classify(err)
			}
			sent = msg
			return nil
		})
		return nil, err
	})
	if err != nil {
		return tgbotapi.Message{}, err
	}
	return sent, nil
}

// classify turns Bot API errors into retry.HTTPError so retry.Do can tell
// flood control and server errors from permanent ones.
func classify(err error) error {
	var apiErr *tgbotapi.Error
	if !errors.As(err, &apiErr) {
		// transport failure, treat like a gateway error
		return &retry.HTTPError{StatusCode: http.StatusBadGateway, Body: []byte(err.Error())}
	}
	return &retry.HTTPError{
		StatusCode: apiErr.Code,
		Body:       []byte(apiErr.Message),
		RetryAfter: time.Duration(apiErr.RetryAfter) * time.Second,
	}
}
