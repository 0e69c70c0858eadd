package lrclib

import (
	"context"
	"errors"
	"fmt"
)

// publishAttempts bounds how many challenge/solve/write cycles a single
// write may consume before the failure surfaces to the caller.
const publishAttempts = 3

// WriteAPI is the slice of [Client] the publisher needs. Narrow so tests can
// substitute a fake service.
type WriteAPI interface {
	RequestChallenge(ctx context.Context) (*Challenge, error)
	Publish(ctx context.Context, req PublishRequest, token string) error
	Flag(ctx context.Context, trackID int64, reason, token string) error
}

// Publisher runs the full write flow against the service: request a
// challenge, solve it off the caller's goroutine, attach the token and make
// the call. A rejected token earns a fresh challenge and another try, at
// most publishAttempts in total.
type Publisher struct {
	api WriteAPI

	// OnStep, when set, receives coarse progress notifications for CLI
	// display ("requesting challenge", "solving challenge", ...).
	OnStep func(step string)
}

// NewPublisher creates a Publisher on top of the given API.
func NewPublisher(api WriteAPI) *Publisher {
	return &Publisher{api: api}
}

// Publish uploads lyrics, solving a proof-of-work challenge first.
func (p *Publisher) Publish(ctx context.Context, req PublishRequest) error {
	return p.withToken(ctx, "publishing", func(token string) error {
		return p.api.Publish(ctx, req, token)
	})
}

// Flag reports a bad remote entry, solving a challenge first.
func (p *Publisher) Flag(ctx context.Context, trackID int64, reason string) error {
	return p.withToken(ctx, "flagging", func(token string) error {
		return p.api.Flag(ctx, trackID, reason, token)
	})
}

type solveResult struct {
	nonce string
	err   error
}

// withToken drives the challenge/solve/call cycle for one write. Tokens are
// single-use, so every attempt starts from a fresh challenge.
func (p *Publisher) withToken(ctx context.Context, stepName string, call func(token string) error) error {
	var lastErr error

	for attempt := 0; attempt < publishAttempts; attempt++ {
		p.step("requesting challenge")
		challenge, err := p.api.RequestChallenge(ctx)
		if err != nil {
			return fmt.Errorf("failed to request challenge: %w", err)
		}

		p.step("solving challenge")
		results := make(chan solveResult, 1)
		go func() {
			nonce, err := SolveChallenge(ctx, challenge)
			results <- solveResult{nonce: nonce, err: err}
		}()

		var res solveResult
		select {
		case res = <-results:
		case <-ctx.Done():
			return ctx.Err()
		}
		if res.err != nil {
			return fmt.Errorf("failed to solve challenge: %w", res.err)
		}

		p.step(stepName)
		err = call(challenge.Token(res.nonce))
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrUnauthorized) {
			return err
		}
		lastErr = err
	}

	return fmt.Errorf("write rejected after %d challenge attempts: %v", publishAttempts, lastErr)
}

func (p *Publisher) step(name string) {
	if p.OnStep != nil {
		p.OnStep(name)
	}
}
