package lrclib

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

// mockWriteAPI hands out trivial challenges and records every call.
type mockWriteAPI struct {
	challenges int
	publishes  int
	flags      int

	rejectFirst  int // publishes to reject with ErrUnauthorized before accepting
	challengeErr error
	publishErr   error

	lastToken      string
	lastReq        PublishRequest
	lastFlagID     int64
	lastFlagReason string
}

func (m *mockWriteAPI) RequestChallenge(ctx context.Context) (*Challenge, error) {
	m.challenges++
	if m.challengeErr != nil {
		return nil, m.challengeErr
	}
	return &Challenge{
		Prefix: fmt.Sprintf("prefix%d", m.challenges),
		Target: strings.Repeat("ff", 32),
	}, nil
}

func (m *mockWriteAPI) Publish(ctx context.Context, req PublishRequest, token string) error {
	m.publishes++
	m.lastToken = token
	m.lastReq = req
	if m.publishes <= m.rejectFirst {
		return ErrUnauthorized
	}
	return m.publishErr
}

func (m *mockWriteAPI) Flag(ctx context.Context, trackID int64, reason, token string) error {
	m.flags++
	m.lastToken = token
	m.lastFlagID = trackID
	m.lastFlagReason = reason
	return nil
}

func TestPublisher(t *testing.T) {
	t.Run("Publishes With A Solved Token", func(t *testing.T) {
		api := &mockWriteAPI{}
		p := NewPublisher(api)

		req := PublishRequest{TrackName: "Breathe", ArtistName: "Pink Floyd", Duration: 163.5}
		if err := p.Publish(context.Background(), req); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if api.challenges != 1 {
			t.Errorf("expected 1 challenge request, got %d", api.challenges)
		}
		if api.publishes != 1 {
			t.Errorf("expected 1 publish call, got %d", api.publishes)
		}
		if api.lastToken != "prefix1:0" {
			t.Errorf("expected token 'prefix1:0', got %s", api.lastToken)
		}
		if api.lastReq.TrackName != "Breathe" {
			t.Errorf("expected request to pass through, got %+v", api.lastReq)
		}
	})

	t.Run("Retries With A Fresh Challenge After Rejection", func(t *testing.T) {
		api := &mockWriteAPI{rejectFirst: 1}
		p := NewPublisher(api)

		if err := p.Publish(context.Background(), PublishRequest{}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if api.challenges != 2 {
			t.Errorf("expected a fresh challenge per attempt, got %d requests", api.challenges)
		}
		if api.publishes != 2 {
			t.Errorf("expected 2 publish calls, got %d", api.publishes)
		}
		if api.lastToken != "prefix2:0" {
			t.Errorf("retry must not reuse the rejected token, got %s", api.lastToken)
		}
	})

	t.Run("Gives Up After Bounded Attempts", func(t *testing.T) {
		api := &mockWriteAPI{rejectFirst: 100}
		p := NewPublisher(api)

		err := p.Publish(context.Background(), PublishRequest{})
		if err == nil {
			t.Fatal("expected error after exhausting attempts")
		}

		if api.publishes != publishAttempts {
			t.Errorf("expected exactly %d publish calls, got %d", publishAttempts, api.publishes)
		}
		if api.challenges != publishAttempts {
			t.Errorf("expected exactly %d challenge requests, got %d", publishAttempts, api.challenges)
		}
		if errors.Is(err, ErrUnauthorized) {
			t.Errorf("exhausted retries should surface as a plain failure, got %v", err)
		}
		if !strings.Contains(err.Error(), "challenge attempts") {
			t.Errorf("expected attempt count in message, got %v", err)
		}
	})

	t.Run("Returns Non-Auth Errors Immediately", func(t *testing.T) {
		api := &mockWriteAPI{publishErr: ErrRateLimited}
		p := NewPublisher(api)

		err := p.Publish(context.Background(), PublishRequest{})
		if !errors.Is(err, ErrRateLimited) {
			t.Fatalf("expected ErrRateLimited, got %v", err)
		}

		if api.publishes != 1 {
			t.Errorf("expected no retry for non-auth errors, got %d publishes", api.publishes)
		}
	})

	t.Run("Challenge Request Failure Surfaces", func(t *testing.T) {
		api := &mockWriteAPI{challengeErr: errors.New("boom")}
		p := NewPublisher(api)

		err := p.Publish(context.Background(), PublishRequest{})
		if err == nil {
			t.Fatal("expected error")
		}
		if !strings.Contains(err.Error(), "failed to request challenge") {
			t.Errorf("expected challenge failure message, got %v", err)
		}
		if api.publishes != 0 {
			t.Errorf("expected no publish call, got %d", api.publishes)
		}
	})

	t.Run("Flag Uses The Same Token Flow", func(t *testing.T) {
		api := &mockWriteAPI{}
		p := NewPublisher(api)

		if err := p.Flag(context.Background(), 42, "wrong lyrics"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if api.flags != 1 {
			t.Errorf("expected 1 flag call, got %d", api.flags)
		}
		if api.lastFlagID != 42 || api.lastFlagReason != "wrong lyrics" {
			t.Errorf("expected flag args to pass through, got id=%d reason=%q", api.lastFlagID, api.lastFlagReason)
		}
		if api.lastToken != "prefix1:0" {
			t.Errorf("expected solved token on flag call, got %s", api.lastToken)
		}
	})

	t.Run("Reports Steps", func(t *testing.T) {
		api := &mockWriteAPI{}
		p := NewPublisher(api)

		var steps []string
		p.OnStep = func(step string) { steps = append(steps, step) }

		if err := p.Publish(context.Background(), PublishRequest{}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		want := []string{"requesting challenge", "solving challenge", "publishing"}
		if len(steps) != len(want) {
			t.Fatalf("expected %d steps, got %v", len(want), steps)
		}
		for i := range want {
			if steps[i] != want[i] {
				t.Errorf("step %d: expected %q, got %q", i, want[i], steps[i])
			}
		}
	})

	t.Run("Honors Cancellation During Solve", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		api := &mockWriteAPI{}
		p := NewPublisher(api)

		err := p.Publish(ctx, PublishRequest{})
		if err == nil {
			t.Fatal("expected error for canceled context")
		}
		if api.publishes != 0 {
			t.Errorf("expected no publish call after cancellation, got %d", api.publishes)
		}
	})
}
