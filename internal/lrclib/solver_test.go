package lrclib

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"testing"
	"time"
)

// solves reports whether nonce is a valid solution for the challenge.
func solves(t *testing.T, challenge *Challenge, nonce string) bool {
	t.Helper()
	target, err := hex.DecodeString(challenge.Target)
	if err != nil {
		t.Fatalf("bad target in test fixture: %v", err)
	}
	sum := sha256.Sum256([]byte(challenge.Prefix + nonce))
	return bytes.Compare(sum[:], target) <= 0
}

func TestSolveChallenge(t *testing.T) {
	t.Run("Solves A Trivial Target Immediately", func(t *testing.T) {
		challenge := &Challenge{Prefix: "V2hhdCBh", Target: strings.Repeat("ff", 32)}

		nonce, err := SolveChallenge(context.Background(), challenge)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if nonce != "0" {
			t.Errorf("every hash clears an all-ff target, expected nonce 0, got %s", nonce)
		}
	})

	t.Run("Accepts A Hash Equal To The Target", func(t *testing.T) {
		prefix := "Ym9yZWQg"
		sum := sha256.Sum256([]byte(prefix + "0"))
		challenge := &Challenge{Prefix: prefix, Target: hex.EncodeToString(sum[:])}

		nonce, err := SolveChallenge(context.Background(), challenge)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if nonce != "0" {
			t.Errorf("hash equal to target must be accepted, expected nonce 0, got %s", nonce)
		}
	})

	t.Run("Finds A Valid Nonce For A Harder Target", func(t *testing.T) {
		// Leading 0x0f keeps the expected work around a few hundred hashes.
		challenge := &Challenge{Prefix: "aG9sZSBp", Target: "0f" + strings.Repeat("ff", 31)}

		nonce, err := SolveChallenge(context.Background(), challenge)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !solves(t, challenge, nonce) {
			t.Errorf("returned nonce %s does not clear the target", nonce)
		}
		if _, err := strconv.ParseUint(nonce, 10, 64); err != nil {
			t.Errorf("nonce should be a decimal number, got %s", nonce)
		}
	})

	t.Run("Earlier Nonces Do Not Solve", func(t *testing.T) {
		challenge := &Challenge{Prefix: "biB0aGUg", Target: "00ff" + strings.Repeat("ff", 30)}

		nonce, err := SolveChallenge(context.Background(), challenge)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		n, err := strconv.ParseUint(nonce, 10, 64)
		if err != nil {
			t.Fatalf("nonce should be a decimal number, got %s", nonce)
		}

		limit := n
		if limit > 64 {
			limit = 64
		}
		for i := uint64(0); i < limit; i++ {
			if solves(t, challenge, strconv.FormatUint(i, 10)) {
				t.Fatalf("nonce %d already solves the challenge but %d was returned", i, n)
			}
		}
	})

	t.Run("Rejects A Non-Hex Target", func(t *testing.T) {
		challenge := &Challenge{Prefix: "x", Target: "not hex at all"}

		if _, err := SolveChallenge(context.Background(), challenge); err == nil {
			t.Error("expected error for malformed target")
		}
	})

	t.Run("Rejects A Short Target", func(t *testing.T) {
		challenge := &Challenge{Prefix: "x", Target: "ffff"}

		if _, err := SolveChallenge(context.Background(), challenge); err == nil {
			t.Error("expected error for 2-byte target")
		}
	})

	t.Run("Stops Promptly On Cancellation", func(t *testing.T) {
		// An all-zero target only the zero hash can clear, so the solve
		// effectively never finishes on its own.
		challenge := &Challenge{Prefix: "c2t5", Target: strings.Repeat("00", 32)}

		ctx, cancel := context.WithCancel(context.Background())

		done := make(chan error, 1)
		go func() {
			_, err := SolveChallenge(ctx, challenge)
			done <- err
		}()

		time.Sleep(20 * time.Millisecond)
		cancel()

		select {
		case err := <-done:
			if err != context.Canceled {
				t.Errorf("expected context.Canceled, got %v", err)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("solver did not stop after cancellation")
		}
	})
}
