package lrclib

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
)

// checkInterval is how many nonces the solver tries between context polls.
const checkInterval = 1024

// SolveChallenge brute-forces a nonce for the given challenge. Nonces are
// tried in increasing order from zero; a nonce is accepted when
// sha256(prefix + nonce) compares less than or equal to the target across
// all 32 bytes. The context is polled between batches so a cancelled solve
// stops promptly.
func SolveChallenge(ctx context.Context, challenge *Challenge) (string, error) {
	target, err := hex.DecodeString(challenge.Target)
	if err != nil {
		return "", fmt.Errorf("invalid challenge target: %w", err)
	}
	if len(target) != sha256.Size {
		return "", fmt.Errorf("invalid challenge target: expected %d bytes, got %d", sha256.Size, len(target))
	}

	// The loop hashes millions of inputs for realistic targets, so the
	// input buffer is reused across iterations.
	buf := make([]byte, 0, len(challenge.Prefix)+20)

	for nonce := uint64(0); ; nonce++ {
		if nonce%checkInterval == 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			default:
			}
		}

		buf = append(buf[:0], challenge.Prefix...)
		buf = strconv.AppendUint(buf, nonce, 10)

		sum := sha256.Sum256(buf)
		if bytes.Compare(sum[:], target) <= 0 {
			return string(buf[len(challenge.Prefix):]), nil
		}
	}
}
