// Package lrclib implements the wire protocol of the LRCLIB lyrics service.
//
// # Client
//
// [Client] wraps a pooled [net/http.Client] and exposes the read endpoints
// (search, exact get, get by ID) and the write endpoints (publish, flag).
// All calls share one client instance and carry a stable User-Agent so the
// service can identify the application. A [rate.Limiter] gates every request;
// the client itself never retries.
//
// # Errors
//
// Remote failures map to typed errors callers can branch on:
//   - [ErrNotFound] : no entry for the requested track (404)
//   - [ErrRateLimited] : the service asked us to back off (429)
//   - [ErrUnauthorized] : a write was rejected for a bad publish token
//   - [ErrNetwork] : the request never produced an HTTP response
//   - [ServerError] : any other non-2xx status, with the decoded error body
//
// # Write authorization
//
// Writes are authorized by proof-of-work: the service hands out a [Challenge],
// [SolveChallenge] brute-forces a nonce whose hash clears the target, and the
// resulting token authorizes exactly one write. [Publisher] packages the whole
// flow (request challenge, solve, attach token, call) with a bounded retry
// when the service rejects a token.
package lrclib
