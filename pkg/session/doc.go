// Package session provides a client-side stream manager for a single
// conversational websocket endpoint.
//
// Ownership model:
//   - A Manager owns exactly one live channel at a time, bound to an opaque
//     session identity that scopes the server-side conversation context.
//   - The transcript is append-only and mutated only through the two manager
//     paths (local send, remote frame); hosts read snapshots.
//   - Transient connection loss is recovered with bounded exponential
//     backoff; exhausted retries leave the manager usable via ForceReconnect.
//
// Hosts (TUI, tests) consume the exposed surface only: Transcript, Indicator,
// Send, ForceReconnect, and the Updates change-notification channel.
package session
