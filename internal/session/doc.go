// Package session holds the durable session and user model, the persistence
// contract, and the per-request gateway that resolves an inbound session
// cookie to an active session.
//
// A session identifies a browser across requests independently of user
// identity. Revoked sessions are never reused; the gateway replaces them with
// freshly minted ones when its policy allows it. Persistence is abstracted
// behind the Store interface so handlers can be tested against the in-memory
// implementation.
package session
