// Package auth implements a self-contained authentication simulator:
// user registration, credential verification, email-code verification,
// password recovery, profile mutation, and a single persisted session,
// all backed by a pluggable key/blob storage port instead of a real
// backend.
//
// Storage model:
//   - Four named tables (users, current session, verification codes,
//     reset codes) are persisted as whole JSON values through the
//     Storage interface. MemoryStorage serves tests; BunStorage keeps
//     the tables in a SQLite blob table so state survives restarts.
//   - Mutations are load-mutate-store at whole-table granularity. There
//     is no cross-table transaction; concurrent writers from separate
//     processes follow last-write-wins.
//
// One-time codes:
//   - CodeStore issues fixed-width 6-digit codes per (email, purpose)
//     pair with purpose-specific expiry. Codes are single-use and
//     expiry is evaluated lazily at validation time; stale entries are
//     never swept.
//
// Auther ties the stores together and exposes the operation surface
// (Signup, Login, VerifyEmail, code sending, password reset, profile
// updates, DeleteAccount, Logout, Restore). Notifier delivery failures
// are logged and swallowed; the issued code rides back on the result so
// callers can fall back to disclosing it directly.
package auth
