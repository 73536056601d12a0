// Package domain defines the core domain types and interfaces.
//
// Concept-oriented files (user.go, generation.go, moderation.go, analytics.go,
// session.go) hold the server-defined records the console works with, plus the
// repository and service contracts between layers. No implementation code,
// just contracts. Keeping interfaces on the consumer side prevents circular
// imports.
package domain
