// Package simplefeed provides the social-content core of a feed application:
// posts with editable content and like counts, and users who follow each other.
//
// The domain types (User, Post, PostContent, Counter) enforce their own
// invariants and perform no I/O. A Service wires them to a pluggable
// Repository (memory or Postgres, under repo/) and an optional EventSink.
//
// # Concurrency
//
// Domain types are not safe for concurrent mutation. The Service loads a fresh
// copy of each aggregate per call and persists it with an optimistic version
// check; on ErrConflict the whole operation is retried a bounded number of
// times.
package simplefeed
