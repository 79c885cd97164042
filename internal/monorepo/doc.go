// Package monorepo assembles independently versioned Git repositories into a
// single monorepo while preserving their full branch and tag history.
//
// The package parses a repository catalog, classifies every source branch,
// rewrites matching histories so each repository lives under its own folder,
// and sequences the whole run through a persisted manifest so interrupted
// runs resume at the exact step where they stopped.
package monorepo
