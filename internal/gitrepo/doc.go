// Package gitrepo contains helpers for interrogating and manipulating Git repositories.
//
// It exposes RepositoryManager, which maps repository-level operations such as
// fetching remotes, rewriting branch history into a folder, and recording merge
// commits onto exact git invocations executed through execshell.
package gitrepo
