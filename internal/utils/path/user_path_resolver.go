package pathutils

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const tildePrefixConstant = "~"

// HomeDirectoryLookup reports the current user's home directory.
type HomeDirectoryLookup func() (string, error)

// UserPathResolver turns tilde-prefixed workspace paths into absolute ones.
//
// Monorepo directories and scratch locations are commonly written as ~/work/...
// in configuration files while git expects the resolved form.
type UserPathResolver struct {
	lookupHomeDirectory HomeDirectoryLookup
	cachedHomeDirectory string
	lookupFailure       error
	lookupOnce          sync.Once
}

// NewUserPathResolver constructs a resolver backed by the operating system account lookup.
func NewUserPathResolver() *UserPathResolver {
	return NewUserPathResolverWithLookup(os.UserHomeDir)
}

// NewUserPathResolverWithLookup constructs a resolver with a custom home directory lookup.
func NewUserPathResolverWithLookup(lookup HomeDirectoryLookup) *UserPathResolver {
	if lookup == nil {
		lookup = os.UserHomeDir
	}
	return &UserPathResolver{lookupHomeDirectory: lookup}
}

// Resolve replaces a leading tilde with the user's home directory.
//
// Paths without the prefix, and every path when the home directory cannot be
// determined, come back unchanged.
func (resolver *UserPathResolver) Resolve(rawPath string) string {
	if resolver == nil || !strings.HasPrefix(rawPath, tildePrefixConstant) {
		return rawPath
	}

	remainder, expandable := tildeRemainder(rawPath)
	if !expandable {
		return rawPath
	}

	homeDirectory := resolver.homeDirectory()
	if len(homeDirectory) == 0 {
		return rawPath
	}
	if len(remainder) == 0 {
		return homeDirectory
	}
	return filepath.Join(homeDirectory, remainder)
}

// tildeRemainder splits off the tilde prefix, accepting both the forward slash
// and the platform separator. Named shortcuts such as ~user are not expandable.
func tildeRemainder(rawPath string) (string, bool) {
	if rawPath == tildePrefixConstant {
		return "", true
	}
	for _, separator := range []string{"/", string(os.PathSeparator)} {
		prefixWithSeparator := tildePrefixConstant + separator
		if strings.HasPrefix(rawPath, prefixWithSeparator) {
			return rawPath[len(prefixWithSeparator):], true
		}
	}
	return "", false
}

func (resolver *UserPathResolver) homeDirectory() string {
	resolver.lookupOnce.Do(func() {
		resolver.cachedHomeDirectory, resolver.lookupFailure = resolver.lookupHomeDirectory()
	})
	if resolver.lookupFailure != nil {
		return ""
	}
	return resolver.cachedHomeDirectory
}
