// resolver.go — the content-provider boundary.
//
// The core never touches a filesystem or a network socket directly; it
// receives source text through an injectable Resolver (spec §6). This
// keeps the core pure-over-its-inputs except for the resolver call itself,
// which is the only suspension point per spec §5.
package dp

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// SourceText is the payload returned by a successful resolver call.
type SourceText struct {
	Text string
}

// Resolver is implemented by the host. Given a canonical source
// identifier it either confirms existence or fetches text. Implementations
// must be safe for concurrent reads (spec §5): the core may hold several
// resolvers' worth of outstanding imports across recursive compiles, and a
// Resolver may be shared across sessions.
type Resolver interface {
	Exists(ctx context.Context, sourceID string) bool
	GetText(ctx context.Context, sourceID string) (SourceText, error)
}

// ResolveError wraps a resolver failure with the source identifier that
// triggered it, so callers can render "import of X failed: ...".
type ResolveError struct {
	SourceID string
	Err      error
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("resolve %q: %v", e.SourceID, e.Err)
}

func (e *ResolveError) Unwrap() error { return e.Err }

// CanonicalizeURI converts an arbitrary source identifier into a canonical
// absolute URI per spec §6: strings already prefixed with file://, http://,
// or https:// pass through unchanged; anything else is treated as a
// filesystem path, resolved to an absolute path against the working
// directory (or the supplied base directory when non-empty), and converted
// to a file:// URI.
func CanonicalizeURI(sourceID string, baseDir string) (string, error) {
	if hasURIScheme(sourceID) {
		return sourceID, nil
	}
	abs := sourceID
	if !filepath.IsAbs(abs) {
		if baseDir != "" {
			abs = filepath.Join(baseDir, abs)
		} else {
			a, err := filepath.Abs(abs)
			if err != nil {
				return "", fmt.Errorf("canonicalize %q: %w", sourceID, err)
			}
			abs = a
		}
	}
	abs = filepath.Clean(abs)
	return "file://" + toSlash(abs), nil
}

func hasURIScheme(s string) bool {
	return strings.HasPrefix(s, "file://") ||
		strings.HasPrefix(s, "http://") ||
		strings.HasPrefix(s, "https://")
}

func toSlash(p string) string {
	return filepath.ToSlash(p)
}

// ResolveImportURI resolves an import path token's literal against the
// URI of the file containing the import, per spec §4.4 step 3: absolute
// literal paths stay absolute; otherwise the path is resolved relative to
// the importing file's directory.
func ResolveImportURI(importPath string, importingURI string) (string, error) {
	importPath = strings.TrimSpace(importPath)
	if hasURIScheme(importPath) {
		return importPath, nil
	}
	if filepath.IsAbs(importPath) {
		return CanonicalizeURI(importPath, "")
	}
	dir := filepath.Dir(strings.TrimPrefix(importingURI, "file://"))
	return CanonicalizeURI(importPath, dir)
}
