package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/curefate/DialoguePlus-Extension/dp"
)

// fsResolver is the filesystem-backed dp.Resolver used by the CLI (spec
// §6: "the CLI provides a filesystem resolver (os.ReadFile + os.Stat)").
// importRoots lets a dp.toml manifest add extra search directories that a
// bare file:// URI wouldn't otherwise reach.
type fsResolver struct {
	importRoots []string
}

func newFSResolver(importRoots []string) *fsResolver {
	return &fsResolver{importRoots: importRoots}
}

func (r *fsResolver) Exists(_ context.Context, sourceID string) bool {
	path, ok := r.toPath(sourceID)
	if !ok {
		return false
	}
	if _, err := os.Stat(path); err == nil {
		return true
	}
	_, found := r.searchImportRoots(filepath.Base(path))
	return found
}

func (r *fsResolver) GetText(_ context.Context, sourceID string) (dp.SourceText, error) {
	path, ok := r.toPath(sourceID)
	if !ok {
		return dp.SourceText{}, &os.PathError{Op: "open", Path: sourceID, Err: os.ErrInvalid}
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if alt, found := r.searchImportRoots(filepath.Base(path)); found {
			b, err = os.ReadFile(alt)
		}
		if err != nil {
			return dp.SourceText{}, err
		}
	}
	return dp.SourceText{Text: string(b)}, nil
}

func (r *fsResolver) toPath(sourceID string) (string, bool) {
	if strings.HasPrefix(sourceID, "file://") {
		return strings.TrimPrefix(sourceID, "file://"), true
	}
	if strings.HasPrefix(sourceID, "http://") || strings.HasPrefix(sourceID, "https://") {
		return "", false
	}
	return sourceID, true
}

func (r *fsResolver) searchImportRoots(base string) (string, bool) {
	for _, root := range r.importRoots {
		candidate := filepath.Join(root, base)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true
		}
	}
	return "", false
}
