// state.go — server state and the in-memory Resolver backing it.
//
// docState caches per-document text; server owns the open-document map and
// one dp.CompilationSession shared across every document (spec §6's CLI/
// LSP resolver pairing — the LSP shim's resolver reads from this map
// first, falling back to the filesystem for files the editor never
// opened). Grounded on the teacher's docState/snapshotDoc pattern in
// cmd/msg-lsp/state.go.
package main

import (
	"context"
	"os"
	"strings"
	"sync"

	"github.com/curefate/DialoguePlus-Extension/dp"
)

type docState struct {
	uri  string
	text string
}

type server struct {
	mu   sync.RWMutex
	docs map[string]*docState
	sess *dp.CompilationSession
}

func newServer() *server {
	s := &server{docs: make(map[string]*docState)}
	s.sess = dp.NewCompilationSession(&memResolver{s: s})
	return s
}

func (s *server) setDoc(uri, text string) {
	s.mu.Lock()
	s.docs[uri] = &docState{uri: uri, text: text}
	s.mu.Unlock()
}

func (s *server) snapshotDoc(uri string) (*docState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.docs[uri]
	if !ok {
		return nil, false
	}
	cp := *d
	return &cp, true
}

// memResolver answers dp.Resolver queries from the server's open-document
// map first, then falls back to the filesystem for imports the editor
// hasn't opened (e.g. a library file only the compiler, not the editor,
// has touched so far).
type memResolver struct {
	s *server
}

func (r *memResolver) Exists(_ context.Context, sourceID string) bool {
	if _, ok := r.s.snapshotDoc(sourceID); ok {
		return true
	}
	path, ok := toFSPath(sourceID)
	if !ok {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

func (r *memResolver) GetText(_ context.Context, sourceID string) (dp.SourceText, error) {
	if d, ok := r.s.snapshotDoc(sourceID); ok {
		return dp.SourceText{Text: d.text}, nil
	}
	path, ok := toFSPath(sourceID)
	if !ok {
		return dp.SourceText{}, os.ErrInvalid
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return dp.SourceText{}, err
	}
	return dp.SourceText{Text: string(b)}, nil
}

func toFSPath(sourceID string) (string, bool) {
	if strings.HasPrefix(sourceID, "file://") {
		return strings.TrimPrefix(sourceID, "file://"), true
	}
	return "", false
}
