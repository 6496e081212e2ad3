// session.go — the compilation session: the top orchestrator that ties
// lexing, parsing, IR lowering, import recursion, and the semantic-check
// pass together into one compile(sourceID) entry point (spec §4.4, §5).
//
// Everything beneath this file is pure over its inputs except for the
// resolver call; this is the one place that sequences suspension points,
// owns the cycle guard, and assembles the final CompileResult.
package dp

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// DefaultEntranceLabel is the reserved name for the synthesized label
// holding a root file's top-level statements (spec §3, §6 "Reserved
// names"). User code defining a label with this name merges into it
// rather than erroring (not enforced as an error, per spec).
const DefaultEntranceLabel = "@system/__main__"

// LabelSet is the compiled artifact: every reachable label, plus the
// label execution should start at.
type LabelSet struct {
	Labels        map[string]*SIR_Label
	EntranceLabel string
}

// CompileResult is the immutable outcome of one compile call.
type CompileResult struct {
	Success     bool
	Diagnostics []Diagnostic
	Labels      *LabelSet
	SourceID    string
	Timestamp   time.Time
}

// CancelledError wraps a compile that was aborted by context cancellation
// (spec §5 "Cancellation"). No CompileResult is produced in this case.
type CancelledError struct {
	SourceID string
	Cause    error
}

func (e *CancelledError) Error() string {
	return fmt.Sprintf("compile %q cancelled: %v", e.SourceID, e.Cause)
}

func (e *CancelledError) Unwrap() error { return e.Cause }

// SessionOptions configures a CompilationSession beyond its resolver. The
// zero value reproduces what a bare NewCompilationSession gives you:
// DefaultEntranceLabel and an unbounded cache (spec §6's manifest-seeded
// entrance label and cache size, consumed by cmd/dpc's dp.toml loading).
type SessionOptions struct {
	// EntranceLabel overrides DefaultEntranceLabel as the name of the
	// synthesized label holding a root file's top-level statements.
	EntranceLabel string
	// CacheLimit bounds how many distinct URIs the session caches compile
	// results for; once exceeded, the oldest-inserted entry is evicted.
	// Zero means unbounded.
	CacheLimit int
}

// CompilationSession owns a resolver, a result cache keyed by canonical
// URI, and a SymbolTableManager shared across every compile it runs.
// cacheMu guards only the cache map (plus cacheOrder, its eviction
// queue) during the final insert-then-evict step; it is never held across
// the resolver call itself. The SymbolTableManager has no lock: every
// Compile installs and reads per-file tables in it unguarded, so Compile
// is not safe for concurrent use on one session, for the same URI or for
// different ones.
type CompilationSession struct {
	resolver      Resolver
	symtabs       *SymbolTableManager
	entranceLabel string
	cacheLimit    int

	cacheMu    sync.RWMutex
	cache      map[string]*CompileResult
	cacheOrder []string
}

// NewCompilationSession constructs a session over the given resolver with
// default options (DefaultEntranceLabel, unbounded cache).
func NewCompilationSession(resolver Resolver) *CompilationSession {
	return NewCompilationSessionWithOptions(resolver, SessionOptions{})
}

// NewCompilationSessionWithOptions constructs a session over the given
// resolver, applying opts's entrance-label override and cache bound.
func NewCompilationSessionWithOptions(resolver Resolver, opts SessionOptions) *CompilationSession {
	return &CompilationSession{
		resolver:      resolver,
		symtabs:       NewSymbolTableManager(),
		entranceLabel: opts.EntranceLabel,
		cacheLimit:    opts.CacheLimit,
		cache:         make(map[string]*CompileResult),
	}
}

// entranceLabelName returns the configured entrance label override, or
// DefaultEntranceLabel when none was set.
func (s *CompilationSession) entranceLabelName() string {
	if s.entranceLabel != "" {
		return s.entranceLabel
	}
	return DefaultEntranceLabel
}

// GetCachedCompileResult returns the last compile result cached under
// uri's canonical form, if any.
func (s *CompilationSession) GetCachedCompileResult(sourceID string) (*CompileResult, bool) {
	uri, err := CanonicalizeURI(sourceID, "")
	if err != nil {
		return nil, false
	}
	s.cacheMu.RLock()
	defer s.cacheMu.RUnlock()
	r, ok := s.cache[uri]
	return r, ok
}

// FindLabelDefinition is the session-level entry point spec §6 exposes;
// it defers to the symbol-table manager's one-hop lookup.
func (s *CompilationSession) FindLabelDefinition(sourceID, name string) []SymbolPosition {
	uri, err := CanonicalizeURI(sourceID, "")
	if err != nil {
		return nil
	}
	return s.symtabs.FindLabelDefinition(uri, name)
}

// FindVariableDefinition mirrors FindLabelDefinition for variable names.
func (s *CompilationSession) FindVariableDefinition(sourceID, name string) []SymbolPosition {
	uri, err := CanonicalizeURI(sourceID, "")
	if err != nil {
		return nil
	}
	return s.symtabs.FindVariableDefinition(uri, name)
}

// compileState carries per-compile-invocation recursion state: the cycle
// guard, the root's sink, and the per-file label sets needed to build the
// final merged LabelSet once recursion unwinds. None of this is session-
// level — a second, concurrent-in-principle call to Compile starts fresh.
type compileState struct {
	ctx      context.Context
	rootURI  string
	rootSink *Sink

	imported   map[string]bool       // cycle/diamond guard (spec §4.4 step 1)
	order      []string              // URIs in first-seen DFS order
	fileLabels map[string][]*SIR_Label // each file's own labels, in source order
}

// Compile resolves sourceID to a canonical URI, fetches its text, and
// compiles it along with its import closure (spec §4.4). A resolver
// failure on the root URI and context cancellation are the cases that
// abort without producing a CompileResult; every other recoverable
// problem becomes a diagnostic.
func (s *CompilationSession) Compile(ctx context.Context, sourceID string) (*CompileResult, error) {
	uri, err := CanonicalizeURI(sourceID, "")
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, &CancelledError{SourceID: uri, Cause: err}
	}
	text, err := s.resolver.GetText(ctx, uri)
	if err != nil {
		return nil, &ResolveError{SourceID: uri, Err: err}
	}

	st := &compileState{
		ctx:        ctx,
		rootURI:    uri,
		rootSink:   NewSink(),
		imported:   make(map[string]bool),
		fileLabels: make(map[string][]*SIR_Label),
	}

	if _, err := s.compileInternal(st, uri, text.Text, true); err != nil {
		return nil, err
	}

	s.runSemanticChecks(st)

	result := &CompileResult{
		Success:     st.rootSink.ErrorCount() == 0,
		Diagnostics: st.rootSink.Diagnostics(),
		Labels:      collectLabels(st.order, st.fileLabels, s.entranceLabelName()),
		SourceID:    uri,
		Timestamp:   time.Now(),
	}
	s.cacheMu.Lock()
	if _, exists := s.cache[uri]; !exists {
		s.cacheOrder = append(s.cacheOrder, uri)
	}
	s.cache[uri] = result
	if s.cacheLimit > 0 {
		for len(s.cacheOrder) > s.cacheLimit {
			oldest := s.cacheOrder[0]
			s.cacheOrder = s.cacheOrder[1:]
			delete(s.cache, oldest)
		}
	}
	s.cacheMu.Unlock()
	return result, nil
}

// compileInternal lexes, parses, and lowers one file, recursing into its
// imports, and returns that file's own diagnostic error count (used by
// the caller to emit a roll-up warning at the import site). It returns a
// non-nil error only when the context was cancelled.
func (s *CompilationSession) compileInternal(st *compileState, uri, text string, isRoot bool) (int, error) {
	if st.imported[uri] {
		return 0, nil
	}
	st.imported[uri] = true
	st.order = append(st.order, uri)

	sink := st.rootSink
	if !isRoot {
		sink = NewSink()
	}

	toks := NewLexer(text, sink).Scan()
	prog := Parse(toks, sink)

	symTab := NewFileSymbolTable(uri)
	s.symtabs.Install(symTab)
	builder := NewIRBuilder(uri, sink, symTab)

	for _, imp := range prog.Imports {
		if err := ctxErr(st.ctx, uri); err != nil {
			return sink.ErrorCount(), err
		}
		importPath := importLiteral(imp.PathToken)
		targetURI, resolveErr := ResolveImportURI(importPath, uri)
		if resolveErr != nil {
			sink.Errorf(imp.PathToken.Line, imp.PathToken.Column, "cannot resolve import %q: %v", importPath, resolveErr)
			continue
		}
		symTab.AddReference(targetURI, SymbolPosition{SourceID: uri, Line: imp.PathToken.Line, Column: imp.PathToken.Column})

		if !s.resolver.Exists(st.ctx, targetURI) {
			sink.Errorf(imp.PathToken.Line, imp.PathToken.Column, "import %q not found", importPath)
			continue
		}
		if err := ctxErr(st.ctx, uri); err != nil {
			return sink.ErrorCount(), err
		}
		importText, err := s.resolver.GetText(st.ctx, targetURI)
		if err != nil {
			sink.Errorf(imp.PathToken.Line, imp.PathToken.Column, "import %q failed: %v", importPath, err)
			continue
		}
		childErrors, cerr := s.compileInternal(st, targetURI, importText.Text, false)
		if cerr != nil {
			return sink.ErrorCount(), cerr
		}
		if childErrors > 0 {
			sink.Warnf(imp.PathToken.Line, imp.PathToken.Column, "import %q produced %d error(s)", importPath, childErrors)
		}
	}

	var labels []*SIR_Label
	merged := make(map[string]*SIR_Label)
	labelPos := make(map[string]Pos)
	var labelOrder []string
	if isRoot && len(prog.TopStmts) > 0 {
		name := s.entranceLabelName()
		merged[name] = &SIR_Label{
			Name:       name,
			SourceID:   uri,
			Statements: builder.LowerTopLevel(prog.TopStmts),
		}
		labelOrder = append(labelOrder, name)
		labelPos[name] = prog.Pos
	}
	for _, lb := range prog.Labels {
		lowered := builder.LowerLabel(lb)
		if existing, ok := merged[lowered.Name]; ok {
			existing.Statements = append(existing.Statements, lowered.Statements...)
			continue
		}
		merged[lowered.Name] = lowered
		labelOrder = append(labelOrder, lowered.Name)
		labelPos[lowered.Name] = lb.Pos
	}
	for _, name := range labelOrder {
		sl := merged[name]
		if len(sl.Statements) == 0 {
			p := labelPos[name]
			sink.Warnf(p.Line, p.Column, "label %q is empty", name)
		}
		labels = append(labels, sl)
	}

	st.fileLabels[uri] = labels
	return sink.ErrorCount(), nil
}

// ctxErr checks for cancellation before a suspension point (spec §5
// "Cancellation is honored at each resolver call").
func ctxErr(ctx context.Context, uri string) error {
	if err := ctx.Err(); err != nil {
		return &CancelledError{SourceID: uri, Cause: err}
	}
	return nil
}

func importLiteral(tok Token) string {
	if s, ok := tok.Literal.(string); ok {
		return s
	}
	return tok.Lexeme
}

// collectLabels merges every file's LabelSet into one, first-wins on name
// collision, iterating files in first-seen DFS order (spec §4.4 final
// step). Collisions were already diagnosed by the semantic-check pass.
func collectLabels(order []string, perFile map[string][]*SIR_Label, entranceLabel string) *LabelSet {
	out := make(map[string]*SIR_Label)
	for _, uri := range order {
		for _, lbl := range perFile[uri] {
			if _, exists := out[lbl.Name]; !exists {
				out[lbl.Name] = lbl
			}
		}
	}
	return &LabelSet{Labels: out, EntranceLabel: entranceLabel}
}

// ---------------------------------------------------------------------------
// semantic-check pass (spec §4.4, fixed order: duplicate-imports → label
// usages → variable usages; spec §5 ordering guarantee)
// ---------------------------------------------------------------------------

func (s *CompilationSession) runSemanticChecks(st *compileState) {
	root := s.symtabs.Table(st.rootURI)
	if root == nil {
		return
	}
	sink := st.rootSink

	for _, uri := range root.ReferenceOrder() {
		positions := root.References[uri]
		if len(positions) > 1 {
			first := positions[0]
			sink.Warnf(first.Line, first.Column, "duplicate import of %q", uri)
		}
	}

	for _, name := range root.LabelUsageOrder() {
		defs := s.symtabs.FindLabelDefinition(st.rootURI, name)
		usages := root.LabelUsages[name]
		switch {
		case len(defs) == 0:
			for _, u := range usages {
				sink.Errorf(u.Line, u.Column, "undefined label %q", name)
			}
		case len(defs) > 1:
			for _, d := range defs {
				if d.SourceID == st.rootURI {
					sink.Errorf(d.Line, d.Column, "duplicate label definition %q", name)
				} else {
					anchor := importSiteFor(root, d.SourceID)
					sink.Errorf(anchor.Line, anchor.Column, "duplicate label definition %q", name)
				}
			}
		}
	}

	for _, name := range root.VariableUsageOrder() {
		defs := s.symtabs.FindVariableDefinition(st.rootURI, name)
		if len(defs) == 0 {
			for _, u := range root.VariableUsages[name] {
				sink.Errorf(u.Line, u.Column, "undefined variable %q", name)
			}
		}
	}
}

// importSiteFor returns the position at which root imported the file a
// duplicate label definition came from, anchoring the diagnostic there
// per spec §4.4's rule for definitions living outside the root file.
func importSiteFor(root *FileSymbolTable, definingURI string) SymbolPosition {
	if positions := root.References[definingURI]; len(positions) > 0 {
		return positions[0]
	}
	return SymbolPosition{SourceID: root.URI}
}
