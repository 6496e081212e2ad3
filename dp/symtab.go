// symtab.go — per-file symbol tables and the cross-file lookup manager.
//
// Each source file gets exactly one FileSymbolTable, populated by the IR
// builder as it lowers that file's parse tree. The SymbolTableManager
// owns one table per canonical URI and answers the two lookup queries the
// semantic-check pass (and, later, go-to-definition) need: "where is this
// label/variable defined, across this file and its one-hop import
// references" (spec §4.5 — intentionally not transitive; a cycle in the
// reference graph is tolerated simply because lookups never recurse).
package dp

// SymbolPosition anchors one occurrence of a name (definition or usage)
// to a source location, optionally inside a named label.
type SymbolPosition struct {
	SourceID string
	Label    string // "" if not inside a label (top-level)
	Line     int
	Column   int
}

// FileSymbolTable holds the five name→positions mappings spec §3
// describes. References is keyed by imported URI rather than by name,
// but is shaped the same way: URI → every position (import statement)
// that referenced it, so a URI imported twice has a list of length 2
// (spec §3 invariant: "duplicates produce a Warning", detected by list
// length > 1 in the semantic-check pass).
type FileSymbolTable struct {
	URI string

	LabelDefs      map[string][]SymbolPosition
	VariableDefs   map[string][]SymbolPosition
	LabelUsages    map[string][]SymbolPosition
	VariableUsages map[string][]SymbolPosition
	References     map[string][]SymbolPosition

	// insertion order of usage/reference keys, so the semantic-check
	// pass can iterate in the order the IR builder walked the source
	// (spec §5 ordering guarantees).
	labelUsageOrder    []string
	variableUsageOrder []string
	referenceOrder     []string
}

// NewFileSymbolTable constructs an empty table for the given URI.
func NewFileSymbolTable(uri string) *FileSymbolTable {
	return &FileSymbolTable{
		URI:            uri,
		LabelDefs:      make(map[string][]SymbolPosition),
		VariableDefs:   make(map[string][]SymbolPosition),
		LabelUsages:    make(map[string][]SymbolPosition),
		VariableUsages: make(map[string][]SymbolPosition),
		References:     make(map[string][]SymbolPosition),
	}
}

func (t *FileSymbolTable) AddLabelDef(name string, pos SymbolPosition) {
	t.LabelDefs[name] = append(t.LabelDefs[name], pos)
}

func (t *FileSymbolTable) AddVariableDef(name string, pos SymbolPosition) {
	t.VariableDefs[name] = append(t.VariableDefs[name], pos)
}

func (t *FileSymbolTable) AddLabelUsage(name string, pos SymbolPosition) {
	if _, seen := t.LabelUsages[name]; !seen {
		t.labelUsageOrder = append(t.labelUsageOrder, name)
	}
	t.LabelUsages[name] = append(t.LabelUsages[name], pos)
}

func (t *FileSymbolTable) AddVariableUsage(name string, pos SymbolPosition) {
	if _, seen := t.VariableUsages[name]; !seen {
		t.variableUsageOrder = append(t.variableUsageOrder, name)
	}
	t.VariableUsages[name] = append(t.VariableUsages[name], pos)
}

// AddReference records a one-hop import edge at pos. The semantic-check
// pass (not this method) decides what a list longer than one means; this
// just appends and tracks first-seen order for deterministic iteration.
func (t *FileSymbolTable) AddReference(uri string, pos SymbolPosition) {
	if _, seen := t.References[uri]; !seen {
		t.referenceOrder = append(t.referenceOrder, uri)
	}
	t.References[uri] = append(t.References[uri], pos)
}

// ReferenceOrder returns imported URIs in the order they were first
// encountered.
func (t *FileSymbolTable) ReferenceOrder() []string {
	out := make([]string, len(t.referenceOrder))
	copy(out, t.referenceOrder)
	return out
}

// LabelUsageOrder returns label-usage names in first-seen order.
func (t *FileSymbolTable) LabelUsageOrder() []string {
	out := make([]string, len(t.labelUsageOrder))
	copy(out, t.labelUsageOrder)
	return out
}

// VariableUsageOrder returns variable-usage names in first-seen order.
func (t *FileSymbolTable) VariableUsageOrder() []string {
	out := make([]string, len(t.variableUsageOrder))
	copy(out, t.variableUsageOrder)
	return out
}

// SymbolTableManager owns one FileSymbolTable per canonical URI and
// answers cross-file lookups that follow the one-hop reference map
// without recursing (spec §4.5 — this naturally tolerates cycles: a
// lookup never walks References transitively, so a reference cycle
// simply never gets followed far enough to loop).
type SymbolTableManager struct {
	tables map[string]*FileSymbolTable
}

// NewSymbolTableManager constructs an empty manager.
func NewSymbolTableManager() *SymbolTableManager {
	return &SymbolTableManager{tables: make(map[string]*FileSymbolTable)}
}

// Install registers (or replaces) the table for a URI.
func (m *SymbolTableManager) Install(t *FileSymbolTable) {
	m.tables[t.URI] = t
}

// Table returns the table for a URI, or nil if none is installed.
func (m *SymbolTableManager) Table(uri string) *FileSymbolTable {
	return m.tables[uri]
}

// FindLabelDefinition collects LabelDefs[name] from rootURI's table plus,
// for every URI in rootURI's References, that file's LabelDefs[name] —
// one hop only, matching the source behavior (spec §4.5).
func (m *SymbolTableManager) FindLabelDefinition(rootURI, name string) []SymbolPosition {
	return m.findDefinition(rootURI, name, func(t *FileSymbolTable) map[string][]SymbolPosition {
		return t.LabelDefs
	})
}

// FindVariableDefinition is FindLabelDefinition's counterpart for
// variable names.
func (m *SymbolTableManager) FindVariableDefinition(rootURI, name string) []SymbolPosition {
	return m.findDefinition(rootURI, name, func(t *FileSymbolTable) map[string][]SymbolPosition {
		return t.VariableDefs
	})
}

func (m *SymbolTableManager) findDefinition(rootURI, name string, pick func(*FileSymbolTable) map[string][]SymbolPosition) []SymbolPosition {
	root := m.tables[rootURI]
	if root == nil {
		return nil
	}
	var out []SymbolPosition
	out = append(out, pick(root)[name]...)
	for _, refURI := range root.ReferenceOrder() {
		if refURI == rootURI {
			continue // a self-import adds nothing beyond root's own table
		}
		if refTable := m.tables[refURI]; refTable != nil {
			out = append(out, pick(refTable)[name]...)
		}
	}
	return out
}
