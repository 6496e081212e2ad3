// features.go — the LSP feature handlers: initialize, didOpen/didChange,
// textDocument/definition. Kept deliberately small — this shim exists
// only to give the core's editor-oriented queries a real caller (spec
// §1, §2), not to be a full language server.
package main

import (
	"encoding/json"
	"strings"

	"github.com/curefate/DialoguePlus-Extension/dp"
)

func (s *server) onInitialize(id json.RawMessage, _ json.RawMessage) {
	result := InitializeResult{
		Capabilities: ServerCapabilities{
			TextDocumentSync:   TextDocumentSyncOptions{OpenClose: true, Change: 1},
			DefinitionProvider: true,
		},
		ServerInfo: map[string]string{"name": "dp-lsp", "version": "0.1"},
	}
	s.sendResponse(id, result, nil)
}

func (s *server) onDidOpen(raw json.RawMessage) {
	var params struct {
		TextDocument TextDocumentItem `json:"textDocument"`
	}
	_ = json.Unmarshal(raw, &params)
	s.setDoc(params.TextDocument.URI, params.TextDocument.Text)
	s.analyze(params.TextDocument.URI)
}

func (s *server) onDidChange(raw json.RawMessage) {
	var params struct {
		TextDocument struct {
			URI string `json:"uri"`
		} `json:"textDocument"`
		ContentChanges []TextDocumentContentChangeEvent `json:"contentChanges"`
	}
	_ = json.Unmarshal(raw, &params)
	if len(params.ContentChanges) == 0 {
		return
	}
	// TextDocumentSyncOptions advertises Change: 1 (Full), so the editor
	// always sends the whole document; take the last change verbatim.
	s.setDoc(params.TextDocument.URI, params.ContentChanges[len(params.ContentChanges)-1].Text)
	s.analyze(params.TextDocument.URI)
}

func (s *server) onDefinition(id json.RawMessage, paramsRaw json.RawMessage) {
	var params struct {
		TextDocument TextDocumentIdentifier `json:"textDocument"`
		Position     Position               `json:"position"`
	}
	_ = json.Unmarshal(paramsRaw, &params)

	doc, ok := s.snapshotDoc(params.TextDocument.URI)
	if !ok {
		s.sendResponse(id, nil, nil)
		return
	}

	name, isVariable := wordAt(doc.text, params.Position)
	if name == "" {
		s.sendResponse(id, nil, nil)
		return
	}

	var defs []dp.SymbolPosition
	if isVariable {
		defs = s.sess.FindVariableDefinition(doc.uri, name)
	} else {
		defs = s.sess.FindLabelDefinition(doc.uri, name)
	}
	if len(defs) == 0 {
		s.sendResponse(id, nil, nil)
		return
	}

	locs := make([]Location, 0, len(defs))
	for _, d := range defs {
		line := d.Line - 1
		if line < 0 {
			line = 0
		}
		col := d.Column - 1
		if col < 0 {
			col = 0
		}
		locs = append(locs, Location{
			URI:   d.SourceID,
			Range: Range{Start: Position{Line: line, Character: col}, End: Position{Line: line, Character: col + len(name)}},
		})
	}
	s.sendResponse(id, locs, nil)
}

// wordAt scans doc line-by-line to find the identifier (label name) or
// $-prefixed variable name covering pos, LSP positions being 0-based
// line/character. isVariable reports whether the match was a $name (so
// the caller can choose FindVariableDefinition over FindLabelDefinition).
// This shim does not attempt UTF-16 column correction (spec's Non-goals
// exclude full editor-transport fidelity; see SPEC_FULL.md §1) — ASCII
// dialogue/variable identifiers are the expected input.
func wordAt(text string, pos Position) (string, bool) {
	lines := strings.Split(text, "\n")
	if pos.Line < 0 || pos.Line >= len(lines) {
		return "", false
	}
	line := lines[pos.Line]
	col := pos.Character
	if col < 0 || col > len(line) {
		return "", false
	}

	isWordByte := func(c byte) bool {
		return c == '_' || c == '$' ||
			(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
	}

	start := col
	for start > 0 && isWordByte(line[start-1]) && line[start-1] != '$' {
		start--
	}
	if start > 0 && line[start-1] == '$' {
		start--
	}
	end := col
	for end < len(line) && isWordByte(line[end]) && line[end] != '$' {
		end++
	}
	if start == end {
		return "", false
	}
	word := line[start:end]
	if strings.HasPrefix(word, "$") {
		return strings.TrimPrefix(word, "$"), true
	}
	return word, false
}
