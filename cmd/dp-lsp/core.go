// core.go — framed stdio transport, send/notify helpers, dp.Diagnostic to
// LSP Diagnostic translation, and the analyze step that drives a compile
// and publishes its diagnostics. Grounded on the teacher's
// cmd/msg-lsp/core.go (readMsg/writeMsg/sendResponse/notify).
package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/curefate/DialoguePlus-Extension/dp"
	"github.com/curefate/DialoguePlus-Extension/internal/dplog"
)

var stdoutSink io.Writer = os.Stdout

func readMsg(r *bufio.Reader) ([]byte, error) {
	var contentLen int
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return nil, err
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		if i := strings.IndexByte(line, ':'); i >= 0 {
			key := strings.ToLower(strings.TrimSpace(line[:i]))
			val := strings.TrimSpace(line[i+1:])
			if key == "content-length" {
				fmt.Sscanf(val, "%d", &contentLen)
			}
		}
	}
	if contentLen <= 0 {
		return nil, io.EOF
	}
	buf := make([]byte, contentLen)
	_, err := io.ReadFull(r, buf)
	return buf, err
}

func writeMsg(w io.Writer, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var b bytes.Buffer
	fmt.Fprintf(&b, "Content-Length: %d\r\n\r\n", len(body))
	b.Write(body)
	_, err = w.Write(b.Bytes())
	return err
}

func (s *server) sendResponse(id json.RawMessage, result any, respErr *ResponseError) {
	if respErr == nil && result == nil {
		_ = writeMsg(stdoutSink, Response{JSONRPC: "2.0", ID: id, Result: json.RawMessage("null")})
		return
	}
	_ = writeMsg(stdoutSink, Response{JSONRPC: "2.0", ID: id, Result: result, Error: respErr})
}

func (s *server) notify(method string, params any) {
	_ = writeMsg(stdoutSink, map[string]any{"jsonrpc": "2.0", "method": method, "params": params})
}

// toLSPSeverity translates dp.Severity's 1..4 ranking onto the LSP
// DiagnosticSeverity encoding (spec §3: "used both by the diagnostics sink
// and, translated, by the LSP shim's DiagnosticSeverity" — the two enums
// already share the same integer values, so this is the identity map made
// explicit rather than relied upon).
func toLSPSeverity(sev dp.Severity) int {
	switch sev {
	case dp.SeverityError:
		return 1
	case dp.SeverityWarning:
		return 2
	case dp.SeverityInfo:
		return 3
	default:
		return 4
	}
}

func toLSPDiagnostic(d dp.Diagnostic) Diagnostic {
	line := d.Line - 1
	if line < 0 {
		line = 0
	}
	col := d.Column - 1
	if col < 0 {
		col = 0
	}
	return Diagnostic{
		Range:    Range{Start: Position{Line: line, Character: col}, End: Position{Line: line, Character: col + 1}},
		Severity: toLSPSeverity(d.Severity),
		Source:   "dp",
		Message:  d.Message,
	}
}

// analyze compiles uri through the server's session and publishes the
// resulting diagnostics, replacing whatever was previously published for
// that URI (LSP's publishDiagnostics is always a full replace, not a
// delta).
func (s *server) analyze(uri string) {
	dplog.CompileStart(uri)
	result, err := s.sess.Compile(context.Background(), uri)
	if err != nil {
		dplog.ResolveFailure(uri, err)
		s.notify("textDocument/publishDiagnostics", PublishDiagnosticsParams{URI: uri, Diagnostics: nil})
		return
	}
	errCount, warnCount := 0, 0
	out := make([]Diagnostic, 0, len(result.Diagnostics))
	for _, d := range result.Diagnostics {
		out = append(out, toLSPDiagnostic(d))
		switch d.Severity {
		case dp.SeverityError:
			errCount++
		case dp.SeverityWarning:
			warnCount++
		}
	}
	dplog.CompileEnd(uri, result.Success, errCount, warnCount)
	s.notify("textDocument/publishDiagnostics", PublishDiagnosticsParams{URI: uri, Diagnostics: out})
}
