// errors.go — caret-snippet rendering for diagnostics.
//
// The compiler core itself never prints anything; this is pure
// presentation, used by cmd/dpc (not by the sink, not by cmd/dp-lsp, which
// renders diagnostics as LSP JSON instead). Grounded on the teacher's
// prettyErrorStringLabeled, adapted to take a Diagnostic rather than a
// *LexError/*ParseError pair.
package dp

import (
	"fmt"
	"strings"
)

// RenderDiagnostic formats d as a multi-line snippet of src with up to one
// line of context before and after, and a caret under the 1-based column.
func RenderDiagnostic(d Diagnostic, srcName, src string) string {
	lines := strings.Split(src, "\n")
	if len(lines) == 0 {
		lines = []string{""}
	}
	line, col := d.Line, d.Column
	if line < 1 {
		line = 1
	}
	if col < 1 {
		col = 1
	}
	if line > len(lines) {
		line = len(lines)
	}
	lineTxt := lines[line-1]

	var b strings.Builder
	if srcName != "" {
		fmt.Fprintf(&b, "%s in %s at %d:%d: %s\n\n", d.Severity, srcName, line, col, d.Message)
	} else {
		fmt.Fprintf(&b, "%s at %d:%d: %s\n\n", d.Severity, line, col, d.Message)
	}
	if line > 1 {
		fmt.Fprintf(&b, "%4d | %s\n", line-1, lines[line-2])
	}
	fmt.Fprintf(&b, "%4d | %s\n", line, lineTxt)
	caretPad := col - 1
	if caretPad < 0 {
		caretPad = 0
	}
	fmt.Fprintf(&b, "     | %s^\n", strings.Repeat(" ", caretPad))
	if line < len(lines) {
		fmt.Fprintf(&b, "%4d | %s\n", line+1, lines[line])
	}
	return b.String()
}
