package dp

import "testing"

func parseSrc(t *testing.T, src string) (*Program, *Sink) {
	t.Helper()
	sink := NewSink()
	toks := NewLexer(src, sink).Scan()
	prog := Parse(toks, sink)
	return prog, sink
}

func TestParser_BasicDialogueAndJump(t *testing.T) {
	src := "label start:\n    Alice \"hello\"\n    jump other\nlabel other:\n    Bob \"world\"\n"
	prog, sink := parseSrc(t, src)
	if sink.ErrorCount() != 0 {
		t.Fatalf("unexpected parse errors: %v", sink.Diagnostics())
	}
	if len(prog.Labels) != 2 {
		t.Fatalf("got %d labels, want 2", len(prog.Labels))
	}
	start := prog.Labels[0]
	if start.Name != "start" || len(start.Statements) != 2 {
		t.Fatalf("label %q has %d statements, want 2", start.Name, len(start.Statements))
	}
	if _, ok := start.Statements[0].(*Dialogue); !ok {
		t.Fatalf("statement 0 is %T, want *Dialogue", start.Statements[0])
	}
	if _, ok := start.Statements[1].(*Jump); !ok {
		t.Fatalf("statement 1 is %T, want *Jump", start.Statements[1])
	}
}

func TestParser_IfElse(t *testing.T) {
	src := "label a:\n    if $x == 1:\n        Alice \"one\"\n    else:\n        Alice \"other\"\n"
	prog, sink := parseSrc(t, src)
	if sink.ErrorCount() != 0 {
		t.Fatalf("unexpected parse errors: %v", sink.Diagnostics())
	}
	ifStmt, ok := prog.Labels[0].Statements[0].(*If)
	if !ok {
		t.Fatalf("statement 0 is %T, want *If", prog.Labels[0].Statements[0])
	}
	if len(ifStmt.Then) != 1 || len(ifStmt.Else) != 1 {
		t.Fatalf("then=%d else=%d, want 1 and 1", len(ifStmt.Then), len(ifStmt.Else))
	}
	if _, ok := ifStmt.Cond.(*BinaryExpr); !ok {
		t.Fatalf("cond is %T, want *BinaryExpr", ifStmt.Cond)
	}
}

func TestParser_ElifChainFoldsIntoNestedIf(t *testing.T) {
	src := "label a:\n    if $x == 1:\n        jump a\n    elif $x == 2:\n        jump a\n    else:\n        jump a\n"
	prog, sink := parseSrc(t, src)
	if sink.ErrorCount() != 0 {
		t.Fatalf("unexpected parse errors: %v", sink.Diagnostics())
	}
	outer := prog.Labels[0].Statements[0].(*If)
	if len(outer.Else) != 1 {
		t.Fatalf("outer.Else has %d statements, want 1 (the folded elif)", len(outer.Else))
	}
	inner, ok := outer.Else[0].(*If)
	if !ok {
		t.Fatalf("outer.Else[0] is %T, want *If", outer.Else[0])
	}
	if len(inner.Else) != 1 {
		t.Fatalf("inner.Else has %d statements, want 1 (the else block)", len(inner.Else))
	}
}

func TestParser_FstringWithEmbedCall(t *testing.T) {
	src := "label a:\n    Alice \"score: {call add($x, 1)}\"\n"
	prog, sink := parseSrc(t, src)
	if sink.ErrorCount() != 0 {
		t.Fatalf("unexpected parse errors: %v", sink.Diagnostics())
	}
	dlg := prog.Labels[0].Statements[0].(*Dialogue)
	if len(dlg.Text.Embeds) != 1 {
		t.Fatalf("got %d embeds, want 1", len(dlg.Text.Embeds))
	}
	call, ok := dlg.Text.Embeds[0].(*EmbedCall)
	if !ok {
		t.Fatalf("embed is %T, want *EmbedCall", dlg.Text.Embeds[0])
	}
	if call.FuncName != "add" || len(call.Args) != 2 {
		t.Fatalf("call = %+v, want add/2 args", call)
	}
	placeholders := 0
	for _, f := range dlg.Text.Fragments {
		if f == fstringPlaceholder {
			placeholders++
		}
	}
	if placeholders != len(dlg.Text.Embeds) {
		t.Fatalf("placeholders=%d embeds=%d, want equal", placeholders, len(dlg.Text.Embeds))
	}
}

func TestParser_MenuVsDialogueDisambiguation(t *testing.T) {
	src := "label a:\n    \"choose:\"\n    \"yes\":\n        jump a\n    \"no\":\n        jump a\n"
	prog, sink := parseSrc(t, src)
	if sink.ErrorCount() != 0 {
		t.Fatalf("unexpected parse errors: %v", sink.Diagnostics())
	}
	stmts := prog.Labels[0].Statements
	if len(stmts) != 2 {
		t.Fatalf("got %d statements, want 2", len(stmts))
	}
	if _, ok := stmts[0].(*Dialogue); !ok {
		t.Fatalf("statement 0 is %T, want *Dialogue", stmts[0])
	}
	menu, ok := stmts[1].(*Menu)
	if !ok {
		t.Fatalf("statement 1 is %T, want *Menu", stmts[1])
	}
	if len(menu.Items) != 2 {
		t.Fatalf("menu has %d items, want 2", len(menu.Items))
	}
}

func TestParser_ErrorRecoverySkipsToNextLinebreak(t *testing.T) {
	src := "label a:\n    jump\n    jump a\n"
	prog, sink := parseSrc(t, src)
	if sink.ErrorCount() == 0 {
		t.Fatalf("expected a parse error for the malformed jump")
	}
	// The second, well-formed statement should still have parsed.
	stmts := prog.Labels[0].Statements
	if len(stmts) != 1 {
		t.Fatalf("got %d recovered statements, want 1", len(stmts))
	}
	if _, ok := stmts[0].(*Jump); !ok {
		t.Fatalf("recovered statement is %T, want *Jump", stmts[0])
	}
}

func TestParser_CompoundAssign(t *testing.T) {
	src := "label a:\n    $x += 1\n"
	prog, sink := parseSrc(t, src)
	if sink.ErrorCount() != 0 {
		t.Fatalf("unexpected parse errors: %v", sink.Diagnostics())
	}
	assign, ok := prog.Labels[0].Statements[0].(*Assign)
	if !ok {
		t.Fatalf("statement 0 is %T, want *Assign", prog.Labels[0].Statements[0])
	}
	if assign.Op != PlusAssign {
		t.Fatalf("op = %v, want PlusAssign", assign.Op)
	}
}

func TestParser_PowerIsRightAssociative(t *testing.T) {
	src := "label a:\n    $x = 2 ** 3 ** 2\n"
	prog, sink := parseSrc(t, src)
	if sink.ErrorCount() != 0 {
		t.Fatalf("unexpected parse errors: %v", sink.Diagnostics())
	}
	assign := prog.Labels[0].Statements[0].(*Assign)
	top, ok := assign.Value.(*BinaryExpr)
	if !ok || top.Op != Power {
		t.Fatalf("value = %+v, want top-level Power", assign.Value)
	}
	if _, ok := top.Right.(*BinaryExpr); !ok {
		t.Fatalf("right-associativity broken: right operand is %T, want nested *BinaryExpr", top.Right)
	}
	if _, ok := top.Left.(*Literal); !ok {
		t.Fatalf("left operand is %T, want *Literal", top.Left)
	}
}

func TestParser_TopLevelStatementsWithoutLabel(t *testing.T) {
	src := "jump start\nlabel start:\n    jump start\n"
	prog, sink := parseSrc(t, src)
	if sink.ErrorCount() != 0 {
		t.Fatalf("unexpected parse errors: %v", sink.Diagnostics())
	}
	if len(prog.TopStmts) != 1 {
		t.Fatalf("got %d top-level statements, want 1", len(prog.TopStmts))
	}
	if len(prog.Labels) != 1 {
		t.Fatalf("got %d labels, want 1", len(prog.Labels))
	}
}
