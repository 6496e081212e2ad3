package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"testing"
)

func readAllMsgs(buf *bytes.Buffer) [][]byte {
	var bodies [][]byte
	r := bufio.NewReader(bytes.NewReader(buf.Bytes()))
	for {
		body, err := readMsg(r)
		if err != nil {
			break
		}
		bodies = append(bodies, body)
	}
	return bodies
}

func TestReadWriteMsg_Roundtrips(t *testing.T) {
	var buf bytes.Buffer
	if err := writeMsg(&buf, map[string]string{"hello": "world"}); err != nil {
		t.Fatalf("writeMsg error: %v", err)
	}
	r := bufio.NewReader(&buf)
	body, err := readMsg(r)
	if err != nil {
		t.Fatalf("readMsg error: %v", err)
	}
	var decoded map[string]string
	if err := json.Unmarshal(body, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded["hello"] != "world" {
		t.Fatalf("decoded = %v", decoded)
	}
}

func TestOnInitialize_AdvertisesDefinitionProvider(t *testing.T) {
	var buf bytes.Buffer
	stdoutSink = &buf
	defer func() { stdoutSink = os.Stdout }()

	s := newServer()
	s.onInitialize(json.RawMessage(`1`), nil)

	bodies := readAllMsgs(&buf)
	if len(bodies) != 1 {
		t.Fatalf("got %d responses, want 1", len(bodies))
	}
	var resp Response
	if err := json.Unmarshal(bodies[0], &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	raw, _ := json.Marshal(resp.Result)
	var result InitializeResult
	if err := json.Unmarshal(raw, &result); err != nil {
		t.Fatalf("unmarshal result: %v", err)
	}
	if !result.Capabilities.DefinitionProvider {
		t.Fatalf("expected DefinitionProvider true")
	}
}

func TestOnDidOpen_PublishesDiagnosticsForUndefinedLabel(t *testing.T) {
	var buf bytes.Buffer
	stdoutSink = &buf
	defer func() { stdoutSink = os.Stdout }()

	s := newServer()
	s.onDidOpen(mustMarshal(t, map[string]any{
		"textDocument": TextDocumentItem{
			URI:  "file:///doc.dp",
			Text: "label a:\n    jump missing\n",
		},
	}))

	bodies := readAllMsgs(&buf)
	if len(bodies) != 1 {
		t.Fatalf("got %d notifications, want 1", len(bodies))
	}
	var notif struct {
		Method string                   `json:"method"`
		Params PublishDiagnosticsParams `json:"params"`
	}
	if err := json.Unmarshal(bodies[0], &notif); err != nil {
		t.Fatalf("unmarshal notification: %v", err)
	}
	if notif.Method != "textDocument/publishDiagnostics" {
		t.Fatalf("method = %q, want textDocument/publishDiagnostics", notif.Method)
	}
	if len(notif.Params.Diagnostics) == 0 {
		t.Fatalf("expected at least one diagnostic for an undefined label")
	}
}

func TestWordAt_DistinguishesVariableFromLabel(t *testing.T) {
	name, isVar := wordAt("jump other\n", Position{Line: 0, Character: 6})
	if name != "other" || isVar {
		t.Fatalf("got (%q,%v), want (other,false)", name, isVar)
	}
	name, isVar = wordAt("    $score += 1\n", Position{Line: 0, Character: 6})
	if name != "score" || !isVar {
		t.Fatalf("got (%q,%v), want (score,true)", name, isVar)
	}
}

func mustMarshal(t *testing.T, v any) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return b
}
