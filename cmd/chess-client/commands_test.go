package main

import (
	"bytes"
	"errors"
	"net"
	"strings"
	"testing"

	"chessnav/internal/client"
	chesshttp "chessnav/internal/http"
	"chessnav/internal/service"
	"chessnav/internal/testutil"
)

func newRegistry(t *testing.T) (*Registry, *bytes.Buffer) {
	t.Helper()
	svc, err := service.New(nil)
	testutil.MustNoError(t, err)
	app := chesshttp.NewFiberApp(svc, true)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	testutil.MustNoError(t, err)
	go app.Listener(ln)
	t.Cleanup(func() { app.Shutdown() })

	var out bytes.Buffer
	return NewRegistry(client.New("http://"+ln.Addr().String()), &out), &out
}

func TestImportAndBrowse(t *testing.T) {
	r, out := newRegistry(t)

	testutil.MustNoError(t, r.Execute("import f2f3 e7e5 g2g4 d8h4"))
	testutil.AssertTrue(t, strings.Contains(out.String(), "Archived"), out.String())
	testutil.AssertTrue(t, strings.Contains(out.String(), "0-1"), out.String())
	id := r.lastGame

	steps := []struct {
		line string
		want []string
	}{
		{"games", []string{id, "4 plies"}},
		{"show", []string{"(unnamed)", "1. f2f3 e7e5 2. g2g4 d8h4", "checkmate"}},
		{"pos 2", []string{"Ply 2", "to move", "Last move: e7e5", "Next move: g2g4"}},
		{"pos " + id + " 0", []string{"Ply 0", "Next move: f2f3"}},
		{"pgn", []string{`[Event "Casual game"]`, "2. g4 Qh4#", "0-1"}},
		{"health", []string{"storage: disabled"}},
	}
	for _, s := range steps {
		out.Reset()
		testutil.MustNoError(t, r.Execute(s.line))
		for _, want := range s.want {
			testutil.AssertTrue(t, strings.Contains(out.String(), want), "%s: %q missing from\n%s", s.line, want, out.String())
		}
	}
}

func TestCommandErrors(t *testing.T) {
	r, out := newRegistry(t)

	tests := []struct {
		line string
		want string
	}{
		{"frobnicate", "Unknown command: frobnicate"},
		{"show", "game ID required"},
		{"pos", "usage: pos"},
		{"pos x y", "invalid ply: y"},
		{"show 0b6c3f8e-4d1a-4c55-9a57-1f0e6c1d2b3a", "GAME_NOT_FOUND"},
		{"import e2e5", "INVALID_MOVE"},
		{"help nope", "unknown command: nope"},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			out.Reset()
			testutil.MustNoError(t, r.Execute(tt.line))
			testutil.AssertTrue(t, strings.Contains(out.String(), tt.want), "%q missing from %q", tt.want, out.String())
		})
	}
}

func TestQuitAndURL(t *testing.T) {
	r, out := newRegistry(t)

	for _, line := range []string{"exit", "x", "quit"} {
		testutil.AssertTrue(t, errors.Is(r.Execute(line), errQuit), line)
	}

	testutil.MustNoError(t, r.Execute("url http://example.test/"))
	testutil.AssertEqual(t, r.client.BaseURL, "http://example.test")
	testutil.AssertTrue(t, strings.Contains(out.String(), "API: http://example.test"), out.String())
}

func TestNumbered(t *testing.T) {
	testutil.AssertEqual(t, numbered(nil), "")
	testutil.AssertEqual(t, numbered([]string{"e2e4"}), "1. e2e4")
	testutil.AssertEqual(t, numbered([]string{"e2e4", "e7e5", "g1f3"}), "1. e2e4 e7e5 2. g1f3")
}
