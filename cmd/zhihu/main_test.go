package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/glabrego/zhihu-cli/internal/app"
	"github.com/glabrego/zhihu-cli/internal/render/answers"
	"github.com/glabrego/zhihu-cli/internal/zhihu"
)

func setupEnv(t *testing.T, apiURL string) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("ZHIHU_DB_PATH", filepath.Join(dir, "zhihu.db"))
	t.Setenv("ZHIHU_LOG_PATH", filepath.Join(dir, "zhihu.log"))
	t.Setenv("ZHIHU_COOKIE", "")
	if apiURL != "" {
		t.Setenv("ZHIHU_API_V3_URL", apiURL+"/api/v3")
		t.Setenv("ZHIHU_API_V4_URL", apiURL+"/api/v4")
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func fakeZhihu(t *testing.T, wantCookie string) *httptest.Server {
	t.Helper()
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Cookie"); got != wantCookie {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":{"code":100,"message":"bad cookie"}}`))
			return
		}
		switch r.URL.Path {
		case "/api/v3/feed/topstory/recommend":
			_, _ = w.Write([]byte(`{"data":[
				{"target":{"question":{"id":101,"title":"Why Go?"}}},
				{"target":{"question":{"id":"202","title":"为什么选择 Rust？"}}}
			]}`))
		case "/api/v4/questions/101/answers":
			if r.URL.Query().Get("offset") != "0" || r.URL.Query().Get("limit") != "10" {
				t.Errorf("unexpected paging query: %s", r.URL.RawQuery)
			}
			fmt.Fprintf(w, `{"data":[{"url":%q}]}`, srv.URL+"/api/v4/answers/1")
		case "/api/v4/answers/1":
			_, _ = w.Write([]byte(`{"content":"<p>Simple &amp; fast.</p>","author":{"name":"alice"}}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCookieCommands(t *testing.T) {
	setupEnv(t, "")

	out, err := execute(t, "cookie", "status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !strings.Contains(out, "cookie: not set") || !strings.Contains(out, "render mode: rich") {
		t.Fatalf("unexpected initial status: %q", out)
	}

	if _, err := execute(t, "cookie", "set", "  z_c0=secret  "); err != nil {
		t.Fatalf("set: %v", err)
	}
	out, err = execute(t, "cookie", "status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !strings.Contains(out, "cookie: set (saved ") {
		t.Fatalf("expected stored cookie status, got %q", out)
	}
	if strings.Contains(out, "secret") {
		t.Fatalf("status must not print the cookie, got %q", out)
	}

	if _, err := execute(t, "cookie", "clear"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	out, _ = execute(t, "cookie", "status")
	if !strings.Contains(out, "cookie: not set") {
		t.Fatalf("expected cleared cookie, got %q", out)
	}
}

func TestCookieSet_RejectsBlank(t *testing.T) {
	setupEnv(t, "")
	if _, err := execute(t, "cookie", "set", "   "); err == nil {
		t.Fatal("expected error for blank cookie")
	}
}

func TestCookieStatus_EnvOverride(t *testing.T) {
	setupEnv(t, "")
	t.Setenv("ZHIHU_COOKIE", "z_c0=env")
	out, err := execute(t, "cookie", "status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !strings.Contains(out, "from ZHIHU_COOKIE") {
		t.Fatalf("expected override status, got %q", out)
	}
}

func TestSession_OverrideCookieStaysOffDisk(t *testing.T) {
	setupEnv(t, "")
	if _, err := execute(t, "cookie", "set", "z_c0=stored"); err != nil {
		t.Fatalf("set: %v", err)
	}
	t.Setenv("ZHIHU_COOKIE", "z_c0=env")

	ctx := context.Background()
	rt, err := openSession(ctx, "")
	if err != nil {
		t.Fatalf("openSession: %v", err)
	}
	defer rt.Close()
	if got, _ := rt.gate.Get(); got != "z_c0=env" {
		t.Fatalf("expected env cookie active, got %q", got)
	}

	if err := rt.saveViewSettings(app.Settings{Mode: answers.ModePlain, Credential: "z_c0=env", HasCredential: true}); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := rt.service.LoadSettings(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Mode != answers.ModePlain || got.Credential != "z_c0=stored" || !got.HasCredential {
		t.Fatalf("expected mode saved and stored cookie kept, got %+v", got)
	}

	if err := rt.saveViewSettings(app.Settings{Mode: answers.ModePlain, Credential: "z_c0=typed", HasCredential: true}); err != nil {
		t.Fatalf("save typed: %v", err)
	}
	got, _ = rt.service.LoadSettings(ctx)
	if got.Credential != "z_c0=typed" {
		t.Fatalf("expected a cookie entered in the app to be saved, got %+v", got)
	}
}

func TestFeedCommand(t *testing.T) {
	srv := fakeZhihu(t, "z_c0=secret")
	setupEnv(t, srv.URL)

	if _, err := execute(t, "cookie", "set", "z_c0=secret"); err != nil {
		t.Fatalf("set cookie: %v", err)
	}
	out, err := execute(t, "feed")
	if err != nil {
		t.Fatalf("feed: %v", err)
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 questions, got %q", out)
	}
	if !strings.HasPrefix(lines[0], "101") || !strings.HasSuffix(lines[0], "Why Go?") {
		t.Fatalf("unexpected first line: %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "202") || !strings.HasSuffix(lines[1], "为什么选择 Rust？") {
		t.Fatalf("unexpected second line: %q", lines[1])
	}
}

func TestFeedCommand_WithoutCookie(t *testing.T) {
	srv := fakeZhihu(t, "z_c0=secret")
	setupEnv(t, srv.URL)

	_, err := execute(t, "feed")
	if !errors.Is(err, zhihu.ErrAuth) {
		t.Fatalf("expected ErrAuth without a cookie, got %v", err)
	}
}

func TestAnswersCommand_Formats(t *testing.T) {
	srv := fakeZhihu(t, "z_c0=secret")
	setupEnv(t, srv.URL)
	t.Setenv("ZHIHU_COOKIE", "z_c0=secret")

	out, err := execute(t, "answers", "101", "--format", "plain", "--title", "Why Go?")
	if err != nil {
		t.Fatalf("answers plain: %v", err)
	}
	for _, want := range []string{"Question: Why Go?", "=== Answer 1 ===", "Author: alice", "Simple & fast."} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in plain output, got:\n%s", want, out)
		}
	}

	out, err = execute(t, "answers", "101", "--format", "html")
	if err != nil {
		t.Fatalf("answers html: %v", err)
	}
	for _, want := range []string{"<h2>Question: 101</h2>", "Answer 1 - Author: alice", "Simple &amp; fast."} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in html output, got:\n%s", want, out)
		}
	}
}

func TestAnswersCommand_ValidatesFlags(t *testing.T) {
	setupEnv(t, "")
	if _, err := execute(t, "answers", "101", "--offset", "5"); err == nil || !strings.Contains(err.Error(), "--offset") {
		t.Fatalf("expected offset error, got %v", err)
	}
	if _, err := execute(t, "answers", "101", "--format", "pdf"); err == nil || !strings.Contains(err.Error(), "--format") {
		t.Fatalf("expected format error, got %v", err)
	}
	if _, err := execute(t, "answers"); err == nil {
		t.Fatal("expected error without question id")
	}
}
