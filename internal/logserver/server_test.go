package logserver

import (
	"context"
	"fmt"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"idea-dashboard/internal/client"
	"idea-dashboard/internal/config"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestServer(t *testing.T) (*httptest.Server, string) {
	t.Helper()
	dir := t.TempDir()
	s := New(config.LogServerConfig{Dir: dir, Marker: "io.a2a"}, []string{"idea-critic-agent"})
	srv := httptest.NewServer(s.Routes())
	t.Cleanup(srv.Close)
	return srv, dir
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	res, err := http.Get(url)
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res.StatusCode, string(body)
}

func TestGetAgentLog_TailsMarkedLines(t *testing.T) {
	srv, dir := newTestServer(t)
	var b strings.Builder
	for i := 0; i < 5; i++ {
		b.WriteString("INFO io.a2a.critic line " + string(rune('a'+i)) + "\n")
		b.WriteString("DEBUG org.springframework noise\n")
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "idea-critic-agent.out"), []byte(b.String()), 0o644))

	code, body := get(t, srv.URL+"/api/logs/idea-critic-agent?lines=2")
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "INFO io.a2a.critic line d\nINFO io.a2a.critic line e", body)

	code, body = get(t, srv.URL+"/api/logs/idea-critic-agent")
	require.Equal(t, http.StatusOK, code)
	require.Len(t, strings.Split(body, "\n"), 5)
}

func TestGetAgentLog_Errors(t *testing.T) {
	srv, _ := newTestServer(t)

	code, body := get(t, srv.URL+"/api/logs/nobody")
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, "Unknown agent: nobody", body)

	code, body = get(t, srv.URL+"/api/logs/idea-critic-agent")
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "Log file not found: idea-critic-agent.out", body)

	code, _ = get(t, srv.URL+"/api/logs/idea-critic-agent?lines=zero")
	require.Equal(t, http.StatusBadRequest, code)
}

func TestOrchestrate_RecordsIdea(t *testing.T) {
	srv, dir := newTestServer(t)
	id := uuid.New()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	c := client.New(srv.URL, nil)
	res, err := c.Orchestrate(ctx, id, "  micro-savings for teens ")
	require.NoError(t, err)
	require.Equal(t, "Accepted product idea ["+id.String()[:8]+"]", res)

	text, err := c.FetchLog(ctx, OrchestrationAgent, 100)
	require.NoError(t, err)
	require.Contains(t, text, "micro-savings for teens")
	require.Contains(t, text, id.String()[:8])

	_, err = os.Stat(filepath.Join(dir, OrchestrationAgent+logSuffix))
	require.NoError(t, err)
}

func TestOrchestrate_EmptyBody(t *testing.T) {
	srv, _ := newTestServer(t)
	res, err := http.Post(srv.URL+"/api/product-ideas/orchestrate", "text/plain", strings.NewReader("  "))
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestTail(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.out")
	require.NoError(t, os.WriteFile(path, []byte("1\r\n2\n\n3\n4\n"), 0o644))

	lines, err := tail(path, 3, "")
	require.NoError(t, err)
	require.Equal(t, []string{"2", "3", "4"}, lines)

	lines, err = tail(path, 10, "")
	require.NoError(t, err)
	require.Equal(t, []string{"1", "2", "3", "4"}, lines)
}

func TestGetAgentLog_LinesAreClamped(t *testing.T) {
	srv, dir := newTestServer(t)
	var b strings.Builder
	for i := 0; i < MaxLines+5; i++ {
		fmt.Fprintf(&b, "io.a2a line %d\n", i)
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "idea-critic-agent.out"), []byte(b.String()), 0o644))

	for _, q := range []string{"2000000000", "9223372036854775807"} {
		code, body := get(t, srv.URL+"/api/logs/idea-critic-agent?lines="+q)
		require.Equal(t, http.StatusOK, code, q)
		lines := strings.Split(body, "\n")
		require.Len(t, lines, MaxLines, q)
		require.Equal(t, "io.a2a line 5", lines[0])
		require.Equal(t, fmt.Sprintf("io.a2a line %d", MaxLines+4), lines[len(lines)-1])
	}
}

func TestTail_HugeWindowOnSmallFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.out")
	require.NoError(t, os.WriteFile(path, []byte("1\n2\n"), 0o644))

	lines, err := tail(path, math.MaxInt, "")
	require.NoError(t, err)
	require.Equal(t, []string{"1", "2"}, lines)
}
