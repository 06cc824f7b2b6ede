package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"connectrpc.com/connect"

	"github.com/mmynk/groupsplit/internal/config"
	apperrors "github.com/mmynk/groupsplit/internal/errors"
	"github.com/mmynk/groupsplit/internal/ledger"
	"github.com/mmynk/groupsplit/internal/metrics"
	"github.com/mmynk/groupsplit/internal/storage/memory"
	"github.com/mmynk/groupsplit/pkg/api"
)

func setupTestServer(t *testing.T) (*httptest.Server, *ledger.Ledger) {
	t.Helper()

	static := t.TempDir()
	if err := os.WriteFile(filepath.Join(static, "index.html"), []byte("<html>groupsplit</html>"), 0o644); err != nil {
		t.Fatalf("failed to write index.html: %v", err)
	}

	cfg := config.Default()
	cfg.StaticPath = static
	cfg.Banks.URL = ""

	l := ledger.New(memory.New())
	handler, err := newHandler(cfg, l, metrics.New())
	if err != nil {
		t.Fatalf("newHandler failed: %v", err)
	}

	server := httptest.NewServer(corsMiddleware(handler))
	t.Cleanup(server.Close)
	return server, l
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s failed: %v", url, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading body failed: %v", err)
	}
	return resp, string(body)
}

func TestHandler_ServesAPI(t *testing.T) {
	server, _ := setupTestServer(t)
	client := api.NewMemberServiceClient(http.DefaultClient, server.URL)

	resp, err := client.CreateMember(context.Background(), connect.NewRequest(&api.CreateMemberRequest{Name: "Alice"}))
	if err != nil {
		t.Fatalf("CreateMember failed: %v", err)
	}
	if resp.Msg.Member.Name != "Alice" {
		t.Errorf("name: expected 'Alice', got '%s'", resp.Msg.Member.Name)
	}

	_, body := get(t, server.URL+"/metrics")
	if !strings.Contains(body, "groupsplit_rpc_requests_total") {
		t.Error("expected RPC counter in /metrics output")
	}
}

func TestHandler_StaticFallback(t *testing.T) {
	server, _ := setupTestServer(t)

	_, body := get(t, server.URL+"/some/page")
	if !strings.Contains(body, "groupsplit") {
		t.Errorf("expected index.html for unknown path, got %q", body)
	}

	resp, _ := get(t, server.URL+"/groupsplit.v1.Unknown/Method")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status: expected 404 for unknown procedure, got %d", resp.StatusCode)
	}
}

func TestCORSMiddleware(t *testing.T) {
	server, _ := setupTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, server.URL+api.MemberServiceListMembersProcedure, nil)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("OPTIONS failed: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status: expected 200, got %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("allow origin: expected '*', got '%s'", got)
	}
	if exposed := resp.Header.Get("Access-Control-Expose-Headers"); !strings.Contains(exposed, apperrors.MetaCode) {
		t.Errorf("expected %s in exposed headers, got '%s'", apperrors.MetaCode, exposed)
	}
}

func TestPrintResults(t *testing.T) {
	ctx := context.Background()
	l := ledger.New(memory.New())

	a, _, err := l.CreateMember(ctx, ledger.MemberInput{Name: "Alice"})
	if err != nil {
		t.Fatalf("CreateMember failed: %v", err)
	}
	b, _, err := l.CreateMember(ctx, ledger.MemberInput{Name: "Bob"})
	if err != nil {
		t.Fatalf("CreateMember failed: %v", err)
	}
	_, err = l.CreateActivity(ctx, ledger.ActivityInput{
		Name:         "Taxi",
		Amount:       80,
		PayerID:      a.ID,
		Participants: []ledger.ParticipantInput{{MemberID: a.ID}, {MemberID: b.ID}},
	})
	if err != nil {
		t.Fatalf("CreateActivity failed: %v", err)
	}

	var out bytes.Buffer
	if err := printResults(ctx, &out, l); err != nil {
		t.Fatalf("printResults failed: %v", err)
	}

	if !strings.Contains(out.String(), "Bob pays Alice 40") {
		t.Errorf("expected transfer line, got:\n%s", out.String())
	}
}

func TestPrintResults_Settled(t *testing.T) {
	var out bytes.Buffer
	if err := printResults(context.Background(), &out, ledger.New(memory.New())); err != nil {
		t.Fatalf("printResults failed: %v", err)
	}
	if !strings.Contains(out.String(), "Everyone is settled up.") {
		t.Errorf("expected settled message, got:\n%s", out.String())
	}
}
