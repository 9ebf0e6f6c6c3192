package chi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	chiRouter "github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/edulab-cloud/mentor/internal/domain"
	chatuc "github.com/edulab-cloud/mentor/internal/usecase/chat"
	healthuc "github.com/edulab-cloud/mentor/internal/usecase/health"
	interactionuc "github.com/edulab-cloud/mentor/internal/usecase/interaction"
	recommenduc "github.com/edulab-cloud/mentor/internal/usecase/recommend"
)

// testLedger satisfies every ledger-facing contract in one in-memory fake.
type testLedger struct {
	chats        []domain.ChatEvent
	accesses     []domain.AccessEvent
	interactions []domain.InteractionEvent
	tags         []string
	popular      []string
	pingErr      error
}

func (l *testLedger) AppendChat(_ context.Context, ev domain.ChatEvent) error {
	l.chats = append(l.chats, ev)
	return nil
}

func (l *testLedger) AppendAccess(_ context.Context, ev domain.AccessEvent) error {
	l.accesses = append(l.accesses, ev)
	return nil
}

func (l *testLedger) AppendInteraction(_ context.Context, ev domain.InteractionEvent) error {
	l.interactions = append(l.interactions, ev)
	return nil
}

func (l *testLedger) UserTags(_ context.Context, _ string) ([]string, error) {
	return l.tags, nil
}

func (l *testLedger) Popularity(_ context.Context) ([]string, error) {
	return l.popular, nil
}

func (l *testLedger) Ping(_ context.Context) error { return l.pingErr }

// tagLookup adapts a materials slice to interaction.TagResolver.
type tagLookup []domain.Material

func (c tagLookup) MaterialTags(id string) []string {
	for _, m := range c {
		if m.ID == id {
			return m.Tags
		}
	}
	return nil
}

func newTestServer(t *testing.T, ledger *testLedger) *httptest.Server {
	t.Helper()

	entries := []domain.KnowledgeEntry{
		{Question: "reset password", Answer: "Go to settings > security."},
		{Question: "change email address", Answer: "Open profile settings."},
	}
	materials := []domain.Material{
		{ID: "m1", Title: "Python basics", Tags: []string{"python"}},
		{ID: "m2", Title: "Go basics", Tags: []string{"go"}},
		{ID: "m3", Title: "SQL intro", Tags: []string{"db"}},
	}

	logger := zap.NewNop()
	index := chatuc.BuildIndex([]string{entries[0].Question, entries[1].Question})
	srv := NewServer(
		chatuc.New(index, entries, 0.35, ledger, logger),
		recommenduc.New(materials, ledger, ledger, logger),
		interactionuc.New(ledger, tagLookup(materials), logger),
		healthuc.New(ledger),
		5, 50,
		logger,
	)

	r := chiRouter.NewRouter()
	srv.Routes(r)

	ts := httptest.NewServer(r)
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url, body string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Post(url, "application/json", bytes.NewBufferString(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, buf.Bytes()
}

func TestChat_KnowledgeBaseHit(t *testing.T) {
	ledger := &testLedger{}
	ts := newTestServer(t, ledger)

	resp, body := postJSON(t, ts.URL+"/chat",
		`{"user_id":"u1","message":"how do I reset my password"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, body)
	}

	var out chatResponse
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Source != "kb" || out.Response != "Go to settings > security." {
		t.Errorf("unexpected response %+v", out)
	}
	if len(out.TopMatches) != 2 {
		t.Errorf("expected 2 top matches, got %d", len(out.TopMatches))
	}

	if len(ledger.chats) != 1 || ledger.chats[0].UserID != "u1" {
		t.Errorf("expected chat event, got %+v", ledger.chats)
	}
}

func TestChat_MissingMessage(t *testing.T) {
	ts := newTestServer(t, &testLedger{})

	for _, body := range []string{`{}`, `{"user_id":"u1"}`, ``} {
		resp, _ := postJSON(t, ts.URL+"/chat", body)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("body %q: expected 400, got %d", body, resp.StatusCode)
		}
	}
}

func TestChat_DefaultsAnonymousUser(t *testing.T) {
	ledger := &testLedger{}
	ts := newTestServer(t, ledger)

	resp, _ := postJSON(t, ts.URL+"/chat", `{"message":"what is the weather today"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if len(ledger.chats) != 1 || ledger.chats[0].UserID != "anonymous" {
		t.Errorf("expected anonymous chat event, got %+v", ledger.chats)
	}
	if ledger.chats[0].Source != domain.SourceFallback {
		t.Errorf("expected fallback source, got %s", ledger.chats[0].Source)
	}
}

func TestRecommend_DefaultNum(t *testing.T) {
	ts := newTestServer(t, &testLedger{tags: []string{"go"}})

	resp, body := postJSON(t, ts.URL+"/recommend", `{"user_id":"u1"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, body)
	}

	var out recommendResponse
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	// Catalog holds 3 materials; m2 matches the profile and leads.
	if len(out.Recommendations) != 3 {
		t.Fatalf("expected 3 recommendations, got %d", len(out.Recommendations))
	}
	if out.Recommendations[0].ID != "m2" {
		t.Errorf("expected m2 first, got %s", out.Recommendations[0].ID)
	}
}

func TestRecommend_InvalidNum(t *testing.T) {
	ts := newTestServer(t, &testLedger{})

	for _, body := range []string{`{"num":0}`, `{"num":-3}`} {
		resp, _ := postJSON(t, ts.URL+"/recommend", body)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("body %q: expected 400, got %d", body, resp.StatusCode)
		}
	}
}

func TestRecommend_NumLimited(t *testing.T) {
	ts := newTestServer(t, &testLedger{})

	resp, body := postJSON(t, ts.URL+"/recommend", `{"num":2}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var out recommendResponse
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(out.Recommendations) != 2 {
		t.Errorf("expected 2 recommendations, got %d", len(out.Recommendations))
	}
}

func TestInteraction(t *testing.T) {
	ledger := &testLedger{}
	ts := newTestServer(t, ledger)

	resp, body := postJSON(t, ts.URL+"/interaction", `{"user_id":"u1","material_id":"m2"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, body)
	}

	var out map[string]bool
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !out["ok"] {
		t.Errorf("expected ok:true, got %v", out)
	}

	if len(ledger.accesses) != 1 || len(ledger.interactions) != 1 {
		t.Fatalf("expected one event per stream, got %d/%d",
			len(ledger.accesses), len(ledger.interactions))
	}
	if got := ledger.interactions[0].Tags; len(got) != 1 || got[0] != "go" {
		t.Errorf("expected tags [go], got %v", got)
	}
}

func TestInteraction_MissingMaterialID(t *testing.T) {
	ts := newTestServer(t, &testLedger{})

	resp, _ := postJSON(t, ts.URL+"/interaction", `{"user_id":"u1"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, &testLedger{})

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var out healthResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Status != "ok" {
		t.Errorf("expected status ok, got %q", out.Status)
	}
	if _, err := time.Parse(time.RFC3339, out.Time); err != nil {
		t.Errorf("time %q is not RFC3339: %v", out.Time, err)
	}
}
