package mentor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/edulab-cloud/mentor/internal/domain"
)

const testKB = `[
  {"question": "reset password", "answer": "Go to settings > security.", "tags": ["account"]},
  {"question": "cancel subscription", "answer": "Use the billing page.", "tags": ["billing"]}
]`

const testMaterials = `[
  {"id": "m1", "title": "Python basics", "description": "Intro", "tags": ["python"]},
  {"id": "m2", "title": "Go basics", "description": "Intro", "tags": ["go"]},
  {"id": "m3", "title": "SQL intro", "description": "Intro", "tags": ["db"]}
]`

func newTestClient(t *testing.T) *Client {
	t.Helper()
	dir := t.TempDir()

	kbPath := filepath.Join(dir, "kb.json")
	matPath := filepath.Join(dir, "materials.json")
	if err := os.WriteFile(kbPath, []byte(testKB), 0o600); err != nil {
		t.Fatalf("write kb: %v", err)
	}
	if err := os.WriteFile(matPath, []byte(testMaterials), 0o600); err != nil {
		t.Fatalf("write materials: %v", err)
	}

	client, err := New(
		WithSQLite(filepath.Join(dir, "ledger.db")),
		WithCorpus(kbPath, matPath),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(client.Close)
	return client
}

func TestClient_Chat(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	res, err := client.Chat(ctx, "u1", "how do I reset my password")
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if res.Source != "kb" || res.Response != "Go to settings > security." {
		t.Errorf("unexpected result %+v", res)
	}
	if len(res.TopMatches) != 2 {
		t.Errorf("expected 2 top matches, got %d", len(res.TopMatches))
	}

	res, err = client.Chat(ctx, "u1", "what is the weather today")
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if res.Source != "fallback" {
		t.Errorf("expected fallback, got %s", res.Source)
	}
}

func TestClient_ChatRequiresMessage(t *testing.T) {
	client := newTestClient(t)

	if _, err := client.Chat(context.Background(), "u1", ""); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestClient_InteractionsShapeRecommendations(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	// u1 reads the Go material; its tags enter the profile.
	if err := client.RecordInteraction(ctx, "u1", "m2"); err != nil {
		t.Fatalf("RecordInteraction: %v", err)
	}

	recs, err := client.Recommend(ctx, "u1", 3)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("expected 3 recommendations, got %d", len(recs))
	}
	if recs[0].ID != "m2" {
		t.Errorf("expected m2 first (tag overlap), got %s", recs[0].ID)
	}
}

func TestClient_RecommendWithoutHistory(t *testing.T) {
	client := newTestClient(t)

	recs, err := client.Recommend(context.Background(), "newcomer", 2)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	// No profile, no popularity: catalog order.
	if len(recs) != 2 || recs[0].ID != "m1" || recs[1].ID != "m2" {
		t.Errorf("expected catalog-order fill, got %+v", recs)
	}
}

func TestClient_Ping(t *testing.T) {
	client := newTestClient(t)

	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
}
