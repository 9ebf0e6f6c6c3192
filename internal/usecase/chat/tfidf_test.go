package chat

import (
	"errors"
	"testing"

	"github.com/edulab-cloud/mentor/internal/domain"
)

func TestBuildIndex_Empty(t *testing.T) {
	idx := BuildIndex(nil)
	if idx.Size() != 0 {
		t.Fatalf("expected empty index, got size %d", idx.Size())
	}

	matches, err := idx.Query("anything")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(matches) != 0 {
		t.Fatalf("expected empty ranking, got %d matches", len(matches))
	}
}

func TestQuery_RanksBestMatchFirst(t *testing.T) {
	idx := BuildIndex([]string{
		"reset password",
		"change email address",
		"delete account permanently",
	})

	matches, err := idx.Query("how do I reset my password")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(matches) != 3 {
		t.Fatalf("expected 3 matches, got %d", len(matches))
	}
	if matches[0].Position != 0 {
		t.Errorf("expected position 0 first, got %d", matches[0].Position)
	}
	if matches[0].Score < 0.99 {
		t.Errorf("expected near-perfect score, got %f", matches[0].Score)
	}
	for i := 1; i < len(matches); i++ {
		if matches[i].Score > matches[i-1].Score {
			t.Errorf("ranking not descending at %d", i)
		}
	}
}

func TestQuery_UnseenTokensScoreZero(t *testing.T) {
	idx := BuildIndex([]string{"reset password"})

	matches, err := idx.Query("what is the weather today")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if matches[0].Score != 0 {
		t.Errorf("expected zero score for out-of-vocabulary query, got %f", matches[0].Score)
	}
}

func TestQuery_TiesKeepCorpusOrder(t *testing.T) {
	// Both entries match "password" equally well.
	idx := BuildIndex([]string{"password help", "password help"})

	matches, err := idx.Query("password help")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if matches[0].Position != 0 || matches[1].Position != 1 {
		t.Errorf("tie not broken by corpus order: %v", matches)
	}
}

func TestQuery_EmptyMessage(t *testing.T) {
	idx := BuildIndex([]string{"reset password"})

	matches, err := idx.Query("")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(matches) != 1 || matches[0].Score != 0 {
		t.Errorf("expected full zero-score ranking, got %v", matches)
	}
}

func TestQuery_InvalidUTF8(t *testing.T) {
	idx := BuildIndex([]string{"reset password"})

	_, err := idx.Query(string([]byte{0xff, 0xfe}))
	if !errors.Is(err, domain.ErrInvalidText) {
		t.Fatalf("expected ErrInvalidText, got %v", err)
	}
}

func TestQuery_Deterministic(t *testing.T) {
	idx := BuildIndex([]string{
		"reset password", "change email", "install the app", "billing question",
	})

	first, err := idx.Query("password or email question")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	for n := 0; n < 5; n++ {
		again, err := idx.Query("password or email question")
		if err != nil {
			t.Fatalf("Query: %v", err)
		}
		for i := range first {
			if again[i] != first[i] {
				t.Fatalf("ranking changed between calls: %v vs %v", first, again)
			}
		}
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"stop words removed", "how do I reset my password", []string{"reset", "password"}},
		{"punctuation split", "what's e-mail, really?", []string{"mail", "really"}},
		{"single runes dropped", "a b c go", []string{"go"}},
		{"empty", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tokenize(tt.in)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("token %d: expected %q, got %q", i, tt.want[i], got[i])
				}
			}
		})
	}
}
