package recommend

import "context"

// mockLedger implements TagReader and PopularityReader for tests.
type mockLedger struct {
	tags       []string
	tagsErr    error
	popular    []string
	popularErr error
}

func (m *mockLedger) UserTags(_ context.Context, _ string) ([]string, error) {
	return m.tags, m.tagsErr
}

func (m *mockLedger) Popularity(_ context.Context) ([]string, error) {
	return m.popular, m.popularErr
}
