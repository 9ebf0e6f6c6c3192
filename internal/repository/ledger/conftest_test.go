package ledger

import "context"

// mockStore implements db.StreamStore for tests.
type mockStore struct {
	appendFn func(ctx context.Context, stream string, entry []byte) error
	rangeFn  func(ctx context.Context, stream string) ([][]byte, error)

	appended map[string][][]byte
}

func newMockStore() *mockStore {
	return &mockStore{appended: make(map[string][][]byte)}
}

func (m *mockStore) Append(ctx context.Context, stream string, entry []byte) error {
	if m.appendFn != nil {
		return m.appendFn(ctx, stream, entry)
	}
	m.appended[stream] = append(m.appended[stream], entry)
	return nil
}

func (m *mockStore) Range(ctx context.Context, stream string) ([][]byte, error) {
	if m.rangeFn != nil {
		return m.rangeFn(ctx, stream)
	}
	return m.appended[stream], nil
}
