package progress

import (
	"context"
	"errors"
	"sync"
	"time"
)

type memSlots struct {
	mu   sync.Mutex
	data map[string][]byte
	err  error
}

func newMemSlots() *memSlots {
	return &memSlots{data: make(map[string][]byte)}
}

func (m *memSlots) GetSlot(_ context.Context, userID, kind string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, false, m.err
	}
	d, ok := m.data[userID+"/"+kind]
	return d, ok, nil
}

func (m *memSlots) PutSlot(_ context.Context, userID, kind string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.data[userID+"/"+kind] = append([]byte(nil), data...)
	return nil
}

func (m *memSlots) DeleteSlots(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k := range m.data {
		if len(k) > len(userID) && k[:len(userID)+1] == userID+"/" {
			delete(m.data, k)
		}
	}
	return nil
}

func (m *memSlots) set(userID, kind, data string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[userID+"/"+kind] = []byte(data)
}

var errUnreachable = errors.New("dial tcp: connection refused")

type fakeAuthority struct {
	mu        sync.Mutex
	records   []Record
	fetchErr  error
	submitErr error
	block     bool
	submitted []Record
}

func (f *fakeAuthority) FetchProgress(ctx context.Context, userID string) ([]Record, error) {
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	var out []Record
	for _, r := range f.records {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeAuthority) SubmitProgress(ctx context.Context, rec Record) error {
	if f.block {
		<-ctx.Done()
		return ctx.Err()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.submitErr != nil {
		return f.submitErr
	}
	f.submitted = append(f.submitted, rec)
	return nil
}

func (f *fakeAuthority) submissions() []Record {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Record(nil), f.submitted...)
}

func (f *fakeAuthority) setSubmitErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitErr = err
}

func ts(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func tp(s string) *time.Time {
	t := ts(s)
	return &t
}
