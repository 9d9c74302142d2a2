package profile

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"hrdash/internal/domain/session"
	"hrdash/internal/platform/cache"
	"hrdash/internal/platform/crypto"
)

type fakeRecordStore struct {
	mu          sync.Mutex
	records     map[string]map[string]any
	getErr      error
	upsertErr   error
	getCalls    int
	upsertCalls int
	ops         []string
	getGate     chan struct{}
}

func newFakeRecordStore() *fakeRecordStore {
	return &fakeRecordStore{records: map[string]map[string]any{}}
}

func (f *fakeRecordStore) key(subjectID, role string) string {
	return subjectID + "/" + role
}

func (f *fakeRecordStore) Get(ctx context.Context, subjectID, role string) (map[string]any, error) {
	if f.getGate != nil {
		<-f.getGate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls++
	f.ops = append(f.ops, "get")
	if f.getErr != nil {
		return nil, f.getErr
	}
	rec, ok := f.records[f.key(subjectID, role)]
	if !ok {
		return nil, nil
	}
	return rec, nil
}

func (f *fakeRecordStore) Upsert(ctx context.Context, subjectID, role string, record map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upsertCalls++
	f.ops = append(f.ops, "upsert")
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.records[f.key(subjectID, role)] = record
	return nil
}

func newCache(t *testing.T) *cache.Store {
	t.Helper()
	svc, err := crypto.New("")
	if err != nil {
		t.Fatalf("crypto setup failed: %v", err)
	}
	store, err := cache.New(t.TempDir(), svc)
	if err != nil {
		t.Fatalf("cache setup failed: %v", err)
	}
	return store
}

func employeeSession() *session.Session {
	return &session.Session{
		Role:        session.RoleEmployee,
		SubjectID:   "EMP-9",
		DisplayName: "Ravi Kumar",
		Claims:      map[string]any{"email": "ravi@corp.example", "department": "Platform"},
	}
}

func TestLoadAutoProvisionsOnFirstVisit(t *testing.T) {
	records := newFakeRecordStore()
	syncer := NewSynchronizer(newCache(t), records)

	result, err := syncer.Load(context.Background(), employeeSession())
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if result.Source != SourceProvisioned {
		t.Fatalf("expected provisioned source, got %s", result.Source)
	}
	if result.Record.Identity.Name != "Ravi Kumar" || result.Record.Personal.Email != "ravi@corp.example" {
		t.Fatalf("synthesized record missing claim data: %+v", result.Record)
	}
	if result.Record.Education == nil {
		t.Fatal("provisioned record must be fully defaulted")
	}
	if records.upsertCalls != 1 {
		t.Fatalf("expected exactly one provisioning upsert, got %d", records.upsertCalls)
	}
}

func TestLoadCacheFirstReturnsBeforeRemote(t *testing.T) {
	records := newFakeRecordStore()
	store := newCache(t)
	sess := employeeSession()

	warm := NewSynchronizer(store, records)
	if _, err := warm.Load(context.Background(), sess); err != nil {
		t.Fatalf("warm-up load failed: %v", err)
	}

	// Hold the remote behind a gate: the second load must answer from
	// cache without waiting on it.
	records.getGate = make(chan struct{})
	syncer := NewSynchronizer(store, records)

	done := make(chan LoadResult, 1)
	go func() {
		result, err := syncer.Load(context.Background(), sess)
		if err != nil {
			t.Errorf("load failed: %v", err)
		}
		done <- result
	}()

	select {
	case result := <-done:
		if result.Source != SourceCache {
			t.Fatalf("expected cache source, got %s", result.Source)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("cached load must not wait for the remote response")
	}
	close(records.getGate)
}

func TestLoadRemoteErrorWithCacheKeepsStaleValue(t *testing.T) {
	records := newFakeRecordStore()
	store := newCache(t)
	sess := employeeSession()

	warm := NewSynchronizer(store, records)
	if _, err := warm.Load(context.Background(), sess); err != nil {
		t.Fatalf("warm-up load failed: %v", err)
	}

	records.getErr = errors.New("connectivity lost")
	syncer := NewSynchronizer(store, records)

	result, err := syncer.Load(context.Background(), sess)
	if err != nil {
		t.Fatalf("cached value should mask the remote error, got %v", err)
	}
	if result.Source != SourceCache {
		t.Fatalf("expected cache source, got %s", result.Source)
	}
}

func TestLoadRemoteErrorWithoutCache(t *testing.T) {
	records := newFakeRecordStore()
	records.getErr = errors.New("permission denied")
	syncer := NewSynchronizer(newCache(t), records)

	_, err := syncer.Load(context.Background(), employeeSession())
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestSaveWritesCacheBeforeRemote(t *testing.T) {
	records := newFakeRecordStore()
	store := newCache(t)
	sess := employeeSession()
	syncer := NewSynchronizer(store, records)

	next := Record{Identity: Identity{Name: "Ravi Kumar", RoleTitle: "Senior Engineer"}}
	if err := syncer.Save(context.Background(), sess, next); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	cached, ok := syncer.Peek(sess)
	if !ok {
		t.Fatal("save must populate the cache")
	}
	if cached.Identity.RoleTitle != "Senior Engineer" {
		t.Fatalf("unexpected cached record: %+v", cached.Identity)
	}
	if records.upsertCalls != 1 {
		t.Fatalf("expected one upsert, got %d", records.upsertCalls)
	}
}

func TestSaveRemoteFailureKeepsLocalWrite(t *testing.T) {
	records := newFakeRecordStore()
	records.upsertErr = errors.New("backend down")
	store := newCache(t)
	sess := employeeSession()
	syncer := NewSynchronizer(store, records)

	next := Record{Identity: Identity{Name: "Ravi Kumar", RoleTitle: "Staff Engineer"}}
	err := syncer.Save(context.Background(), sess, next)
	if !errors.Is(err, ErrSyncFailed) {
		t.Fatalf("expected ErrSyncFailed, got %v", err)
	}

	cached, ok := syncer.Peek(sess)
	if !ok || cached.Identity.RoleTitle != "Staff Engineer" {
		t.Fatal("local write must survive a remote failure")
	}
}

func TestCacheKeysNamespacedByRole(t *testing.T) {
	records := newFakeRecordStore()
	store := newCache(t)
	syncer := NewSynchronizer(store, records)

	empSess := employeeSession()
	mgrSess := &session.Session{Role: session.RoleManager, SubjectID: "EMP-9", DisplayName: "Ravi Kumar"}

	if err := syncer.Save(context.Background(), empSess, Record{Identity: Identity{Name: "As Employee"}}); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := syncer.Save(context.Background(), mgrSess, Record{Identity: Identity{Name: "As Manager"}}); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	emp, _ := syncer.Peek(empSess)
	mgr, _ := syncer.Peek(mgrSess)
	if emp.Identity.Name != "As Employee" || mgr.Identity.Name != "As Manager" {
		t.Fatalf("role-scoped records collided: %q / %q", emp.Identity.Name, mgr.Identity.Name)
	}
}

func TestRefreshNotifiesSubscribers(t *testing.T) {
	records := newFakeRecordStore()
	sess := employeeSession()
	records.records[records.key(sess.SubjectID, string(sess.Role))] = map[string]any{
		"identity": map[string]any{"name": "Fresh Name"},
	}
	syncer := NewSynchronizer(newCache(t), records)

	var got []Record
	unsubscribe := syncer.Subscribe(func(_ session.Role, rec Record) { got = append(got, rec) })
	defer unsubscribe()

	if _, err := syncer.Refresh(context.Background(), sess); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if len(got) != 1 || got[0].Identity.Name != "Fresh Name" {
		t.Fatalf("subscriber not notified with fresh record: %+v", got)
	}
}
