package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"hrdash/internal/domain/session"
	"hrdash/internal/platform/cache"
	"hrdash/internal/remote"
)

type Source string

const (
	SourceCache       Source = "cache"
	SourceRemote      Source = "remote"
	SourceProvisioned Source = "provisioned"
)

type LoadResult struct {
	Record Record `json:"record"`
	Source Source `json:"source"`
}

// Synchronizer hydrates profile records cache-first with a remote fallback
// and auto-provisions a minimal remote record on first visit. Saves are
// local-first: the cache write happens before the remote upsert and is
// never rolled back.
type Synchronizer struct {
	cache *cache.Store
	store remote.RecordStore

	mu      sync.Mutex
	subs    map[int]func(session.Role, Record)
	nextSub int
}

func NewSynchronizer(store *cache.Store, records remote.RecordStore) *Synchronizer {
	return &Synchronizer{
		cache: store,
		store: records,
		subs:  map[int]func(session.Role, Record){},
	}
}

// Peek is the synchronous fast path: the cached record for this subject and
// role, if one was ever hydrated on this device.
func (s *Synchronizer) Peek(sess *session.Session) (Record, bool) {
	raw, ok, err := s.cache.Get(cache.ProfileKey(sess.SubjectID, string(sess.Role)))
	if err != nil || !ok {
		if err != nil {
			slog.Warn("cached profile unreadable", "subject", sess.SubjectID, "err", err)
		}
		return Record{}, false
	}
	doc := map[string]any{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		slog.Warn("cached profile corrupt, discarding", "subject", sess.SubjectID, "err", err)
		return Record{}, false
	}
	return Normalize(doc), true
}

// Load returns a record for the session, short-circuiting on the cache.
// A cache hit answers immediately with possibly stale data while a
// background refresh fetches remote truth and notifies subscribers; a
// superseded refresh is a harmless cache write, never a crash. A cache
// miss takes the blocking remote path.
func (s *Synchronizer) Load(ctx context.Context, sess *session.Session) (LoadResult, error) {
	if cached, ok := s.Peek(sess); ok {
		go func() {
			refreshed := *sess
			if _, err := s.Refresh(context.WithoutCancel(ctx), &refreshed); err != nil {
				slog.Warn("background profile refresh failed, keeping cached record",
					"subject", sess.SubjectID, "err", err)
			}
		}()
		return LoadResult{Record: cached, Source: SourceCache}, nil
	}
	return s.Refresh(ctx, sess)
}

// Refresh runs the remote leg: fetch, or synthesize-and-provision when the
// subject has no record yet, then cache and notify.
func (s *Synchronizer) Refresh(ctx context.Context, sess *session.Session) (LoadResult, error) {
	raw, err := s.store.Get(ctx, sess.SubjectID, string(sess.Role))
	if err != nil {
		return LoadResult{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	source := SourceRemote
	var rec Record
	if raw == nil {
		// First visit: no remote record is not an error. Synthesize from
		// session claims and provision remotely so the profile screen
		// never shows a hard not-found for an authenticated user.
		rec = synthesize(sess)
		source = SourceProvisioned
		if err := s.store.Upsert(ctx, sess.SubjectID, string(sess.Role), ToMap(rec)); err != nil {
			slog.Warn("auto-provision upsert failed", "subject", sess.SubjectID, "err", err)
		}
	} else {
		rec = Normalize(raw)
	}

	if err := s.writeCache(sess, rec); err != nil {
		return LoadResult{}, err
	}
	s.notify(sess.Role, rec)
	return LoadResult{Record: rec, Source: source}, nil
}

// Save writes the cache before issuing the remote upsert, so a reload right
// after an edit reflects it even while the remote write is in flight or has
// failed. A remote failure surfaces as ErrSyncFailed with the local write
// kept.
func (s *Synchronizer) Save(ctx context.Context, sess *session.Session, next Record) error {
	next.applyDefaults()

	if err := s.writeCache(sess, next); err != nil {
		return err
	}
	s.notify(sess.Role, next)

	if err := s.store.Upsert(ctx, sess.SubjectID, string(sess.Role), ToMap(next)); err != nil {
		return fmt.Errorf("%w: %v", ErrSyncFailed, err)
	}
	return nil
}

func (s *Synchronizer) Subscribe(fn func(session.Role, Record)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Synchronizer) notify(role session.Role, rec Record) {
	s.mu.Lock()
	subs := make([]func(session.Role, Record), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(role, rec)
	}
}

func (s *Synchronizer) writeCache(sess *session.Session, rec Record) error {
	raw, err := json.Marshal(ToMap(rec))
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	return s.cache.Put(cache.ProfileKey(sess.SubjectID, string(sess.Role)), raw)
}

// synthesize builds the minimal record auto-provisioning writes on first
// visit: whatever the session claims can supply, everything else defaulted.
func synthesize(sess *session.Session) Record {
	rec := Record{
		Identity: Identity{
			Name:       sess.DisplayName,
			RoleTitle:  claim(sess, "title"),
			Department: claim(sess, "department"),
			Location:   claim(sess, "location"),
		},
		Personal: Personal{
			Email: claim(sess, "email"),
		},
		Job: Job{
			EmployeeNumber: claim(sess, "employeeNumber"),
		},
	}
	rec.applyDefaults()
	return rec
}

func claim(sess *session.Session, key string) string {
	if v, ok := sess.Claims[key].(string); ok {
		return v
	}
	return ""
}
