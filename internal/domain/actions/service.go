package actions

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"hrdash/internal/platform/cache"
)

// Store holds the optimistic local action state. Every mutation follows the
// same shape: validate, compute derived fields, apply in memory, persist
// the whole state, return.
type Store struct {
	cache *cache.Store
	now   func() time.Time

	mu    sync.Mutex
	state State
}

func NewStore(store *cache.Store) *Store {
	return newStore(store, time.Now)
}

func newStore(store *cache.Store, now func() time.Time) *Store {
	s := &Store{cache: store, now: now}
	s.state = s.load()
	return s
}

func (s *Store) load() State {
	raw, ok, err := s.cache.Get(cache.KeyActions)
	if err != nil {
		slog.Warn("action store unreadable, reseeding", "err", err)
		return Seed(s.now())
	}
	if !ok {
		return Seed(s.now())
	}
	var state State
	if err := json.Unmarshal(raw, &state); err != nil {
		slog.Warn("action store corrupt, reseeding", "err", err)
		return Seed(s.now())
	}
	return state
}

func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Store) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ComputeView(s.state, s.now())
}

// SubmitLeave creates a Pending request and prepends it: most-recent-first
// is a display invariant the store upholds directly.
func (s *Store) SubmitLeave(leaveType string, from, to time.Time, reason string) (LeaveRequest, error) {
	days, err := CalculateDays(from, to)
	if err != nil {
		return LeaveRequest{}, err
	}
	if strings.TrimSpace(leaveType) == "" {
		leaveType = "Casual"
	}

	req := LeaveRequest{
		ID:        uuid.NewString(),
		Type:      leaveType,
		From:      from,
		To:        to,
		Days:      days,
		Status:    StatusPending,
		Reason:    reason,
		AppliedAt: s.now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.LeaveRequests = append([]LeaveRequest{req}, s.state.LeaveRequests...)
	if err := s.persist(); err != nil {
		return LeaveRequest{}, err
	}
	return req, nil
}

// CancelLeave moves a Pending request to Cancelled. Any other status, or an
// unknown id, is silently ignored: the UI hides the control, the store
// stays defensive.
func (s *Store) CancelLeave(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, req := range s.state.LeaveRequests {
		if req.ID != id || req.Status != StatusPending {
			continue
		}
		s.state.LeaveRequests[i].Status = StatusCancelled
		return s.persist()
	}
	return nil
}

// ApplyDecision records a manager's approve/reject outcome under the same
// transition rule: Pending only, everything else terminal.
func (s *Store) ApplyDecision(id string, status LeaveStatus) error {
	if status != StatusApproved && status != StatusRejected {
		return fmt.Errorf("invalid decision status %q", status)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, req := range s.state.LeaveRequests {
		if req.ID != id || req.Status != StatusPending {
			continue
		}
		s.state.LeaveRequests[i].Status = status
		return s.persist()
	}
	return nil
}

// UploadDocumentMeta records metadata only; binary payloads never pass
// through this subsystem.
func (s *Store) UploadDocumentMeta(name, category string, expiry *time.Time) (DocumentMeta, error) {
	doc := DocumentMeta{
		ID:         uuid.NewString(),
		Name:       name,
		Category:   category,
		UploadedAt: s.now(),
		Expiry:     expiry,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Documents.Mine = append([]DocumentMeta{doc}, s.state.Documents.Mine...)
	if err := s.persist(); err != nil {
		return DocumentMeta{}, err
	}
	return doc, nil
}

func (s *Store) DeleteDocumentMeta(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, doc := range s.state.Documents.Mine {
		if doc.ID != id {
			continue
		}
		s.state.Documents.Mine = append(s.state.Documents.Mine[:i], s.state.Documents.Mine[i+1:]...)
		return s.persist()
	}
	return nil
}

func (s *Store) MarkNotificationRead(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, n := range s.state.Notifications {
		if n.ID != id || n.Read {
			continue
		}
		s.state.Notifications[i].Read = true
		return s.persist()
	}
	return nil
}

func (s *Store) DismissNotification(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, n := range s.state.Notifications {
		if n.ID != id {
			continue
		}
		s.state.Notifications = append(s.state.Notifications[:i], s.state.Notifications[i+1:]...)
		return s.persist()
	}
	return nil
}

// ResetToSeed replaces the whole state with the seed. Demo and test escape
// hatch, not wired to any end-user control.
func (s *Store) ResetToSeed() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Seed(s.now())
	return s.persist()
}

func (s *Store) persist() error {
	raw, err := json.Marshal(s.state)
	if err != nil {
		return fmt.Errorf("encode action state: %w", err)
	}
	return s.cache.Put(cache.KeyActions, raw)
}
