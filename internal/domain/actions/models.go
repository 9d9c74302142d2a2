package actions

import "time"

type LeaveStatus string

const (
	StatusPending   LeaveStatus = "Pending"
	StatusApproved  LeaveStatus = "Approved"
	StatusRejected  LeaveStatus = "Rejected"
	StatusCancelled LeaveStatus = "Cancelled"
)

type LeaveRequest struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	From      time.Time   `json:"from"`
	To        time.Time   `json:"to"`
	Days      int         `json:"days"`
	Status    LeaveStatus `json:"status"`
	Reason    string      `json:"reason"`
	AppliedAt time.Time   `json:"appliedAt"`
}

type DocumentMeta struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Category   string     `json:"category"`
	UploadedAt time.Time  `json:"uploadedAt"`
	Expiry     *time.Time `json:"expiry,omitempty"`
}

type Notification struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
	Read      bool      `json:"read"`
}

type Documents struct {
	Mine    []DocumentMeta `json:"mine"`
	Company []DocumentMeta `json:"company"`
}

// State is the whole employee self-service slice. It is loaded once per
// session from the device cache and persisted back after every mutation.
// There is deliberately no remote counterpart: the store is local of
// record, and a future remote sync would be layered on as an outbox around
// persist rather than threaded through the mutations.
type State struct {
	LeaveRequests []LeaveRequest `json:"leaveRequests"`
	Documents     Documents      `json:"documents"`
	Notifications []Notification `json:"notifications"`
}

// View holds the derived aggregates. Recomputed on every read, never
// stored, so a counter can't drift from the underlying list.
type View struct {
	UnreadCount          int            `json:"unreadCount"`
	ExpiringWithin30Days []DocumentMeta `json:"expiringWithin30Days"`
}
