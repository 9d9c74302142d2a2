// Package gate is the navigation guard in front of gated screens. It is a
// pure decision per check: completion can flip between navigations within
// one session, so the outcome is never cached.
package gate

import (
	"log/slog"

	"hrdash/internal/domain/session"
	"hrdash/internal/platform/cache"
)

type State string

const (
	StateNoSession  State = "no_session"
	StateIncomplete State = "incomplete"
	StateComplete   State = "complete"
)

const (
	TargetLogin = "/login"
	TargetSetup = "/setup"
)

type Redirect struct {
	Target        string `json:"target"`
	Role          string `json:"role,omitempty"`
	ReturnTo      string `json:"returnTo,omitempty"`
	SubjectIDHint string `json:"subjectIdHint,omitempty"`
}

type Decision struct {
	State    State     `json:"state"`
	Redirect *Redirect `json:"redirect,omitempty"`
}

type Provider interface {
	Get() (*session.Session, bool)
}

type Gate struct {
	provider Provider
	cache    *cache.Store
}

func New(provider Provider, store *cache.Store) *Gate {
	return &Gate{provider: provider, cache: store}
}

// Check decides what to do with a navigation to path. Only a flag that
// reads exactly true lets the screen through: a missing or unreadable flag
// is treated as incomplete, never as complete.
func (g *Gate) Check(path string) Decision {
	sess, ok := g.provider.Get()
	if !ok {
		return Decision{State: StateNoSession, Redirect: &Redirect{Target: TargetLogin}}
	}

	if !g.completed(string(sess.Role)) {
		return Decision{
			State: StateIncomplete,
			Redirect: &Redirect{
				Target:        TargetSetup,
				Role:          string(sess.Role),
				ReturnTo:      path,
				SubjectIDHint: sess.SubjectID,
			},
		}
	}

	return Decision{State: StateComplete}
}

// MarkComplete flips the per-role flag. The setup flow is the only caller.
func (g *Gate) MarkComplete(role session.Role) error {
	return g.cache.Put(cache.CompletionKey(string(role)), []byte("true"))
}

func (g *Gate) completed(role string) bool {
	raw, ok, err := g.cache.Get(cache.CompletionKey(role))
	if err != nil {
		slog.Warn("completion flag unreadable", "role", role, "err", err)
		return false
	}
	return ok && string(raw) == "true"
}
