package cache

// Persisted layout: one entry for the active session, one per-role
// completion flag, one entry per (subject, role) profile, one blob for the
// whole action store.
const (
	KeySession = "session"
	KeyActions = "actions"
)

func CompletionKey(role string) string {
	return "setup_complete/" + role
}

func ProfileKey(subjectID, role string) string {
	return "profile/" + subjectID + "/" + role
}
