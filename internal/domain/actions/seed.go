package actions

import "time"

// Seed is the state a device starts from before any local actions exist.
func Seed(now time.Time) State {
	policyExpiry := now.Add(20 * 24 * time.Hour)
	return State{
		LeaveRequests: []LeaveRequest{},
		Documents: Documents{
			Mine: []DocumentMeta{},
			Company: []DocumentMeta{
				{
					ID:         "DOC-HOLIDAY-CAL",
					Name:       "Holiday Calendar",
					Category:   "Policy",
					UploadedAt: now.Add(-90 * 24 * time.Hour),
				},
				{
					ID:         "DOC-INSURANCE",
					Name:       "Group Insurance Policy",
					Category:   "Benefits",
					UploadedAt: now.Add(-200 * 24 * time.Hour),
					Expiry:     &policyExpiry,
				},
			},
		},
		Notifications: []Notification{
			{
				ID:        "N-9001",
				Title:     "Welcome to the employee dashboard",
				Body:      "Finish your profile setup to unlock all screens.",
				CreatedAt: now,
				Read:      false,
			},
		},
	}
}
