package models

import "time"

// Activity is a scheduled online activity posted by an organizer.
// Date is a calendar day in "2006-01-02" form and StartTime an "15:04"
// wall-clock start; both are kept as strings so that listing filters and
// ordering reduce to lexicographic comparison in SQL.
type Activity struct {
	ID                string
	Title             string
	Description       string
	Topic             string
	AgeGroup          string
	Date              string
	StartTime         string
	JoinLink          string
	OrganizerID       string
	OrganizerUsername string
	CreatedAt         time.Time
}
