package models

// Submission is a single form response. Created once at submit time,
// immutable afterwards, removed only by explicit admin delete.
type Submission struct {
	ID        string            `json:"id"`
	FormID    string            `json:"formId"`
	Data      map[string]string `json:"data"`
	Timestamp string            `json:"timestamp"`
	IP        string            `json:"ip"`
}
