// internal/model/sequence_job.go
package model

import "time"

// SequenceJob is one due step of a message sequence: which lead gets which
// message, and when. The queue owns its lifecycle; the core only reads it.
type SequenceJob struct {
	ID          string    `db:"id" json:"id"`
	LeadID      string    `db:"lead_id" json:"lead_id"`
	MessageType string    `db:"message_type" json:"message_type"`
	Content     string    `db:"content" json:"content"`
	Status      string    `db:"status" json:"status"` // pending, sent, skipped, failed
	LastError   string    `db:"last_error,omitempty" json:"last_error,omitempty"`
	SendAt      time.Time `db:"send_at" json:"send_at"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}
