package domain

import "time"

// FailedURL records a per-URL failure inside a batch. The batch never drops
// a result: every input URL ends up either as a PostBundle or a FailedURL.
type FailedURL struct {
	URL    string
	Reason string
}

// Retrieval is one history row: the outcome of processing one URL within a
// batch run, persisted for accounting and the /status command.
type Retrieval struct {
	ID         int64     `json:"id"`
	BatchID    string    `json:"batch_id"`
	ChatID     int64     `json:"chat_id"`
	URL        string    `json:"url"`
	Shortcode  string    `json:"shortcode"`
	Status     string    `json:"status"`
	Reason     string    `json:"reason,omitempty"`
	MediaCount int       `json:"media_count"`
	CreatedAt  time.Time `json:"created_at"`
}

const (
	RetrievalStatusOK     = "ok"
	RetrievalStatusFailed = "failed"
)
