package report

import (
	"time"

	"talnurt/internal/common"
)

type Status string

const (
	StatusUnread Status = "unread"
	StatusRead   Status = "read"
)

type Report struct {
	ID          common.UUID `json:"id"`
	AuthorID    common.UUID `json:"author_id"`
	RecipientID common.UUID `json:"recipient_id"`
	Title       string      `json:"title"`
	Content     string      `json:"content"`
	Status      Status      `json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
}

// Recipient is a resolved, display-ready addressee returned by the recipients
// endpoint. Name carries the sanitized display name.
type Recipient struct {
	ID   common.UUID `json:"id"`
	Name string      `json:"name"`
	Role string      `json:"role"`
}
