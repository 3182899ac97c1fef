package model

import "time"

// Connection request lifecycle. A request is created as either
// "ignored" or "interested" and only ever moves from "interested" to
// "accepted" or "rejected" through review. "cancelled" exists in the
// enumeration for schema parity but no endpoint reaches it yet
const (
	StatusIgnored    = "ignored"
	StatusInterested = "interested"
	StatusAccepted   = "accepted"
	StatusCancelled  = "cancelled"
	StatusRejected   = "rejected"
)

type ConnectionRequest struct {
	ID         string `gorm:"primaryKey" json:"id"`
	FromUserID string `gorm:"index;not null" json:"fromUserId"`
	ToUserID   string `gorm:"index;not null" json:"toUserId"`
	Status     string `gorm:"not null" json:"status"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
