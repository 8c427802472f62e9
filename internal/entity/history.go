package entity

import (
	"time"

	"github.com/joseph-ayodele/sourcing-assistant/constants"
)

// HistoryEntry is a past analysis kept in local history.
type HistoryEntry struct {
	ID          string             `json:"id"`
	ProductName string             `json:"productName"`
	Proposal    Proposal           `json:"proposal"`
	CreatedAt   time.Time          `json:"createdAt"`
	Priority    constants.Priority `json:"priority"`
}
