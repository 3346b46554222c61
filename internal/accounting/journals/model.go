package journals

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// JournalStatus enumerates journal lifecycle values.
type JournalStatus string

const (
	JournalStatusPosted JournalStatus = "POSTED"
	JournalStatusVoid   JournalStatus = "VOID"
)

// Side marks which leg of the entry a line belongs to.
type Side string

const (
	SideDebit  Side = "DEBIT"
	SideCredit Side = "CREDIT"
)

// JournalEntry captures posting metadata. Entries are created once per
// business event and never mutated afterwards; edits to the source document
// do not re-post.
type JournalEntry struct {
	ID           int64         `json:"id"`
	Number       int64         `json:"number"`
	Date         time.Time     `json:"date"`
	SourceModule string        `json:"source_module"`
	SourceID     uuid.UUID     `json:"source_id"`
	Memo         string        `json:"memo"`
	PostedBy     int64         `json:"posted_by"`
	PostedAt     time.Time     `json:"posted_at"`
	Status       JournalStatus `json:"status"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
	Lines        []JournalLine `json:"lines,omitempty"`
}

// JournalLine stores one account-affecting leg of a journal entry.
type JournalLine struct {
	ID        int64           `json:"id"`
	JournalID int64           `json:"journal_id"`
	AccountID int64           `json:"account_id"`
	Side      Side            `json:"side"`
	Amount    decimal.Decimal `json:"amount"`
	Memo      string          `json:"memo,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}
