package domain

import "time"

// Consistency check severities.
const (
	SeverityError   string = "error"
	SeverityWarning string = "warning"
)

// ConsistencyIssue is one detected invariant violation (or, at warning
// severity, a suspicious but legal condition).
type ConsistencyIssue struct {
	Type        string         `json:"type"`
	Description string         `json:"description"`
	Details     map[string]any `json:"details"`
	Severity    string         `json:"severity"`
	Timestamp   time.Time      `json:"timestamp"`
}

type ConsistencySummary struct {
	TotalIssues   int       `json:"total_issues"`
	TotalWarnings int       `json:"total_warnings"`
	Status        string    `json:"status"`
	CheckedAt     time.Time `json:"checked_at"`
}

type ConsistencyReport struct {
	Issues     []ConsistencyIssue `json:"issues"`
	Warnings   []ConsistencyIssue `json:"warnings"`
	Statistics Statistics         `json:"statistics"`
	Summary    ConsistencySummary `json:"summary"`
}

type UserStats struct {
	Total           int   `json:"total"`
	Admins          int   `json:"admins"`
	TotalBalance    int64 `json:"total_balance_cents"`
	MinBalanceCents int64 `json:"min_balance_cents"`
	MaxBalanceCents int64 `json:"max_balance_cents"`
}

type MealStats struct {
	Total     int `json:"total"`
	Published int `json:"published"`
	Locked    int `json:"locked"`
	Completed int `json:"completed"`
	Canceled  int `json:"canceled"`
}

type OrderStats struct {
	Total       int   `json:"total"`
	Active      int   `json:"active"`
	Canceled    int   `json:"canceled"`
	TotalAmount int64 `json:"total_amount_cents"`
}

type LedgerStats struct {
	TotalEntries int   `json:"total_entries"`
	TotalCredits int64 `json:"total_credits"`
	TotalDebits  int64 `json:"total_debits"`
}

type Statistics struct {
	Users  UserStats   `json:"users"`
	Meals  MealStats   `json:"meals"`
	Orders OrderStats  `json:"orders"`
	Ledger LedgerStats `json:"ledger"`
}

// Raw rows surfaced by the audit queries; the consistency service turns
// them into ConsistencyIssue values.

type BalanceMismatch struct {
	UserID       int
	OpenID       string
	Nickname     string
	BalanceCents int64
	LedgerCents  int64
}

type OrphanedOrder struct {
	OrderID int
	UserID  int
	MealID  int
	Missing string // "meal" or "user"
}

type DuplicateActiveOrders struct {
	UserID int
	MealID int
	Count  int
}

type CapacityOverrun struct {
	MealID     int
	Date       time.Time
	Slot       string
	Capacity   int
	OrderedQty int
}

type MissingDebit struct {
	OrderID     int
	UserID      int
	AmountCents int64
}

type OrphanedLedgerRef struct {
	LedgerID int
	RefType  string
	RefID    int
}

type NegativeBalance struct {
	UserID       int
	OpenID       string
	Nickname     string
	BalanceCents int64
}

type StaleMeal struct {
	MealID    int
	Date      time.Time
	Slot      string
	CreatedAt time.Time
}
