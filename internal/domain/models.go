package domain

import "time"

// Meal lifecycle states. Completed and Canceled are terminal.
const (
	MealPublished string = "published"
	MealLocked    string = "locked"
	MealCompleted string = "completed"
	MealCanceled  string = "canceled"
)

const (
	SlotLunch  string = "lunch"
	SlotDinner string = "dinner"
)

const (
	OrderActive   string = "active"
	OrderCanceled string = "canceled"
)

// Ledger entry types. Amounts are stored signed: debits negative,
// credits positive. The cached user balance always moves by exactly
// the stored amount.
const (
	LedgerRecharge string = "recharge"
	LedgerDebit    string = "debit"
	LedgerRefund   string = "refund"
	LedgerAdjust   string = "adjust"
)

const (
	RefTypeOrder  string = "order"
	RefTypeMeal   string = "meal"
	RefTypeManual string = "manual"
)

type User struct {
	ID           int       `db:"id"`
	OpenID       string    `db:"open_id"`
	Nickname     string    `db:"nickname"`
	IsAdmin      bool      `db:"is_admin"`
	BalanceCents int64     `db:"balance_cents"`
	CreatedAt    time.Time `db:"created_at"`
}

// MealOption is one selectable extra; PriceCents is a signed delta
// added to the base price per selected option.
type MealOption struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
}

type Meal struct {
	ID             int          `db:"id"`
	Date           time.Time    `db:"date"`
	Slot           string       `db:"slot"`
	Title          string       `db:"title"`
	Description    string       `db:"description"`
	BasePriceCents int64        `db:"base_price_cents"`
	Capacity       int          `db:"capacity"`
	PerUserLimit   int          `db:"per_user_limit"`
	Options        []MealOption `db:"options_json"`
	Status         string       `db:"status"`
	CreatedBy      int          `db:"created_by"`
	OrderedQty     int          `db:"ordered_qty"`
	CreatedAt      time.Time    `db:"created_at"`
	UpdatedAt      time.Time    `db:"updated_at"`
}

type Order struct {
	ID          int        `db:"id"`
	UserID      int        `db:"user_id"`
	MealID      int        `db:"meal_id"`
	Qty         int        `db:"qty"`
	OptionIDs   []string   `db:"options_json"`
	AmountCents int64      `db:"amount_cents"`
	Status      string     `db:"status"`
	LockedAt    *time.Time `db:"locked_at"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
}

// LedgerEntry is immutable once written.
type LedgerEntry struct {
	ID          int       `db:"id"`
	UserID      int       `db:"user_id"`
	Type        string    `db:"type"`
	AmountCents int64     `db:"amount_cents"`
	RefType     string    `db:"ref_type"`
	RefID       int       `db:"ref_id"`
	Remark      string    `db:"remark"`
	CreatedAt   time.Time `db:"created_at"`
}

// AuditRecord is one row of the append-only audit log. UserID is the
// subject of the action, ActorID who performed it; either may be zero
// for system-level records.
type AuditRecord struct {
	ID        int       `db:"id"`
	UserID    int       `db:"user_id"`
	ActorID   int       `db:"actor_id"`
	Action    string    `db:"action"`
	Detail    []byte    `db:"detail_json"`
	CreatedAt time.Time `db:"created_at"`
}

// MealTerminal reports whether a meal status admits no further transitions.
func MealTerminal(status string) bool {
	return status == MealCompleted || status == MealCanceled
}
