package events

import (
	"encoding/json"
	"time"
)

const (
	TopicOrderAccepted = "meal.order.accepted"
	TopicOrderCanceled = "meal.order.canceled"
	TopicMealLifecycle = "meal.lifecycle"
)

// Envelope wraps every published event. Payload is the marshaled
// type-specific body.
type Envelope struct {
	EventID    string          `json:"event_id"`
	EventType  string          `json:"event_type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Producer   string          `json:"producer"`
	Payload    json.RawMessage `json:"payload"`
}

type OrderAcceptedPayload struct {
	OrderID      int   `json:"order_id"`
	UserID       int   `json:"user_id"`
	MealID       int   `json:"meal_id"`
	Qty          int   `json:"qty"`
	AmountCents  int64 `json:"amount_cents"`
	BalanceCents int64 `json:"balance_cents"`
}

type OrderCanceledPayload struct {
	OrderID     int    `json:"order_id"`
	UserID      int    `json:"user_id"`
	MealID      int    `json:"meal_id"`
	AmountCents int64  `json:"amount_cents"`
	Reason      string `json:"reason"`
}

type MealLifecyclePayload struct {
	MealID     int    `json:"meal_id"`
	FromStatus string `json:"from_status"`
	ToStatus   string `json:"to_status"`
	Orders     int    `json:"affected_orders,omitempty"`
}
