package dto

type SubmitOrderRequestDTO struct {
	MealID    int      `json:"meal_id" example:"42"`
	Qty       int      `json:"qty" example:"1"`
	OptionIDs []string `json:"option_ids"`
}

type ModifyOrderRequestDTO struct {
	Qty       int      `json:"qty" example:"2"`
	OptionIDs []string `json:"option_ids"`
}

type OrderReceiptResponseDTO struct {
	OrderID      int   `json:"order_id" example:"101"`
	AmountCents  int64 `json:"amount_cents" example:"1500"`
	BalanceCents int64 `json:"balance_cents" example:"8500"`
}

type GetOrdersResponseDTO struct {
	ID          int      `json:"id" example:"101"`
	MealID      int      `json:"meal_id" example:"42"`
	Qty         int      `json:"qty" example:"1"`
	OptionIDs   []string `json:"option_ids"`
	AmountCents int64    `json:"amount_cents" example:"1500"`
	Status      string   `json:"status" example:"active"`
	CreatedAt   string   `json:"created_at" example:"2026-08-20T12:00:00+03:00"`
}
