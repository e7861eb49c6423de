package dto

type MealOptionDTO struct {
	ID         string `json:"id" example:"extra-rice"`
	Name       string `json:"name" example:"Extra rice"`
	PriceCents int64  `json:"price_cents" example:"200"`
}

type MealRequestDTO struct {
	Date           string          `json:"date" example:"2026-09-01"`
	Slot           string          `json:"slot" example:"lunch"`
	Title          string          `json:"title" example:"Beef noodles"`
	Description    string          `json:"description"`
	BasePriceCents int64           `json:"base_price_cents" example:"1300"`
	Capacity       int             `json:"capacity" example:"30"`
	PerUserLimit   int             `json:"per_user_limit" example:"2"`
	Options        []MealOptionDTO `json:"options"`
}

type MealResponseDTO struct {
	ID             int             `json:"id" example:"42"`
	Date           string          `json:"date" example:"2026-09-01"`
	Slot           string          `json:"slot" example:"lunch"`
	Title          string          `json:"title" example:"Beef noodles"`
	Description    string          `json:"description"`
	BasePriceCents int64           `json:"base_price_cents" example:"1300"`
	Capacity       int             `json:"capacity" example:"30"`
	PerUserLimit   int             `json:"per_user_limit" example:"2"`
	Options        []MealOptionDTO `json:"options"`
	Status         string          `json:"status" example:"published"`
	OrderedQty     int             `json:"ordered_qty" example:"12"`
	RemainingQty   int             `json:"remaining_qty" example:"18"`
}

type MealStatusResponseDTO struct {
	MealID int    `json:"meal_id" example:"42"`
	Status string `json:"status" example:"locked"`
}
