package dto

type BalanceResponseDTO struct {
	UserID       int    `json:"user_id" example:"7"`
	OpenID       string `json:"open_id" example:"wx-a1b2c3"`
	Nickname     string `json:"nickname" example:"alice"`
	BalanceCents int64  `json:"balance_cents" example:"8500"`
}

type ProfileRequestDTO struct {
	Nickname string `json:"nickname" example:"alice"`
}

type RechargeRequestDTO struct {
	AmountCents int64  `json:"amount_cents" example:"5000"`
	Remark      string `json:"remark" example:"monthly top-up"`
}

type AdjustRequestDTO struct {
	AmountCents int64  `json:"amount_cents" example:"-300"`
	Remark      string `json:"remark" example:"correction"`
}

type TransactionResponseDTO struct {
	ID          int    `json:"id" example:"311"`
	Type        string `json:"type" example:"debit"`
	AmountCents int64  `json:"amount_cents" example:"-1500"`
	RefType     string `json:"ref_type,omitempty" example:"order"`
	RefID       int    `json:"ref_id,omitempty" example:"101"`
	Remark      string `json:"remark,omitempty"`
	CreatedAt   string `json:"created_at" example:"2026-08-20T12:00:00+03:00"`
}
