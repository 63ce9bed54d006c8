package model

type UpdateCommissionRateRequest struct {
	UserID  string   `json:"-" validate:"required"`
	IsAdmin bool     `json:"-"`
	Rate    *float64 `json:"rate" validate:"required,gte=0,lt=1"`
}

type CommissionQuoteRequest struct {
	Price float64 `query:"price" validate:"gte=0,lte=1000000000"`
}

type CommissionRateResponse struct {
	Rate float64 `json:"rate"`
}

type CommissionQuoteResponse struct {
	Price        float64 `json:"price"`
	Rate         float64 `json:"rate"`
	Commission   float64 `json:"commission"`
	DriverAmount float64 `json:"driverAmount"`
}
