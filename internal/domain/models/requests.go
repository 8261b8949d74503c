package models

// Requests for the analysis HTTP endpoints. Defined in domain for consistency and reuse.

type ForecastRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required"`
	Months int    `query:"months" json:"months" default:"6" validate:"gte=1,lte=24"`
	Model  string `query:"model" json:"model" default:"linear" validate:"oneof=linear ensemble"`
}

type AnalysisRequest struct {
	Symbol  string  `query:"symbol" json:"symbol" validate:"required"`
	Months  int     `query:"months" json:"months" default:"6" validate:"gte=1,lte=24"`
	Monthly float64 `query:"monthly" json:"monthly" default:"1000" validate:"gt=0"`
	Model   string  `query:"model" json:"model" default:"linear" validate:"oneof=linear ensemble"`
}

type PortfolioRequest struct {
	Symbols string  `query:"symbols" json:"symbols" validate:"required"`
	Months  int     `query:"months" json:"months" default:"6" validate:"gte=1,lte=24"`
	Monthly float64 `query:"monthly" json:"monthly" default:"1000" validate:"gt=0"`
	Model   string  `query:"model" json:"model" default:"linear" validate:"oneof=linear ensemble"`
}

type HistoryRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required"`
	From   string `query:"from" json:"from" validate:"omitempty,datetime=2006-01-02"`
	To     string `query:"to" json:"to" validate:"omitempty,datetime=2006-01-02"`
	Limit  int    `query:"limit" json:"limit" default:"5000" validate:"gte=1,lte=20000"`
}
