package dto

type InteractResponse struct {
	Rewarded bool `json:"rewarded"`
	Points   int  `json:"points"`
	Balance  int  `json:"balance"`
}

type RedeemInput struct {
	PayoutDestination string `json:"payout_destination" binding:"required,max=100"`
}

type RedeemResponse struct {
	PointsSpent   int     `json:"points_spent"`
	AmountPayable float64 `json:"amount_payable"`
	Balance       int     `json:"balance"`
}

type BalanceResponse struct {
	Balance     int  `json:"balance"`
	HasFollowed bool `json:"has_followed"`
}
