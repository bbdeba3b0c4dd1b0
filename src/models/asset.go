package models

import "time"

type Asset struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Category  string    `json:"category"`
	Color     string    `json:"color"`
	Amount    float64   `json:"amount"`
	BuyPrice  float64   `json:"buyPrice"`
	CoinID    *string   `json:"coinId"`
	PositionX *float64  `json:"positionX"`
	PositionY *float64  `json:"positionY"`
	CreatedAt time.Time `json:"createdAt"`
}

// AssetValuation is an asset priced at the current market rate.
type AssetValuation struct {
	Asset
	CurrentPrice float64 `json:"currentPrice"`
	Value        float64 `json:"value"`
	Profit       float64 `json:"profit"`
}

type PortfolioSummary struct {
	Assets           []AssetValuation `json:"assets"`
	TotalValue       float64          `json:"totalValue"`
	TotalProfit      float64          `json:"totalProfit"`
	ProfitPercentage float64          `json:"profitPercentage"`
}
