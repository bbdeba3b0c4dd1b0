package reports

import (
	"fintrack-server/src/models"

	"github.com/shopspring/decimal"
)

// ValuePortfolio prices each asset. Assets linked to a coin use the quoted price when one is
// available, everything else is valued at its buy price.
func ValuePortfolio(assets []models.Asset, prices map[string]float64) models.PortfolioSummary {
	summary := models.PortfolioSummary{Assets: make([]models.AssetValuation, 0, len(assets))}
	totalValue, totalProfit := decimal.Zero, decimal.Zero

	for _, a := range assets {
		price := decimal.NewFromFloat(a.BuyPrice)
		if a.CoinID != nil {
			if p, ok := prices[*a.CoinID]; ok {
				price = decimal.NewFromFloat(p)
			}
		}
		amount := decimal.NewFromFloat(a.Amount)
		value := amount.Mul(price)
		profit := amount.Mul(price.Sub(decimal.NewFromFloat(a.BuyPrice)))

		summary.Assets = append(summary.Assets, models.AssetValuation{
			Asset:        a,
			CurrentPrice: price.InexactFloat64(),
			Value:        value.InexactFloat64(),
			Profit:       profit.InexactFloat64(),
		})
		totalValue = totalValue.Add(value)
		totalProfit = totalProfit.Add(profit)
	}

	summary.TotalValue = totalValue.InexactFloat64()
	summary.TotalProfit = totalProfit.InexactFloat64()
	if !totalValue.IsZero() {
		summary.ProfitPercentage = totalProfit.Div(totalValue).Mul(decimal.NewFromInt(100)).Round(2).InexactFloat64()
	}
	return summary
}

// CoinIDs returns the distinct coin ids referenced by the assets.
func CoinIDs(assets []models.Asset) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, a := range assets {
		if a.CoinID == nil || *a.CoinID == "" || seen[*a.CoinID] {
			continue
		}
		seen[*a.CoinID] = true
		ids = append(ids, *a.CoinID)
	}
	return ids
}
