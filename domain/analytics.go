package domain

// ProductQuantity pairs a product with a unit count
type ProductQuantity struct {
	Name     string `json:"name" example:"Espresso"`
	Quantity int64  `json:"quantity" example:"12"`
}

// ProductRevenue pairs a product with the revenue it brought in
type ProductRevenue struct {
	Name    string  `json:"name" example:"Espresso"`
	Revenue float64 `json:"revenue" example:"42.5"`
}

// AnalyticsSummary is derived from the full order history at one instant.
// It is recomputed on every change and never stored.
type AnalyticsSummary struct {
	TotalRevenue            float64           `json:"totalRevenue" example:"90"`
	TopSellingProducts      []ProductQuantity `json:"topSellingProducts"`
	RecentOrders            int               `json:"recentOrders" example:"2"`
	HighRevenueProducts     []ProductRevenue  `json:"highRevenueProducts"`
	UnderperformingProducts []ProductQuantity `json:"underperformingProducts"`
}

// ZeroSummary is the summary of an empty order history
func ZeroSummary() AnalyticsSummary {
	return AnalyticsSummary{
		TopSellingProducts:      []ProductQuantity{},
		HighRevenueProducts:     []ProductRevenue{},
		UnderperformingProducts: []ProductQuantity{},
	}
}
