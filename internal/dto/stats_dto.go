package dto

import "github.com/shopspring/decimal"

// ProductSalesEntry ranks a product by units sold.
type ProductSalesEntry struct {
	Product string          `json:"product"`
	QtySold decimal.Decimal `json:"qty_sold"`
	Revenue decimal.Decimal `json:"revenue"`
}

// ProductProfitEntry ranks a product by profit. Cost uses the inventory cost
// at query time, not the order-time cost.
type ProductProfitEntry struct {
	Product      string          `json:"product"`
	Revenue      decimal.Decimal `json:"revenue"`
	Cost         decimal.Decimal `json:"cost"`
	Profit       decimal.Decimal `json:"profit"`
	ProfitMargin decimal.Decimal `json:"profit_margin"`
}

// ProductStockEntry ranks a product by remaining stock / waste percentage.
type ProductStockEntry struct {
	Product          string          `json:"product"`
	InitialQty       decimal.Decimal `json:"initial_qty"`
	CurrentQty       decimal.Decimal `json:"current_qty"`
	Sold             decimal.Decimal `json:"sold"`
	Remaining        decimal.Decimal `json:"remaining"`
	WastedPercentage decimal.Decimal `json:"wasted_percentage"`
}

type EventStatsSummary struct {
	TotalOrders     int                     `json:"total_orders"`
	CompletedOrders int                     `json:"completed_orders"`
	CancelledOrders int                     `json:"cancelled_orders"`
	TotalRevenue    decimal.Decimal         `json:"total_revenue"`
	TotalRefunds    decimal.Decimal         `json:"total_refunds"`
	NetRevenue      decimal.Decimal         `json:"net_revenue"`
	SalesByMethod   map[string]MethodBucket `json:"sales_by_method"`
	TotalInvestment decimal.Decimal         `json:"total_investment"`
	TotalProducts   int                     `json:"total_products"`
	TotalSupplies   int                     `json:"total_supplies"`
}

type EventStatsProducts struct {
	TopSelling      []ProductSalesEntry  `json:"top_selling"`
	LeastSelling    []ProductSalesEntry  `json:"least_selling"`
	TopProfitable   []ProductProfitEntry `json:"top_profitable"`
	LeastProfitable []ProductProfitEntry `json:"least_profitable"`
	TopRemaining    []ProductStockEntry  `json:"top_remaining"`
	LeastRemaining  []ProductStockEntry  `json:"least_remaining"`
	MostWasted      []ProductStockEntry  `json:"most_wasted"`
}

type EventStatsResponse struct {
	Event    EventResponse      `json:"event"`
	Summary  EventStatsSummary  `json:"summary"`
	Products EventStatsProducts `json:"products"`
}
