package dto

// RecentActivityResponse is the dashboard feed.
type RecentActivityResponse struct {
	Purchases []PurchaseResponse `json:"purchases"`
	Sales     []SaleResponse     `json:"sales"`
	LowStock  []ProductResponse  `json:"lowStock"`
}
