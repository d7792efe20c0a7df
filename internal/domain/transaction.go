package domain

// TransactionLineItem is one purchased item within a transaction. A single
// transaction expands to one row per item; sibling rows share TransactionID,
// Phone and Store. CustomerID is nil when the phone matched no canonical
// person (the row is still kept).
type TransactionLineItem struct {
	TransactionID int
	CustomerID    *int
	Phone         string
	Store         string
	ItemName      string
	Quantity      int
	PricePerItem  float64
	TotalPrice    float64
}
