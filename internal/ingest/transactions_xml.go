package ingest

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/vanshika/venmito/backend/internal/domain"
)

type xmlTransactionList struct {
	XMLName      xml.Name         `xml:"transactions"`
	Transactions []xmlTransaction `xml:"transaction"`
}

type xmlTransaction struct {
	ID    string    `xml:"id,attr"`
	Phone string    `xml:"phone"`
	Store string    `xml:"store"`
	Items []xmlItem `xml:"items>item"`
}

// xmlItem uses a nested "item" element for the item name, matching the
// source's markup shape.
type xmlItem struct {
	Name         string `xml:"item"`
	Quantity     string `xml:"quantity"`
	PricePerItem string `xml:"price_per_item"`
	Price        string `xml:"price"`
}

// ReadTransactionsXML parses the hierarchical transaction source. Every
// top-level transaction node expands into one line item per nested item node;
// each line item inherits the parent's transaction id, phone and store.
// CustomerID stays nil until cross-reference resolution. Returns the rows
// plus the number of malformed rows skipped.
func ReadTransactionsXML(r io.Reader) ([]domain.TransactionLineItem, int, error) {
	var doc xmlTransactionList
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, 0, fmt.Errorf("parse transaction source: %w", err)
	}

	var items []domain.TransactionLineItem
	skipped := 0
	for _, tx := range doc.Transactions {
		txID, err := strconv.Atoi(strings.TrimSpace(tx.ID))
		if err != nil {
			// The whole node is unusable without an id; every nested
			// item counts as a lost row.
			skipped += len(tx.Items)
			continue
		}
		phone := strings.TrimSpace(tx.Phone)
		store := strings.TrimSpace(tx.Store)

		for _, item := range tx.Items {
			row, err := lineItemFromXML(txID, phone, store, item)
			if err != nil {
				skipped++
				continue
			}
			items = append(items, row)
		}
	}
	return items, skipped, nil
}

func lineItemFromXML(txID int, phone, store string, item xmlItem) (domain.TransactionLineItem, error) {
	quantity, err := strconv.Atoi(strings.TrimSpace(item.Quantity))
	if err != nil {
		return domain.TransactionLineItem{}, fmt.Errorf("quantity: %w", err)
	}
	if quantity <= 0 {
		return domain.TransactionLineItem{}, fmt.Errorf("quantity %d is not positive", quantity)
	}
	pricePerItem, err := strconv.ParseFloat(strings.TrimSpace(item.PricePerItem), 64)
	if err != nil {
		return domain.TransactionLineItem{}, fmt.Errorf("price_per_item: %w", err)
	}
	total, err := strconv.ParseFloat(strings.TrimSpace(item.Price), 64)
	if err != nil {
		return domain.TransactionLineItem{}, fmt.Errorf("price: %w", err)
	}

	return domain.TransactionLineItem{
		TransactionID: txID,
		Phone:         phone,
		Store:         store,
		ItemName:      strings.TrimSpace(item.Name),
		Quantity:      quantity,
		PricePerItem:  pricePerItem,
		TotalPrice:    total,
	}, nil
}
