package generator

import (
	"encoding/csv"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// WriteSources serializes the dataset into the five raw source artifacts
// (people.json, people.yml, transactions.xml, promotions.csv, transfers.csv)
// under the provided directory, each in its native shape.
func (g *Generator) WriteSources(dataset Dataset, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	if err := g.writePeopleJSON(dataset.People, filepath.Join(dir, "people.json")); err != nil {
		return err
	}
	if err := g.writePeopleYAML(dataset.People, filepath.Join(dir, "people.yml")); err != nil {
		return err
	}
	if err := writeTransactionsXML(dataset.Transactions, filepath.Join(dir, "transactions.xml")); err != nil {
		return err
	}
	if err := writePromotionsCSV(dataset.Promotions, filepath.Join(dir, "promotions.csv")); err != nil {
		return err
	}
	return writeTransfersCSV(dataset.Transfers, filepath.Join(dir, "transfers.csv"))
}

// writePeopleJSON emits person source A: nested location object, list-valued
// devices, telephone/last_name spellings.
func (g *Generator) writePeopleJSON(people []PersonSeed, path string) error {
	docs := make([]map[string]any, 0, len(people))
	for _, p := range people {
		if !p.InJSON {
			continue
		}
		doc := map[string]any{
			"id":         strconv.Itoa(p.ID),
			"first_name": p.FirstName,
			"last_name":  p.Surname,
			"email":      p.Email,
			"telephone":  p.Phone,
			"devices":    p.Devices,
			"location": map[string]any{
				"City":    p.City,
				"Country": p.Country,
			},
		}
		if g.dropContact() {
			delete(doc, "email")
		}
		if g.dropContact() {
			delete(doc, "telephone")
		}
		docs = append(docs, doc)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(docs); err != nil {
		return fmt.Errorf("encode json for %s: %w", path, err)
	}
	return nil
}

// writePeopleYAML emits person source B: combined name, combined
// "City, Country" and the three device flags as 0/1.
func (g *Generator) writePeopleYAML(people []PersonSeed, path string) error {
	docs := make([]map[string]any, 0, len(people))
	for _, p := range people {
		if !p.InYAML {
			continue
		}
		doc := map[string]any{
			"id":      p.ID,
			"name":    p.FirstName + " " + p.Surname,
			"email":   p.Email,
			"phone":   p.Phone,
			"city":    p.City + ", " + p.Country,
			"Android": boolFlag(p.Devices, "Android"),
			"Iphone":  boolFlag(p.Devices, "Iphone"),
			"Desktop": boolFlag(p.Devices, "Desktop"),
		}
		if g.dropContact() {
			delete(doc, "email")
		}
		if g.dropContact() {
			delete(doc, "phone")
		}
		docs = append(docs, doc)
	}

	raw, err := yaml.Marshal(docs)
	if err != nil {
		return fmt.Errorf("encode yaml for %s: %w", path, err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

type xmlOutItem struct {
	Name         string  `xml:"item"`
	Quantity     int     `xml:"quantity"`
	PricePerItem float64 `xml:"price_per_item"`
	Price        float64 `xml:"price"`
}

type xmlOutTransaction struct {
	ID    int          `xml:"id,attr"`
	Phone string       `xml:"phone"`
	Store string       `xml:"store"`
	Items []xmlOutItem `xml:"items>item"`
}

type xmlOutList struct {
	XMLName      xml.Name            `xml:"transactions"`
	Transactions []xmlOutTransaction `xml:"transaction"`
}

func writeTransactionsXML(transactions []TransactionSeed, path string) error {
	out := xmlOutList{Transactions: make([]xmlOutTransaction, 0, len(transactions))}
	for _, tx := range transactions {
		node := xmlOutTransaction{
			ID:    tx.ID,
			Phone: tx.Phone,
			Store: tx.Store,
		}
		for _, item := range tx.Items {
			node.Items = append(node.Items, xmlOutItem{
				Name:         item.Name,
				Quantity:     item.Quantity,
				PricePerItem: item.PricePerItem,
				Price:        item.Price,
			})
		}
		out.Transactions = append(out.Transactions, node)
	}

	raw, err := xml.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("encode xml for %s: %w", path, err)
	}
	if err := os.WriteFile(path, append(raw, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func writePromotionsCSV(promotions []PromotionSeed, path string) error {
	rows := [][]string{{"id", "client_email", "telephone", "promotion", "responded"}}
	for _, promo := range promotions {
		rows = append(rows, []string{
			strconv.Itoa(promo.ID),
			promo.Email,
			promo.Phone,
			promo.Promotion,
			promo.Responded,
		})
	}
	return writeCSV(path, rows)
}

func writeTransfersCSV(transfers []TransferSeed, path string) error {
	rows := [][]string{{"sender_id", "recipient_id", "amount", "date"}}
	for _, transfer := range transfers {
		rows = append(rows, []string{
			strconv.Itoa(transfer.SenderID),
			strconv.Itoa(transfer.RecipientID),
			strconv.FormatFloat(transfer.Amount, 'f', 2, 64),
			transfer.Date,
		})
	}
	return writeCSV(path, rows)
}

func writeCSV(path string, rows [][]string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("write csv for %s: %w", path, err)
	}
	writer.Flush()
	return writer.Error()
}

func boolFlag(devices []string, name string) int {
	if hasDevice(devices, name) {
		return 1
	}
	return 0
}

func hasDevice(devices []string, name string) bool {
	for _, device := range devices {
		if device == name {
			return true
		}
	}
	return false
}
