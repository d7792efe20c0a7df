package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/vanshika/venmito/backend/internal/domain"
)

const transferDateLayout = "2006-01-02"

// readCSVTable reads a flat table into RawRecords keyed by folded column
// names. Rows whose field count disagrees with the header are skipped and
// counted rather than failing the source.
func readCSVTable(r io.Reader) ([]RawRecord, int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("read table header: %w", err)
	}
	var rows []RawRecord
	skipped := 0
	for {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			skipped++
			continue
		}
		if len(fields) != len(header) {
			skipped++
			continue
		}
		rec := make(RawRecord, len(header))
		for i, value := range fields {
			if value == "" {
				continue // empty cells stay absent, not ""
			}
			rec.Set(header[i], value)
		}
		rows = append(rows, rec)
	}
	return rows, skipped, nil
}

// ReadPromotionsCSV parses the flat promotion source. The contact key is
// email-preferred with phone as fallback; either may be absent here and is
// back-filled later during cross-reference resolution.
func ReadPromotionsCSV(r io.Reader) ([]domain.Promotion, int, error) {
	rows, skipped, err := readCSVTable(r)
	if err != nil {
		return nil, 0, fmt.Errorf("parse promotion source: %w", err)
	}

	promotions := make([]domain.Promotion, 0, len(rows))
	for _, rec := range rows {
		id, err := rec.Int("id")
		if err != nil {
			skipped++
			continue
		}
		name, ok := rec.String("promotion")
		if !ok {
			skipped++
			continue
		}
		responded := domain.ResponseUnknown
		if raw, ok := rec.String("responded"); ok {
			responded = domain.ParseResponse(raw)
		}
		promotions = append(promotions, domain.Promotion{
			ID:          id,
			ClientEmail: normalizeOptEmail(rec.optString("clientemail")),
			Phone:       rec.optString("phone"),
			Promotion:   name,
			Responded:   responded,
		})
	}
	return promotions, skipped, nil
}

// ReadTransfersCSV parses the flat transfer source. Sender and recipient are
// already canonical-identifier-shaped; no contact-key resolution is needed
// downstream, only an existence check. Sources without a transfer id column
// get ordinal ids assigned in row order.
func ReadTransfersCSV(r io.Reader) ([]domain.Transfer, int, error) {
	rows, skipped, err := readCSVTable(r)
	if err != nil {
		return nil, 0, fmt.Errorf("parse transfer source: %w", err)
	}

	transfers := make([]domain.Transfer, 0, len(rows))
	for i, rec := range rows {
		senderID, err := rec.Int("senderid")
		if err != nil {
			skipped++
			continue
		}
		recipientID, err := rec.Int("recipientid")
		if err != nil {
			skipped++
			continue
		}
		amount, err := rec.Float("amount")
		if err != nil || amount <= 0 {
			skipped++
			continue
		}
		rawDate, ok := rec.String("date")
		if !ok {
			skipped++
			continue
		}
		date, err := time.Parse(transferDateLayout, rawDate)
		if err != nil {
			skipped++
			continue
		}

		transferID := i + 1
		if id, err := rec.Int("transferid"); err == nil {
			transferID = id
		} else if id, err := rec.Int("id"); err == nil {
			transferID = id
		}

		transfers = append(transfers, domain.Transfer{
			TransferID:  transferID,
			SenderID:    senderID,
			RecipientID: recipientID,
			Amount:      amount,
			Date:        date,
		})
	}
	return transfers, skipped, nil
}
