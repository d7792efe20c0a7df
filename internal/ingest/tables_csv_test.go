package ingest

import (
	"strings"
	"testing"
	"time"

	"github.com/vanshika/venmito/backend/internal/domain"
)

func TestReadPromotionsCSV(t *testing.T) {
	src := strings.Join([]string{
		"id,client_email,telephone,promotion,responded",
		"1,Ann.Lee@Example.com,,SpringCashback,Yes",
		"2,,555-0002,ReferralBonus,No",
		"3,bob@example.com,555-0003,HolidayDeal,",
		"not-a-number,x@example.com,,WelcomeOffer,Yes",
		"4,short-row",
	}, "\n")

	promotions, skipped, err := ReadPromotionsCSV(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ReadPromotionsCSV returned error: %v", err)
	}
	if skipped != 2 {
		t.Fatalf("expected 2 skipped rows, got %d", skipped)
	}
	if len(promotions) != 3 {
		t.Fatalf("expected 3 promotions, got %d", len(promotions))
	}

	first := promotions[0]
	if first.ID != 1 {
		t.Fatalf("expected id 1, got %d", first.ID)
	}
	if first.ClientEmail == nil || *first.ClientEmail != "ann.lee@example.com" {
		t.Errorf("expected normalized client email, got %v", first.ClientEmail)
	}
	if first.Phone != nil {
		t.Error("expected empty telephone cell to stay nil")
	}
	if first.Responded != domain.ResponseYes {
		t.Errorf("expected Yes response, got %q", first.Responded)
	}

	if promotions[1].ClientEmail != nil {
		t.Error("expected empty email cell to stay nil")
	}
	if promotions[1].Phone == nil || *promotions[1].Phone != "555-0002" {
		t.Errorf("expected telephone column mapped to phone, got %v", promotions[1].Phone)
	}

	if promotions[2].Responded != domain.ResponseUnknown {
		t.Errorf("expected missing responded to be Unknown, got %q", promotions[2].Responded)
	}
}

func TestReadTransfersCSV(t *testing.T) {
	src := strings.Join([]string{
		"sender_id,recipient_id,amount,date",
		"1,2,25.50,2024-03-01",
		"2,3,100.00,2024-03-02",
		"1,3,-5.00,2024-03-03",
		"4,5,10.00,03/04/2024",
	}, "\n")

	transfers, skipped, err := ReadTransfersCSV(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ReadTransfersCSV returned error: %v", err)
	}
	if skipped != 2 {
		t.Fatalf("expected 2 skipped rows, got %d", skipped)
	}
	if len(transfers) != 2 {
		t.Fatalf("expected 2 transfers, got %d", len(transfers))
	}

	first := transfers[0]
	if first.TransferID != 1 {
		t.Fatalf("expected ordinal transfer id 1, got %d", first.TransferID)
	}
	if first.SenderID != 1 || first.RecipientID != 2 {
		t.Errorf("unexpected participants: %+v", first)
	}
	if first.Amount != 25.5 {
		t.Errorf("expected amount 25.5, got %v", first.Amount)
	}
	want := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	if !first.Date.Equal(want) {
		t.Errorf("expected date %v, got %v", want, first.Date)
	}
}

func TestReadTransfersCSVExplicitID(t *testing.T) {
	src := strings.Join([]string{
		"id,sender_id,recipient_id,amount,date",
		"77,1,2,9.99,2024-06-15",
	}, "\n")

	transfers, _, err := ReadTransfersCSV(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ReadTransfersCSV returned error: %v", err)
	}
	if len(transfers) != 1 || transfers[0].TransferID != 77 {
		t.Fatalf("expected transfer id from column, got %+v", transfers)
	}
}

func TestReadCSVTableMissingHeader(t *testing.T) {
	if _, _, err := ReadPromotionsCSV(strings.NewReader("")); err == nil {
		t.Fatal("expected error for empty source")
	}
}
