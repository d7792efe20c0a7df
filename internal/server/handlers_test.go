package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/vanshika/venmito/backend/internal/domain"
	"github.com/vanshika/venmito/backend/internal/store"
)

func strPtr(s string) *string { return &s }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func seededStore(t *testing.T) store.Store {
	t.Helper()

	c1 := 1
	st := store.NewMemoryStore()
	err := st.ReplaceDataset(context.Background(), domain.Dataset{
		People: []domain.Person{
			{ID: 1, Email: strPtr("ann@x.com"), Phone: strPtr("555-1"), FirstName: "Ann", Surname: "Lee",
				City: strPtr("Berlin"), Country: strPtr("Germany"), Android: true, IPhone: true},
			{ID: 2, Email: strPtr("bob@x.com"), FirstName: "Bob", Surname: "Ray",
				City: strPtr("Madrid"), Country: strPtr("Spain"), Desktop: true},
		},
		Promotions: []domain.Promotion{
			{ID: 1, ClientEmail: strPtr("ann@x.com"), Phone: strPtr("555-1"),
				Promotion: "SpringCashback", Responded: domain.ResponseYes},
			{ID: 2, ClientEmail: strPtr("bob@x.com"), Promotion: "ReferralBonus", Responded: domain.ResponseNo},
		},
		Transactions: []domain.TransactionLineItem{
			{TransactionID: 1001, CustomerID: &c1, Phone: "555-1", Store: "CentralPerk",
				ItemName: "Coffee 1lb", Quantity: 2, PricePerItem: 9.5, TotalPrice: 19},
			{TransactionID: 1002, Phone: "555-404", Store: "QuickStop",
				ItemName: "Notebook", Quantity: 1, PricePerItem: 3, TotalPrice: 3},
		},
		Transfers: []domain.Transfer{
			{TransferID: 1, SenderID: 1, RecipientID: 2, Amount: 25.5,
				Date: time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)},
		},
	})
	if err != nil {
		t.Fatalf("seeding store failed: %v", err)
	}
	return st
}

func TestHandlePeopleFilters(t *testing.T) {
	handlers := NewAPIHandlers(testLogger(), seededStore(t))

	req := httptest.NewRequest(http.MethodGet, "/people?device=android&device=iphone", nil)
	rec := httptest.NewRecorder()
	handlers.handlePeople(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var payload []personResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(payload) != 1 {
		t.Fatalf("expected 1 person, got %d", len(payload))
	}
	if payload[0].FirstName != "Ann" || !payload[0].Android || !payload[0].IPhone {
		t.Errorf("unexpected person payload: %+v", payload[0])
	}
}

func TestHandlePeopleRejectsNonGet(t *testing.T) {
	handlers := NewAPIHandlers(testLogger(), seededStore(t))

	req := httptest.NewRequest(http.MethodPost, "/people", nil)
	rec := httptest.NewRecorder()
	handlers.handlePeople(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected status 405, got %d", rec.Code)
	}
	if allow := rec.Header().Get("Allow"); allow != http.MethodGet {
		t.Errorf("expected Allow header GET, got %q", allow)
	}
}

func TestHandlePromotionsRespondedFilter(t *testing.T) {
	handlers := NewAPIHandlers(testLogger(), seededStore(t))

	req := httptest.NewRequest(http.MethodGet, "/promotions?responded=yes", nil)
	rec := httptest.NewRecorder()
	handlers.handlePromotions(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var payload []promotionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(payload) != 1 || payload[0].Promotion != "SpringCashback" {
		t.Fatalf("expected only the Yes promotion, got %+v", payload)
	}
	if payload[0].ClientEmail == nil || *payload[0].ClientEmail != "ann@x.com" {
		t.Errorf("expected client_email field, got %v", payload[0].ClientEmail)
	}
}

func TestHandleTransactionsNullCustomer(t *testing.T) {
	handlers := NewAPIHandlers(testLogger(), seededStore(t))

	req := httptest.NewRequest(http.MethodGet, "/transactions?transaction_id=1002", nil)
	rec := httptest.NewRecorder()
	handlers.handleTransactions(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var payload []transactionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(payload) != 1 {
		t.Fatalf("expected 1 line item, got %d", len(payload))
	}
	if payload[0].CustomerID != nil {
		t.Errorf("expected null customer_id, got %v", payload[0].CustomerID)
	}
}

func TestHandleTransfersDateWindow(t *testing.T) {
	handlers := NewAPIHandlers(testLogger(), seededStore(t))

	req := httptest.NewRequest(http.MethodGet, "/transfers?date_after=2024-02-01&date_before=2024-03-31", nil)
	rec := httptest.NewRecorder()
	handlers.handleTransfers(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var payload []transferResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(payload) != 1 || payload[0].Date != "2024-03-01" {
		t.Fatalf("expected the March transfer with a date-only string, got %+v", payload)
	}
}

func TestHandleSpendByCountry(t *testing.T) {
	handlers := NewAPIHandlers(testLogger(), seededStore(t))

	req := httptest.NewRequest(http.MethodGet, "/stats/spend-by-country", nil)
	rec := httptest.NewRecorder()
	handlers.handleSpendByCountry(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var payload []countrySpendResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(payload) != 1 || payload[0].Country != "Germany" || payload[0].TotalSpent != 19 {
		t.Fatalf("unexpected spend payload: %+v", payload)
	}
}

func TestRouterHealthz(t *testing.T) {
	router := NewRouter(testLogger(), RouterDependencies{
		Health: StoreHealthService{Store: seededStore(t)},
		API:    NewAPIHandlers(testLogger(), seededStore(t)),
	})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var payload map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload["status"] != "ok" {
		t.Errorf("expected ok status, got %v", payload["status"])
	}
}

func TestRouterCORSPreflight(t *testing.T) {
	router := NewRouter(testLogger(), RouterDependencies{
		API:            NewAPIHandlers(testLogger(), seededStore(t)),
		AllowedOrigins: []string{"https://app.venmito.io"},
	})

	req := httptest.NewRequest(http.MethodOptions, "/people", nil)
	req.Header.Set("Origin", "https://app.venmito.io")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://app.venmito.io" {
		t.Errorf("unexpected allow-origin header %q", got)
	}
}
