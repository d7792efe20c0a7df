package server

import (
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/vanshika/venmito/backend/internal/domain"
	"github.com/vanshika/venmito/backend/internal/store"
)

// APIHandlers exposes the read-only query API over the reconciled dataset.
type APIHandlers struct {
	logger *slog.Logger
	store  store.Store
}

// NewAPIHandlers constructs an APIHandlers instance.
func NewAPIHandlers(logger *slog.Logger, st store.Store) *APIHandlers {
	return &APIHandlers{
		logger: logger,
		store:  st,
	}
}

type personResponse struct {
	ID        int     `json:"id"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
	FirstName string  `json:"firstName"`
	Surname   string  `json:"surname"`
	City      *string `json:"city"`
	Country   *string `json:"country"`
	Android   bool    `json:"Android"`
	IPhone    bool    `json:"iPhone"`
	Desktop   bool    `json:"Desktop"`
}

type promotionResponse struct {
	ID          int     `json:"id"`
	ClientEmail *string `json:"client_email"`
	Phone       *string `json:"phone"`
	Promotion   string  `json:"promotion"`
	Responded   string  `json:"responded"`
}

type transactionResponse struct {
	TransactionID int     `json:"transaction_id"`
	CustomerID    *int    `json:"customer_id"`
	Phone         string  `json:"phone"`
	Store         string  `json:"store"`
	ItemName      string  `json:"item_name"`
	Quantity      int     `json:"quantity"`
	PricePerItem  float64 `json:"price_per_item"`
	TotalPrice    float64 `json:"total_price"`
}

type transferResponse struct {
	TransferID  int     `json:"transfer_id"`
	SenderID    int     `json:"sender_id"`
	RecipientID int     `json:"recipient_id"`
	Amount      float64 `json:"amount"`
	Date        string  `json:"date"`
}

type countrySpendResponse struct {
	Country    string  `json:"country"`
	TotalSpent float64 `json:"total_spent"`
}

type promotionStatResponse struct {
	Promotion string `json:"promotion"`
	Yes       int    `json:"yes"`
	No        int    `json:"no"`
	Unknown   int    `json:"unknown"`
}

func (h *APIHandlers) handlePeople(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	query := r.URL.Query()
	filter := store.PersonFilter{
		FirstName: query.Get("first_name"),
		Surname:   query.Get("last_name"),
		City:      query.Get("city"),
		Country:   query.Get("country"),
		Devices:   query["device"],
	}

	people, err := h.store.ListPeople(r.Context(), filter)
	if err != nil {
		h.logger.Error("failed to list people", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list people")
		return
	}

	response := make([]personResponse, 0, len(people))
	for _, p := range people {
		response = append(response, personResponse{
			ID:        p.ID,
			Email:     p.Email,
			Phone:     p.Phone,
			FirstName: p.FirstName,
			Surname:   p.Surname,
			City:      p.City,
			Country:   p.Country,
			Android:   p.Android,
			IPhone:    p.IPhone,
			Desktop:   p.Desktop,
		})
	}
	respondJSON(w, http.StatusOK, response)
}

func (h *APIHandlers) handlePromotions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	query := r.URL.Query()
	filter := store.PromotionFilter{
		Promotion: query.Get("promotion"),
		Email:     query.Get("email"),
		Responded: parseResponses(query["responded"]),
	}

	promotions, err := h.store.ListPromotions(r.Context(), filter)
	if err != nil {
		h.logger.Error("failed to list promotions", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list promotions")
		return
	}

	response := make([]promotionResponse, 0, len(promotions))
	for _, promo := range promotions {
		response = append(response, promotionResponse{
			ID:          promo.ID,
			ClientEmail: promo.ClientEmail,
			Phone:       promo.Phone,
			Promotion:   promo.Promotion,
			Responded:   string(promo.Responded),
		})
	}
	respondJSON(w, http.StatusOK, response)
}

func (h *APIHandlers) handleTransactions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	query := r.URL.Query()
	filter := store.TransactionFilter{
		TransactionID: parseOptInt(query, "transaction_id"),
		CustomerID:    parseOptInt(query, "customer_id"),
		Store:         query.Get("store"),
		ItemName:      query.Get("item_name"),
	}

	items, err := h.store.ListTransactions(r.Context(), filter)
	if err != nil {
		h.logger.Error("failed to list transactions", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list transactions")
		return
	}

	response := make([]transactionResponse, 0, len(items))
	for _, item := range items {
		response = append(response, transactionResponse{
			TransactionID: item.TransactionID,
			CustomerID:    item.CustomerID,
			Phone:         item.Phone,
			Store:         item.Store,
			ItemName:      item.ItemName,
			Quantity:      item.Quantity,
			PricePerItem:  item.PricePerItem,
			TotalPrice:    item.TotalPrice,
		})
	}
	respondJSON(w, http.StatusOK, response)
}

func (h *APIHandlers) handleTransfers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	query := r.URL.Query()
	filter := store.TransferFilter{
		SenderID:    parseOptInt(query, "sender_id"),
		RecipientID: parseOptInt(query, "recipient_id"),
		DateAfter:   parseOptDate(query, "date_after"),
		DateBefore:  parseOptDate(query, "date_before"),
	}

	transfers, err := h.store.ListTransfers(r.Context(), filter)
	if err != nil {
		h.logger.Error("failed to list transfers", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list transfers")
		return
	}

	response := make([]transferResponse, 0, len(transfers))
	for _, transfer := range transfers {
		response = append(response, transferResponse{
			TransferID:  transfer.TransferID,
			SenderID:    transfer.SenderID,
			RecipientID: transfer.RecipientID,
			Amount:      transfer.Amount,
			Date:        transfer.Date.Format(time.DateOnly),
		})
	}
	respondJSON(w, http.StatusOK, response)
}

func (h *APIHandlers) handleSpendByCountry(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	totals, err := h.store.SpendByCountry(r.Context())
	if err != nil {
		h.logger.Error("failed to aggregate spend by country", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to aggregate spend by country")
		return
	}

	response := make([]countrySpendResponse, 0, len(totals))
	for _, entry := range totals {
		response = append(response, countrySpendResponse{
			Country:    entry.Country,
			TotalSpent: entry.TotalSpent,
		})
	}
	respondJSON(w, http.StatusOK, response)
}

func (h *APIHandlers) handlePromotionStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	stats, err := h.store.PromotionResponseStats(r.Context())
	if err != nil {
		h.logger.Error("failed to aggregate promotion stats", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to aggregate promotion stats")
		return
	}

	response := make([]promotionStatResponse, 0, len(stats))
	for _, stat := range stats {
		response = append(response, promotionStatResponse{
			Promotion: stat.Promotion,
			Yes:       stat.Yes,
			No:        stat.No,
			Unknown:   stat.Unknown,
		})
	}
	respondJSON(w, http.StatusOK, response)
}

func parseResponses(raw []string) []domain.Response {
	var responses []domain.Response
	for _, value := range raw {
		switch strings.ToLower(strings.TrimSpace(value)) {
		case "yes":
			responses = append(responses, domain.ResponseYes)
		case "no":
			responses = append(responses, domain.ResponseNo)
		case "unknown":
			responses = append(responses, domain.ResponseUnknown)
		}
	}
	return responses
}

func parseOptInt(query url.Values, key string) *int {
	raw := strings.TrimSpace(query.Get(key))
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &n
}

func parseOptDate(query url.Values, key string) *time.Time {
	raw := strings.TrimSpace(query.Get(key))
	if raw == "" {
		return nil
	}
	date, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return nil
	}
	return &date
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

func writeError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
