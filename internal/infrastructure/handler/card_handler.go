package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/amilagm/wex/internal/application/service"
	"github.com/amilagm/wex/internal/domain/entity"
	"github.com/amilagm/wex/internal/infrastructure/logger"
	"github.com/amilagm/wex/internal/infrastructure/middleware"
	"github.com/gorilla/mux"
)

const dateLayout = "2006-01-02"

// CardHandler handles HTTP requests for cards.
type CardHandler struct {
	service *service.CardService
	logger  logger.Logger
}

// NewCardHandler creates a new card handler.
func NewCardHandler(service *service.CardService, log logger.Logger) *CardHandler {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &CardHandler{service: service, logger: log}
}

// CreateCard handles the creation of a new card.
func (h *CardHandler) CreateCard(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var req CreateCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid request body", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
		sendErrorResponse(w, h.logger, "Invalid request body",
			"The request body could not be parsed as valid JSON", http.StatusBadRequest, requestID)
		return
	}

	card, err := h.service.Create(r.Context(), req.CardNumber, req.CreditLimit)
	if err != nil {
		sendDomainError(w, h.logger, err, requestID)
		return
	}

	h.logger.Info("Card created successfully", map[string]interface{}{
		"request_id": requestID,
		"card_id":    card.ID,
	})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(CardResponse{
		ID:             card.ID,
		CardNumber:     card.Number,
		CreditLimitUSD: card.CreditLimit.Amount,
	})
}

// GetBalance handles balance queries, optionally converted into another
// currency as of a given date.
func (h *CardHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	number := mux.Vars(r)["number"]

	currency := r.URL.Query().Get("currency")
	if currency == "" {
		currency = entity.BaseCurrency
	}

	asOf := time.Now().UTC().Truncate(24 * time.Hour)
	if raw := r.URL.Query().Get("as_of"); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			sendErrorResponse(w, h.logger, "Invalid date format",
				"The 'as_of' parameter must be in YYYY-MM-DD format", http.StatusBadRequest, requestID)
			return
		}
		asOf = parsed
	}

	balance, err := h.service.GetBalance(r.Context(), number, currency, asOf)
	if err != nil {
		sendDomainError(w, h.logger, err, requestID)
		return
	}

	resp := BalanceResponse{
		CardNumber:         number,
		CreditLimitUSD:     balance.CreditLimitUSD,
		TotalPurchasesUSD:  balance.TotalPurchasesUSD,
		AvailableUSD:       balance.AvailableUSD,
		Currency:           balance.Currency,
		AvailableConverted: balance.Available,
	}

	if balance.Rate != nil {
		resp.ExchangeRate = balance.Rate
		rateDate := balance.RateDate.Format(dateLayout)
		resp.RateDate = &rateDate
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// RegisterRoutes registers the card handler routes.
func (h *CardHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/cards", h.CreateCard).Methods("POST")
	router.HandleFunc("/cards/{number}/balance", h.GetBalance).Methods("GET")
}
