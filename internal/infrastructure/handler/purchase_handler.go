package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/amilagm/wex/internal/application/service"
	"github.com/amilagm/wex/internal/domain/apperr"
	"github.com/amilagm/wex/internal/domain/entity"
	"github.com/amilagm/wex/internal/infrastructure/logger"
	"github.com/amilagm/wex/internal/infrastructure/middleware"
	"github.com/gorilla/mux"
)

// PurchaseHandler handles HTTP requests for purchases.
type PurchaseHandler struct {
	service *service.PurchaseService
	logger  logger.Logger
}

// NewPurchaseHandler creates a new purchase handler.
func NewPurchaseHandler(service *service.PurchaseService, log logger.Logger) *PurchaseHandler {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &PurchaseHandler{service: service, logger: log}
}

// CreatePurchase handles recording a new purchase.
func (h *PurchaseHandler) CreatePurchase(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var req CreatePurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid request body", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
		sendErrorResponse(w, h.logger, "Invalid request body",
			"The request body could not be parsed as valid JSON", http.StatusBadRequest, requestID)
		return
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		sendErrorResponse(w, h.logger, "Invalid date format",
			"Date must be in YYYY-MM-DD format", http.StatusBadRequest, requestID)
		return
	}

	purchase, err := h.service.Add(r.Context(), req.CardNumber, req.Description, date, req.Amount)
	if err != nil {
		sendDomainError(w, h.logger, err, requestID)
		return
	}

	h.logger.Info("Purchase created successfully", map[string]interface{}{
		"request_id":  requestID,
		"purchase_id": purchase.ID,
	})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(PurchaseResponse{
		ID:          purchase.ID,
		CardID:      purchase.CardID,
		Description: purchase.Description,
		Date:        purchase.Date.Format(dateLayout),
		AmountUSD:   purchase.Amount.Amount,
	})
}

// GetPurchase handles retrieving a purchase converted into a currency.
func (h *PurchaseHandler) GetPurchase(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	id := mux.Vars(r)["id"]

	currency := r.URL.Query().Get("currency")
	if currency == "" {
		currency = entity.BaseCurrency
	}

	purchase, err := h.service.GetConverted(r.Context(), id, currency)
	if err != nil {
		sendDomainError(w, h.logger, err, requestID)
		return
	}

	resp := ConvertedPurchaseResponse{
		ID:              purchase.ID,
		Description:     purchase.Description,
		Date:            purchase.Date.Format(dateLayout),
		AmountUSD:       purchase.AmountUSD,
		Currency:        purchase.Currency,
		ExchangeRate:    purchase.Rate,
		RateDate:        purchase.RateDate.Format(dateLayout),
		ConvertedAmount: purchase.ConvertedAmount,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// RegisterRoutes registers the purchase handler routes.
func (h *PurchaseHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/purchases", h.CreatePurchase).Methods("POST")
	router.HandleFunc("/purchases/{id}", h.GetPurchase).Methods("GET")
}

// sendDomainError maps an error's kind to an HTTP status and writes the
// standard envelope.
func sendDomainError(w http.ResponseWriter, log logger.Logger, err error, requestID string) {
	var (
		status  int
		title   string
		message = err.Error()
	)

	switch apperr.KindOf(err) {
	case apperr.KindInvalidValue:
		status, title = http.StatusBadRequest, "Invalid value"
	case apperr.KindNotFound:
		status, title = http.StatusNotFound, "Not found"
	case apperr.KindConflict:
		status, title = http.StatusConflict, "Conflict"
	case apperr.KindConversionUnavailable:
		status, title = http.StatusServiceUnavailable, "Conversion unavailable"
	case apperr.KindInfrastructure:
		status, title = http.StatusInternalServerError, "Internal server error"
		message = "An unexpected error occurred. Please try again later."
		log.Error("Infrastructure error", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
	default:
		status, title = http.StatusInternalServerError, "Internal server error"
		message = "An unexpected error occurred. Please try again later."
		log.Error("Unexpected error", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
	}

	sendErrorResponse(w, log, title, message, status, requestID)
}

// sendErrorResponse sends a standardized error response.
func sendErrorResponse(w http.ResponseWriter, log logger.Logger, message, description string, statusCode int, requestID string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	log.Debug("Sending error response", map[string]interface{}{
		"request_id":  requestID,
		"status_code": statusCode,
		"message":     message,
	})

	json.NewEncoder(w).Encode(ErrorResponse{
		Error:       message,
		Status:      statusCode,
		Description: description,
		RequestID:   requestID,
	})
}
