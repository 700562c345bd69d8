package controller

import (
	"net/http"
	"time"

	"github.com/api-sage/multicurrency-ledger/internal/adapter/http/models"
	"github.com/api-sage/multicurrency-ledger/internal/commons"
	"github.com/api-sage/multicurrency-ledger/internal/logger"
	"github.com/api-sage/multicurrency-ledger/internal/usecase/service_interfaces"
)

type RateController struct {
	service service_interfaces.RateService
}

func NewRateController(service service_interfaces.RateService) *RateController {
	return &RateController{service: service}
}

func (c *RateController) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	rates := http.HandlerFunc(c.getRates)
	conversion := http.HandlerFunc(c.getConversion)
	if authMiddleware != nil {
		rates = authMiddleware(rates).ServeHTTP
		conversion = authMiddleware(conversion).ServeHTTP
	}

	mux.Handle("/rates", http.HandlerFunc(rates))
	mux.Handle("/rates/conversion", http.HandlerFunc(conversion))
}

func (c *RateController) getRates(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if r.Method != http.MethodGet {
		response := commons.ErrorResponse[[]models.RateResponse]("method not allowed")
		writeJSON(w, http.StatusMethodNotAllowed, response)
		logResponse(r, http.StatusMethodNotAllowed, response, start)
		return
	}

	response, err := c.service.GetRates(r.Context())
	if err != nil {
		status := statusForError(err)
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

func (c *RateController) getConversion(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if r.Method != http.MethodGet {
		response := commons.ErrorResponse[models.ConversionResponse]("method not allowed")
		writeJSON(w, http.StatusMethodNotAllowed, response)
		logResponse(r, http.StatusMethodNotAllowed, response, start)
		return
	}

	req := models.GetConversionRequest{
		FromCurrency: r.URL.Query().Get("from"),
		ToCurrency:   r.URL.Query().Get("to"),
	}

	response, err := c.service.GetConversion(r.Context(), req)
	if err != nil {
		status := statusForError(err)
		logError(r, err, logger.Fields{"message": response.Message})
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}
