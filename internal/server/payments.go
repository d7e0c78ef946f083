package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	paymentdomain "github.com/civistack/revena/internal/payment/domain"
)

type CreatePaymentRequest struct {
	Amount    int64  `json:"amount"`
	Method    string `json:"method"`
	TaxTypeID string `json:"tax_type_id"`
}

func (s *Server) CreatePayment(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	profile, err := s.taxpayerSvc.GetByUser(c.Request.Context(), user.ID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	create := paymentdomain.CreateRequest{
		ProfileID: profile.ID,
		Amount:    req.Amount,
		Method:    paymentdomain.Method(strings.TrimSpace(req.Method)),
	}
	if raw := strings.TrimSpace(req.TaxTypeID); raw != "" {
		taxTypeID, err := parseID(raw)
		if err != nil {
			AbortWithError(c, newValidationError("tax_type_id", "invalid_tax_type", "unknown tax type"))
			return
		}
		if _, err := s.taxtypeSvc.GetByID(c.Request.Context(), taxTypeID); err != nil {
			AbortWithError(c, newValidationError("tax_type_id", "invalid_tax_type", "unknown tax type"))
			return
		}
		create.TaxTypeID = &taxTypeID
	}

	request, err := s.paymentSvc.Create(c.Request.Context(), create)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, request)
}

func (s *Server) ListPayments(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	profile, err := s.taxpayerSvc.GetByUser(c.Request.Context(), user.ID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	limit := 50
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 200 {
			AbortWithError(c, newValidationError("limit", "invalid_limit", "limit must be between 1 and 200"))
			return
		}
		limit = parsed
	}

	requests, err := s.paymentSvc.List(c.Request.Context(), paymentdomain.ListRequest{
		ProfileID: profile.ID,
		Status:    paymentdomain.Status(strings.TrimSpace(c.Query("status"))),
		Limit:     limit,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"payments": requests})
}

func (s *Server) CancelPayment(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	profile, err := s.taxpayerSvc.GetByUser(c.Request.Context(), user.ID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	requestID, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	request, err := s.paymentSvc.Cancel(c.Request.Context(), requestID, profile.ID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, request)
}

// HandlePaymentWebhook ingests provider notifications. Re-delivered
// notifications settle at most once, so providers may retry freely.
func (s *Server) HandlePaymentWebhook(c *gin.Context) {
	provider := strings.TrimSpace(c.Param("provider"))
	if provider == "" {
		AbortWithError(c, ErrNotFound)
		return
	}

	payload, err := c.GetRawData()
	if err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	if err := s.paymentSvc.IngestWebhook(c.Request.Context(), provider, payload); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
