package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	auditdomain "github.com/civistack/revena/internal/audit/domain"
	ledgerdomain "github.com/civistack/revena/internal/ledger/domain"
	paymentdomain "github.com/civistack/revena/internal/payment/domain"
	taxpayerdomain "github.com/civistack/revena/internal/taxpayer/domain"
)

type SettlePaymentRequest struct {
	ProviderReference string `json:"provider_reference"`
}

type AdjustLedgerRequest struct {
	TotalDue       int64  `json:"total_due"`
	NextPaymentDue string `json:"next_payment_due"`
}

func (s *Server) SettlePayment(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	requestID, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req SettlePaymentRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			AbortWithError(c, invalidRequestError())
			return
		}
	}

	result, err := s.paymentSvc.Settle(c.Request.Context(), paymentdomain.SettleRequest{
		RequestID:         requestID,
		ProviderReference: strings.TrimSpace(req.ProviderReference),
		ActorID:           user.ID,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"request":         result.Request,
		"ledger":          result.Ledger,
		"already_settled": result.AlreadySettled,
	})
}

func (s *Server) FailPayment(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	requestID, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	request, err := s.paymentSvc.MarkFailed(c.Request.Context(), requestID, user.ID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, request)
}

func (s *Server) AdminMetrics(c *gin.Context) {
	metrics, err := s.reportingSvc.AdminMetrics(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, metrics)
}

func (s *Server) UnpaidAccounts(c *gin.Context) {
	accounts, err := s.reportingSvc.UnpaidAccounts(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"accounts": accounts})
}

func (s *Server) ListUsers(c *gin.Context) {
	limit, offset, err := pageParams(c, 50)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	users, err := s.authsvc.ListUsers(c.Request.Context(), limit, offset)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users})
}

func (s *Server) ListTaxpayers(c *gin.Context) {
	limit, offset, err := pageParams(c, 50)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	profiles, err := s.taxpayerSvc.List(c.Request.Context(), taxpayerdomain.ListProfilesRequest{
		TaxpayerType: taxpayerdomain.TaxpayerType(strings.TrimSpace(c.Query("taxpayer_type"))),
		Limit:        limit,
		Offset:       offset,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"taxpayers": profiles})
}

func (s *Server) AdjustLedger(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	profileID, err := parseID(c.Param("profile_id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req AdjustLedgerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	var due *time.Time
	if raw := strings.TrimSpace(req.NextPaymentDue); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			AbortWithError(c, newValidationError("next_payment_due", "invalid_date", "expected YYYY-MM-DD"))
			return
		}
		due = &parsed
	}

	ledger, err := s.ledgerSvc.Adjust(c.Request.Context(), ledgerdomain.AdjustLedgerRequest{
		ProfileID:      profileID,
		TotalDue:       req.TotalDue,
		NextPaymentDue: due,
		ActorID:        user.ID,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, ledger)
}

func (s *Server) ListAuditLogs(c *gin.Context) {
	limit, _, err := pageParams(c, 100)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	entries, err := s.auditSvc.List(c.Request.Context(), auditdomain.ListRequest{
		Action: strings.TrimSpace(c.Query("action")),
		Limit:  limit,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"audit_logs": entries})
}

func pageParams(c *gin.Context, defaultLimit int) (limit, offset int, err error) {
	limit = defaultLimit
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		parsed, convErr := strconv.Atoi(raw)
		if convErr != nil || parsed < 1 || parsed > 200 {
			return 0, 0, newValidationError("limit", "invalid_limit", "limit must be between 1 and 200")
		}
		limit = parsed
	}
	if raw := strings.TrimSpace(c.Query("offset")); raw != "" {
		parsed, convErr := strconv.Atoi(raw)
		if convErr != nil || parsed < 0 {
			return 0, 0, newValidationError("offset", "invalid_offset", "offset must not be negative")
		}
		offset = parsed
	}
	return limit, offset, nil
}
