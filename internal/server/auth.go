package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	authdomain "github.com/civistack/revena/internal/auth/domain"
	registrationdomain "github.com/civistack/revena/internal/registration/domain"
	taxpayerdomain "github.com/civistack/revena/internal/taxpayer/domain"
)

// RegisterRequest is the public signup payload. There is deliberately no role
// field; anything beyond these keys is ignored.
type RegisterRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	Declaration     bool   `json:"declaration"`

	FirstName        string `json:"first_name"`
	MiddleName       string `json:"middle_name"`
	LastName         string `json:"last_name"`
	Gender           string `json:"gender"`
	DateOfBirth      string `json:"date_of_birth"`
	MobilePhone      string `json:"mobile_phone"`
	NationalID       string `json:"national_id"`
	TINNumber        string `json:"tin_number"`
	PassportNumber   string `json:"passport_number"`
	Ward             string `json:"ward"`
	StreetVillage    string `json:"street_village"`
	HouseNumber      string `json:"house_number"`
	TaxpayerType     string `json:"taxpayer_type"`
	PropertyType     string `json:"property_type"`
	PropertyLocation string `json:"property_location"`
	BusinessName     string `json:"business_name"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	var dob *time.Time
	if raw := strings.TrimSpace(req.DateOfBirth); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			AbortWithError(c, newValidationError("date_of_birth", "invalid_date", "expected YYYY-MM-DD"))
			return
		}
		dob = &parsed
	}

	result, err := s.registrationSvc.Register(c.Request.Context(), registrationdomain.Request{
		Email:            req.Email,
		Password:         req.Password,
		ConfirmPassword:  req.ConfirmPassword,
		Declaration:      req.Declaration,
		FirstName:        req.FirstName,
		MiddleName:       req.MiddleName,
		LastName:         req.LastName,
		Gender:           req.Gender,
		DateOfBirth:      dob,
		MobilePhone:      req.MobilePhone,
		NationalID:       req.NationalID,
		TINNumber:        req.TINNumber,
		PassportNumber:   req.PassportNumber,
		Ward:             req.Ward,
		StreetVillage:    req.StreetVillage,
		HouseNumber:      req.HouseNumber,
		TaxpayerType:     taxpayerdomain.TaxpayerType(strings.TrimSpace(req.TaxpayerType)),
		PropertyType:     taxpayerdomain.PropertyType(strings.TrimSpace(req.PropertyType)),
		PropertyLocation: req.PropertyLocation,
		BusinessName:     req.BusinessName,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user":    result.User,
		"profile": result.Profile,
		"ledger":  result.Ledger,
	})
}

func (s *Server) Login(c *gin.Context) {
	if !s.loginLimiter.Allow(c.ClientIP()) {
		AbortWithError(c, ErrTooManyLogins)
		return
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	email := strings.TrimSpace(req.Email)
	result, err := s.authsvc.Login(c.Request.Context(), authdomain.LoginRequest{
		Email:    email,
		Password: req.Password,
	})
	if err != nil {
		if s.auditSvc != nil {
			_ = s.auditSvc.Record(c.Request.Context(), nil, nil, "user.login_failed", "user", nil, map[string]any{
				"email": email,
			})
		}
		AbortWithError(c, err)
		return
	}

	s.setSessionCookie(c, result.RawToken)

	if s.auditSvc != nil {
		userID := result.User.ID.String()
		_ = s.auditSvc.Record(c.Request.Context(), nil, &result.User.ID, "user.login", "user", &userID, map[string]any{
			"email": email,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"user":       result.User,
		"expires_at": result.Session.ExpiresAt,
	})
}

func (s *Server) Logout(c *gin.Context) {
	token, err := c.Cookie(sessionCookieName)
	if err == nil && strings.TrimSpace(token) != "" {
		if err := s.authsvc.Logout(c.Request.Context(), token); err != nil {
			AbortWithError(c, err)
			return
		}
	}

	s.clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) Me(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	profile, err := s.taxpayerSvc.GetByUser(c.Request.Context(), user.ID)
	if err != nil && user.Role != authdomain.RoleAdministrator {
		AbortWithError(c, err)
		return
	}

	resp := gin.H{"user": user}
	if profile != nil {
		resp["profile"] = profile
	}
	c.JSON(http.StatusOK, resp)
}
