package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	taxpayerdomain "github.com/civistack/revena/internal/taxpayer/domain"
)

// UpdateProfileRequest carries the self-service mutable fields. Identity
// attributes are fixed after registration and absent on purpose.
type UpdateProfileRequest struct {
	MobilePhone      *string `json:"mobile_phone"`
	Ward             *string `json:"ward"`
	StreetVillage    *string `json:"street_village"`
	HouseNumber      *string `json:"house_number"`
	PropertyType     *string `json:"property_type"`
	PropertyLocation *string `json:"property_location"`
	BusinessName     *string `json:"business_name"`
}

func (s *Server) GetProfile(c *gin.Context) {
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

	c.JSON(http.StatusOK, profile)
}

func (s *Server) UpdateProfile(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	update := taxpayerdomain.UpdateProfileRequest{
		UserID:           user.ID,
		MobilePhone:      req.MobilePhone,
		Ward:             req.Ward,
		StreetVillage:    req.StreetVillage,
		HouseNumber:      req.HouseNumber,
		PropertyLocation: req.PropertyLocation,
		BusinessName:     req.BusinessName,
	}
	if req.PropertyType != nil {
		pt := taxpayerdomain.PropertyType(*req.PropertyType)
		update.PropertyType = &pt
	}

	profile, err := s.taxpayerSvc.Update(c.Request.Context(), update)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (s *Server) DashboardSummary(c *gin.Context) {
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

	summary, err := s.reportingSvc.DashboardSummary(c.Request.Context(), profile.ID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}
