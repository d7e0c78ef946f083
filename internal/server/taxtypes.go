package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type CreateTaxTypeRequest struct {
	Name string `json:"name"`
}

func (s *Server) ListTaxTypes(c *gin.Context) {
	taxTypes, err := s.taxtypeSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tax_types": taxTypes})
}

func (s *Server) CreateTaxType(c *gin.Context) {
	var req CreateTaxTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	taxType, err := s.taxtypeSvc.Create(c.Request.Context(), req.Name)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, taxType)
}
