package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/glodinasflexwork/flexwork-api/internal/i18n"
)

type LocaleHandler struct {
	bundle *i18n.Bundle
}

func NewLocaleHandler(bundle *i18n.Bundle) *LocaleHandler {
	return &LocaleHandler{bundle: bundle}
}

// List handles GET /locales.
func (h *LocaleHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"locales": h.bundle.Locales()})
}

// Get handles GET /locales/:code, serving the whole flat table for one
// locale so the frontend can cache it.
func (h *LocaleHandler) Get(c *gin.Context) {
	code := c.Param("code")
	table := h.bundle.Table(code)
	if table == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unsupported locale"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"locale": code, "messages": table})
}
