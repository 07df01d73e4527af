package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mistfall/emberhold/catalog"
)

// ContentHandler serves the static content tables so clients can
// render names, costs, and descriptions without hardcoding them.
type ContentHandler struct {
	cat *catalog.Catalog
}

func NewContentHandler(cat *catalog.Catalog) *ContentHandler {
	return &ContentHandler{cat: cat}
}

// Tables returns the complete content set.
// GET /api/content
func (h *ContentHandler) Tables(c *gin.Context) {
	c.JSON(http.StatusOK, h.cat.Tables())
}
