package ask

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/liliang-cn/azrag/internal/domain"
)

// Asker answers a question from indexed documents
type Asker interface {
	Ask(ctx context.Context, question string) (*domain.Turn, error)
}

// Handler handles question answering requests
type Handler struct {
	asker Asker
}

// NewHandler creates a new ask handler
func NewHandler(asker Asker) *Handler {
	return &Handler{asker: asker}
}

// RegisterRoutes registers ask routes
func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.POST("/ask", h.Ask)
}

// Ask answers the question in the request body. Any failure along the
// retrieval or generation path is reported as a 500 with its message.
func (h *Handler) Ask(c *gin.Context) {
	var req domain.AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, domain.ErrorResponse{Detail: err.Error()})
		return
	}
	if req.Text == nil {
		c.JSON(http.StatusUnprocessableEntity, domain.ErrorResponse{Detail: "field required: text"})
		return
	}

	turn, err := h.asker.Ask(c.Request.Context(), *req.Text)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, domain.ErrorResponse{Detail: err.Error()})
		return
	}

	c.JSON(http.StatusOK, domain.AskResponse{Answer: turn.Answer})
}
