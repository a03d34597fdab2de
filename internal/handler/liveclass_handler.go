package handler

import (
	"net/http"

	"anara.com/bimbelpintar/internal/dto"
	"anara.com/bimbelpintar/internal/service"
	"anara.com/bimbelpintar/pkg/response"
	"anara.com/bimbelpintar/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type LiveClassHandler struct {
	service service.LiveClassService
}

func NewLiveClassHandler(svc service.LiveClassService) *LiveClassHandler {
	return &LiveClassHandler{service: svc}
}

func (h *LiveClassHandler) CreateLiveClass(c *gin.Context) {
	var input dto.CreateLiveClassInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	class, err := h.service.CreateLiveClass(c.Request.Context(), input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, class)
}

func (h *LiveClassHandler) DeleteLiveClass(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid live class id"})
		return
	}

	if err := h.service.DeleteLiveClass(c.Request.Context(), id); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "live class deleted"})
}

func (h *LiveClassHandler) GetUpcoming(c *gin.Context) {
	var pagination dto.Pagination
	if err := c.ShouldBindQuery(&pagination); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	classes, err := h.service.GetUpcoming(c.Request.Context(), pagination.Limit, pagination.Offset)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": classes})
}
