package handler

import (
	"net/http"
	"strconv"
	"time"

	"anara.com/bimbelpintar/internal/dto"
	"anara.com/bimbelpintar/internal/service"
	"anara.com/bimbelpintar/pkg/apperror"
	"anara.com/bimbelpintar/pkg/response"
	"anara.com/bimbelpintar/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type RewardsHandler struct {
	service         service.RewardsService
	redisClient     *redis.Client
	rateLimitRedeem time.Duration
}

func NewRewardsHandler(svc service.RewardsService, redisClient *redis.Client, rateLimitRedeem time.Duration) *RewardsHandler {
	return &RewardsHandler{
		service:         svc,
		redisClient:     redisClient,
		rateLimitRedeem: rateLimitRedeem,
	}
}

// Interact returns a handler for POST /content/:content_id/{watch,like,dislike}.
// The interaction kind is fixed per route.
func (h *RewardsHandler) Interact(kind string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := response.GetUserID(c)
		if err != nil {
			response.ResponseError(c, err)
			return
		}

		contentID, err := uuid.Parse(c.Param("content_id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid content id"})
			return
		}

		res, err := h.service.Interact(c.Request.Context(), userID, contentID, kind)
		if err != nil {
			response.ResponseError(c, err)
			return
		}

		c.JSON(http.StatusOK, res)
	}
}

func (h *RewardsHandler) Follow(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	res, err := h.service.Follow(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *RewardsHandler) Redeem(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var input dto.RedeemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	allowed, err := service.CheckAndSetRateLimit(c.Request.Context(), h.redisClient, userID, "redeem", h.rateLimitRedeem)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	if !allowed {
		if ttl, ttlErr := service.GetRateLimitTTL(c.Request.Context(), h.redisClient, userID, "redeem"); ttlErr == nil && ttl > 0 {
			c.Header("Retry-After", strconv.Itoa(int(ttl.Seconds())))
		}
		response.ResponseError(c, apperror.ErrRateLimitExceeded)
		return
	}

	res, err := h.service.Redeem(c.Request.Context(), userID, input.PayoutDestination)
	if err != nil {
		// A failed redeem should not burn the rate limit slot.
		_ = service.ClearRateLimit(c.Request.Context(), h.redisClient, userID, "redeem")
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *RewardsHandler) GetBalance(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	res, err := h.service.GetBalance(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *RewardsHandler) GetPointLogs(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var pagination dto.Pagination
	if err := c.ShouldBindQuery(&pagination); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	logs, err := h.service.GetPointLogs(c.Request.Context(), userID, pagination.Limit, pagination.Offset)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": logs})
}
