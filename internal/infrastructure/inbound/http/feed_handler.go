package delivery_http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	model "community-feed-service/internal/domain/models"
	feed_service "community-feed-service/internal/domain/ports/input/feed"
	ports "community-feed-service/internal/domain/ports/output"
)

type FeedHandler struct {
	feed     feed_service.Service
	validate *validator.Validate
	log      ports.Logger
}

func NewFeedHandler(feed feed_service.Service, validate *validator.Validate, log ports.Logger) *FeedHandler {
	return &FeedHandler{feed: feed, validate: validate, log: log}
}

func (h *FeedHandler) Global(c *gin.Context) {
	var page model.Page
	if err := c.ShouldBindQuery(&page); err != nil {
		respondError(c, h.log, validationError(err))
		return
	}
	if err := h.validate.Struct(page); err != nil {
		respondError(c, h.log, validationError(err))
		return
	}

	feed, err := h.feed.GetAllFeedItems(c.Request.Context(), page)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, feed)
}

func (h *FeedHandler) Following(c *gin.Context) {
	feed, err := h.feed.GetFollowingFeed(c.Request.Context(), principalFrom(c).ID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, feed)
}

func (h *FeedHandler) UserContent(c *gin.Context) {
	userID, err := parseID(c, "id")
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	content, err := h.feed.GetUserContent(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, content)
}
