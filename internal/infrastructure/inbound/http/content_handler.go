package delivery_http

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	model "community-feed-service/internal/domain/models"
	content_service "community-feed-service/internal/domain/ports/input/content"
	distance_service "community-feed-service/internal/domain/ports/input/distance"
	ports "community-feed-service/internal/domain/ports/output"
)

type ContentHandler struct {
	content  content_service.Service
	distance distance_service.Service
	validate *validator.Validate
	log      ports.Logger
}

func NewContentHandler(content content_service.Service, distance distance_service.Service, validate *validator.Validate, log ports.Logger) *ContentHandler {
	return &ContentHandler{
		content:  content,
		distance: distance,
		validate: validate,
		log:      log,
	}
}

type CreateContentRequest struct {
	Body     string  `json:"body" validate:"required,max=5000"`
	ImageURL *string `json:"image_url" validate:"omitempty,url"`
	Location *string `json:"location" validate:"omitempty,max=500"`
}

type CommentRequest struct {
	Comment string `json:"comment" validate:"required,max=2000"`
}

func parseID(c *gin.Context, param string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil || id <= 0 {
		return 0, validationError(fmt.Errorf("%s must be a positive integer", param))
	}
	return id, nil
}

func (h *ContentHandler) bind(c *gin.Context, req any) error {
	if err := c.ShouldBindJSON(req); err != nil {
		return validationError(err)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationError(err)
	}
	return nil
}

func (h *ContentHandler) Create(kind model.ContentKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateContentRequest
		if err := h.bind(c, &req); err != nil {
			respondError(c, h.log, err)
			return
		}

		item, err := h.content.CreateItem(c.Request.Context(), &model.CreateContentDTO{
			Kind:     kind,
			UserID:   principalFrom(c).ID,
			Body:     req.Body,
			ImageURL: req.ImageURL,
			Location: req.Location,
		})
		if err != nil {
			respondError(c, h.log, err)
			return
		}
		c.JSON(http.StatusCreated, item)
	}
}

func (h *ContentHandler) Get(kind model.ContentKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseID(c, "id")
		if err != nil {
			respondError(c, h.log, err)
			return
		}
		item, err := h.content.GetFullItem(c.Request.Context(), kind, id)
		if err != nil {
			respondError(c, h.log, err)
			return
		}
		c.JSON(http.StatusOK, item)
	}
}

func (h *ContentHandler) Delete(kind model.ContentKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseID(c, "id")
		if err != nil {
			respondError(c, h.log, err)
			return
		}
		if err := h.content.DeleteItem(c.Request.Context(), kind, principalFrom(c).ID, id); err != nil {
			respondError(c, h.log, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func (h *ContentHandler) Like(kind model.ContentKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseID(c, "id")
		if err != nil {
			respondError(c, h.log, err)
			return
		}
		result, err := h.content.Like(c.Request.Context(), kind, principalFrom(c).ID, id)
		if err != nil {
			respondError(c, h.log, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func (h *ContentHandler) Unlike(kind model.ContentKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseID(c, "id")
		if err != nil {
			respondError(c, h.log, err)
			return
		}
		result, err := h.content.Unlike(c.Request.Context(), kind, principalFrom(c).ID, id)
		if err != nil {
			respondError(c, h.log, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func (h *ContentHandler) ListComments(kind model.ContentKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseID(c, "id")
		if err != nil {
			respondError(c, h.log, err)
			return
		}
		comments, err := h.content.GetComments(c.Request.Context(), kind, id)
		if err != nil {
			respondError(c, h.log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"comments": comments})
	}
}

func (h *ContentHandler) AddComment(kind model.ContentKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseID(c, "id")
		if err != nil {
			respondError(c, h.log, err)
			return
		}
		var req CommentRequest
		if err := h.bind(c, &req); err != nil {
			respondError(c, h.log, err)
			return
		}
		result, err := h.content.AddComment(c.Request.Context(), kind, principalFrom(c).ID, id, req.Comment)
		if err != nil {
			respondError(c, h.log, err)
			return
		}
		c.JSON(http.StatusCreated, result)
	}
}

func (h *ContentHandler) ListForUser(kind model.ContentKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := parseID(c, "id")
		if err != nil {
			respondError(c, h.log, err)
			return
		}
		batch, err := h.content.GetAllFullItemsForUser(c.Request.Context(), kind, userID)
		if err != nil {
			respondError(c, h.log, err)
			return
		}
		c.JSON(http.StatusOK, batch)
	}
}

func (h *ContentHandler) ListLiked(kind model.ContentKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		batch, err := h.content.GetLikedItems(c.Request.Context(), kind, principalFrom(c).ID)
		if err != nil {
			respondError(c, h.log, err)
			return
		}
		c.JSON(http.StatusOK, batch)
	}
}

// Distance reports how far the caller is from a located item.
func (h *ContentHandler) Distance(kind model.ContentKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseID(c, "id")
		if err != nil {
			respondError(c, h.log, err)
			return
		}

		var proximity *model.Proximity
		if kind == model.KindEvent {
			proximity, err = h.distance.GetEventDistance(c.Request.Context(), principalFrom(c).ID, id)
		} else {
			proximity, err = h.distance.GetUrgentPostDistance(c.Request.Context(), principalFrom(c).ID, id)
		}
		if err != nil {
			respondError(c, h.log, err)
			return
		}
		c.JSON(http.StatusOK, proximity)
	}
}
