package delivery_http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	model "community-feed-service/internal/domain/models"
	distance_service "community-feed-service/internal/domain/ports/input/distance"
	social_service "community-feed-service/internal/domain/ports/input/social"
	ports "community-feed-service/internal/domain/ports/output"
)

type SocialHandler struct {
	social   social_service.Service
	distance distance_service.Service
	validate *validator.Validate
	log      ports.Logger
}

func NewSocialHandler(social social_service.Service, distance distance_service.Service, validate *validator.Validate, log ports.Logger) *SocialHandler {
	return &SocialHandler{
		social:   social,
		distance: distance,
		validate: validate,
		log:      log,
	}
}

type UpdateProfileRequest struct {
	Bio               *string `json:"bio" validate:"omitempty,max=1000"`
	Address           *string `json:"address" validate:"omitempty,max=500"`
	ProfilePictureURL *string `json:"profile_picture_url" validate:"omitempty,url"`
	CoverPhotoURL     *string `json:"cover_photo_url" validate:"omitempty,url"`
}

type MessageRequest struct {
	Body string `json:"body" validate:"required,max=2000"`
}

func (h *SocialHandler) bind(c *gin.Context, req any) error {
	if err := c.ShouldBindJSON(req); err != nil {
		return validationError(err)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationError(err)
	}
	return nil
}

func (h *SocialHandler) GetUser(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	user, err := h.social.GetUser(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *SocialHandler) Me(c *gin.Context) {
	user, err := h.social.GetUser(c.Request.Context(), principalFrom(c).ID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *SocialHandler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := h.bind(c, &req); err != nil {
		respondError(c, h.log, err)
		return
	}

	user, err := h.social.UpdateProfile(c.Request.Context(), principalFrom(c).ID, &model.UpdateProfileDTO{
		Bio:               req.Bio,
		Address:           req.Address,
		ProfilePictureURL: req.ProfilePictureURL,
		CoverPhotoURL:     req.CoverPhotoURL,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *SocialHandler) ViewProfile(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	view, err := h.social.ViewProfile(c.Request.Context(), principalFrom(c).ID, id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *SocialHandler) Follow(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if err := h.social.Follow(c.Request.Context(), principalFrom(c).ID, id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *SocialHandler) Unfollow(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if err := h.social.Unfollow(c.Request.Context(), principalFrom(c).ID, id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *SocialHandler) Followers(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	users, err := h.social.ListFollowers(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

func (h *SocialHandler) Following(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	users, err := h.social.ListFollowing(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

func (h *SocialHandler) Distance(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	proximity, err := h.distance.GetDistanceBetweenUsers(c.Request.Context(), principalFrom(c).ID, id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, proximity)
}

func (h *SocialHandler) SendMessage(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	var req MessageRequest
	if err := h.bind(c, &req); err != nil {
		respondError(c, h.log, err)
		return
	}
	message, err := h.social.SendMessage(c.Request.Context(), principalFrom(c).ID, id, req.Body)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, message)
}

func (h *SocialHandler) Exchange(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	exchange, err := h.social.ListExchange(c.Request.Context(), principalFrom(c).ID, id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, exchange)
}

func (h *SocialHandler) Inbox(c *gin.Context) {
	messages, err := h.social.ListReceivedMessages(c.Request.Context(), principalFrom(c).ID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}
