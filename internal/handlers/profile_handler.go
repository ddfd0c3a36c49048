package handlers

import (
	"net/http"

	"influmatch_backend/internal/models"
	"influmatch_backend/internal/services"
	"influmatch_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	*BaseHandler
	profileService services.ProfileService
}

func NewProfileHandler(base *BaseHandler, profileService services.ProfileService) *ProfileHandler {
	return &ProfileHandler{
		BaseHandler:    base,
		profileService: profileService,
	}
}

func (h *ProfileHandler) RegisterRoutes(rg *gin.RouterGroup) {
	profile := rg.Group("/profile")
	profile.Use(h.RequireAuth())
	{
		profile.GET("", h.GetMyProfile)
		profile.POST("/setup/influencer", h.SetupInfluencer)
		profile.POST("/setup/advertiser", h.SetupAdvertiser)
	}
}

func (h *ProfileHandler) GetMyProfile(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	profile, err := h.profileService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	attrs := profile.RoleAttributes
	if attrs == nil {
		attrs = map[string]any{}
	}
	c.JSON(http.StatusOK, dto.ProfileResponse{
		ID:               profile.ID,
		Email:            profile.Email,
		Role:             profile.Role,
		ProfileCompleted: profile.ProfileCompleted,
		RoleAttributes:   attrs,
		Destination:      services.Decide(profile),
		CreatedAt:        profile.CreatedAt,
		UpdatedAt:        profile.UpdatedAt,
	})
}

func (h *ProfileHandler) SetupInfluencer(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.InfluencerSetupRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	h.completeSetup(c, userID, req.ToAttributes())
}

func (h *ProfileHandler) SetupAdvertiser(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.AdvertiserSetupRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	h.completeSetup(c, userID, req.ToAttributes())
}

func (h *ProfileHandler) completeSetup(c *gin.Context, userID string, attrs services.RoleAttributes) {
	dest, err := h.profileService.CompleteSetup(c.Request.Context(), userID, attrs)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.DestinationResponse{Destination: dest})
}

var (
	_ services.RoleAttributes = models.InfluencerAttributes{}
	_ services.RoleAttributes = models.AdvertiserAttributes{}
)
