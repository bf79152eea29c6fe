package handlers

import (
	"net/http"

	"jobboard_backend/internal/services"
	"jobboard_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type TeamHandler struct {
	*BaseHandler
	teamService services.TeamService
}

func NewTeamHandler(base *BaseHandler, teamService services.TeamService) *TeamHandler {
	return &TeamHandler{
		BaseHandler: base,
		teamService: teamService,
	}
}

func (h *TeamHandler) RegisterRoutes(_, protected *gin.RouterGroup) {
	companies := protected.Group("/companies")
	{
		companies.POST("", h.CreateCompany)
		companies.GET("", h.ListMyCompanies)
		companies.GET("/:companyId/members", h.ListMembers)
		companies.POST("/:companyId/members", h.AddMember)
		companies.PUT("/:companyId/members/:userId", h.UpdateMemberRole)
		companies.DELETE("/:companyId/members/:userId", h.RemoveMember)
	}
}

func (h *TeamHandler) CreateCompany(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateCompanyRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	res, err := h.teamService.CreateCompany(h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *TeamHandler) ListMyCompanies(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	res, err := h.teamService.ListMyCompanies(h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"companies": res})
}

func (h *TeamHandler) ListMembers(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	res, err := h.teamService.ListMembers(h.GetDB(c), userID, c.Param("companyId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"members": res})
}

func (h *TeamHandler) AddMember(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.AddMemberRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	res, err := h.teamService.AddMember(h.GetDB(c), userID, c.Param("companyId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *TeamHandler) UpdateMemberRole(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateMemberRoleRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.teamService.UpdateMemberRole(h.GetDB(c), userID, c.Param("companyId"), c.Param("userId"), req.Role); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *TeamHandler) RemoveMember(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.teamService.RemoveMember(h.GetDB(c), userID, c.Param("companyId"), c.Param("userId")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
