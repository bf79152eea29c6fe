package handlers

import (
	"net/http"

	"jobboard_backend/internal/services"
	"jobboard_backend/internal/services/dto"
	"jobboard_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type ApplicationHandler struct {
	*BaseHandler
	applicationService services.ApplicationService
}

func NewApplicationHandler(base *BaseHandler, applicationService services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{
		BaseHandler:        base,
		applicationService: applicationService,
	}
}

func (h *ApplicationHandler) RegisterRoutes(_, protected *gin.RouterGroup) {
	jobs := protected.Group("/jobs/:jobId/applications")
	{
		jobs.POST("", h.Apply)
		jobs.GET("", h.ListJobApplications)
	}

	applications := protected.Group("/applications")
	{
		applications.GET("/my", h.ListMyApplications)
		applications.GET("/:applicationId", h.GetApplication)
		applications.PUT("/:applicationId/status", h.Transition)
		applications.PUT("/:applicationId/view", h.MarkViewed)
		applications.POST("/:applicationId/interviews", h.ScheduleInterview)
		applications.GET("/:applicationId/interviews/latest", h.LatestInterview)
	}
}

// Apply godoc
// @Summary Apply to an open job
// @Tags applications
// @Accept json
// @Produce json
// @Param jobId path string true "Job ID"
// @Param request body dto.ApplyRequest true "Application"
// @Success 201 {object} dto.ApplicationResponse
// @Failure 409 {object} apperrors.ErrorResponse
// @Router /api/v1/jobs/{jobId}/applications [post]
func (h *ApplicationHandler) Apply(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.ApplyRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	res, err := h.applicationService.Apply(h.GetDB(c), userID, c.Param("jobId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *ApplicationHandler) ListJobApplications(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	res, err := h.applicationService.ListJobApplications(h.GetDB(c), userID, c.Param("jobId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"applications": res})
}

func (h *ApplicationHandler) ListMyApplications(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	res, err := h.applicationService.ListMyApplications(h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"applications": res})
}

func (h *ApplicationHandler) GetApplication(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	res, err := h.applicationService.GetApplication(h.GetDB(c), userID, c.Param("applicationId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Transition godoc
// @Summary Move an application along the pipeline
// @Tags applications
// @Accept json
// @Produce json
// @Param applicationId path string true "Application ID"
// @Param request body dto.TransitionRequest true "Target status"
// @Success 200 {object} dto.ApplicationResponse
// @Failure 409 {object} apperrors.ErrorResponse "Terminal status, illegal move or concurrent change"
// @Router /api/v1/applications/{applicationId}/status [put]
func (h *ApplicationHandler) Transition(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.TransitionRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	res, err := h.applicationService.Transition(h.GetDB(c), userID, c.Param("applicationId"), req.Status)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *ApplicationHandler) MarkViewed(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.applicationService.MarkViewed(h.GetDB(c), userID, c.Param("applicationId")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ScheduleInterview godoc
// @Summary Schedule an interview and move the application to interview
// @Description Returns 207 with the stored interview when the status could not be updated.
// @Tags applications
// @Accept json
// @Produce json
// @Param applicationId path string true "Application ID"
// @Param request body dto.ScheduleInterviewRequest true "Interview"
// @Success 201 {object} dto.ScheduleInterviewResult
// @Success 207 {object} handlers.PartialResponse
// @Failure 400 {object} apperrors.ErrorResponse
// @Router /api/v1/applications/{applicationId}/interviews [post]
func (h *ApplicationHandler) ScheduleInterview(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.ScheduleInterviewRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	res, err := h.applicationService.ScheduleInterview(h.GetDB(c), userID, c.Param("applicationId"), &req)
	if err != nil {
		if res != nil {
			h.partial(c, res, err)
			return
		}
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *ApplicationHandler) LatestInterview(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	res, err := h.applicationService.LatestInterview(h.GetDB(c), userID, c.Param("applicationId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// PartialResponse carries a stored result together with the step that failed.
type PartialResponse struct {
	Result interface{}         `json:"result"`
	Error  *apperrors.AppError `json:"error"`
}

func (h *ApplicationHandler) partial(c *gin.Context, result interface{}, err error) {
	appErr, ok := apperrors.AsAppError(err)
	if !ok {
		appErr = apperrors.InternalError(err)
	}
	c.JSON(http.StatusMultiStatus, PartialResponse{Result: result, Error: appErr})
}
