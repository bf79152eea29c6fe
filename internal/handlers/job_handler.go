package handlers

import (
	"net/http"

	"jobboard_backend/internal/middleware"
	"jobboard_backend/internal/services"
	"jobboard_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type JobHandler struct {
	*BaseHandler
	jobService    services.JobService
	exportService services.ExportService
}

func NewJobHandler(base *BaseHandler, jobService services.JobService, exportService services.ExportService) *JobHandler {
	return &JobHandler{
		BaseHandler:   base,
		jobService:    jobService,
		exportService: exportService,
	}
}

func (h *JobHandler) RegisterRoutes(public, protected *gin.RouterGroup) {
	public.GET("/jobs", h.ListOpenJobs)
	public.GET("/jobs/:jobId", h.GetJob)

	companyJobs := protected.Group("/companies/:companyId/jobs")
	{
		companyJobs.POST("", h.CreateJob)
		companyJobs.GET("", h.ListCompanyJobs)
	}

	jobs := protected.Group("/jobs/:jobId")
	{
		jobs.PUT("/publish", h.PublishJob)
		jobs.PUT("/close", h.CloseJob)
		jobs.GET("/applications/export", h.ExportApplications)
	}
}

func (h *JobHandler) CreateJob(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateJobRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	res, err := h.jobService.CreateJob(h.GetDB(c), userID, c.Param("companyId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// PublishJob godoc
// @Summary Publish a draft job
// @Description Spends one job_post credit.
// @Tags jobs
// @Produce json
// @Param jobId path string true "Job ID"
// @Success 200 {object} dto.JobResponse
// @Failure 402 {object} apperrors.ErrorResponse "Not enough credits"
// @Router /api/v1/jobs/{jobId}/publish [put]
func (h *JobHandler) PublishJob(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	res, err := h.jobService.PublishJob(h.GetDB(c), userID, c.Param("jobId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *JobHandler) CloseJob(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	res, err := h.jobService.CloseJob(h.GetDB(c), userID, c.Param("jobId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// GetJob is public; the optional caller lets team members see drafts.
func (h *JobHandler) GetJob(c *gin.Context) {
	res, err := h.jobService.GetJob(h.GetDB(c), middleware.GetUserID(c), c.Param("jobId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *JobHandler) ListCompanyJobs(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	res, err := h.jobService.ListCompanyJobs(h.GetDB(c), userID, c.Param("companyId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": res})
}

// ListOpenJobs godoc
// @Summary List open jobs
// @Tags jobs
// @Produce json
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} dto.JobListResponse
// @Router /api/v1/jobs [get]
func (h *JobHandler) ListOpenJobs(c *gin.Context) {
	var q dto.ListJobsQuery
	if !h.BindAndValidate_Query(c, &q) {
		return
	}

	res, err := h.jobService.ListOpenJobs(h.GetDB(c), q.Page, q.PageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// ExportApplications godoc
// @Summary Download a job's applications as XLSX
// @Tags jobs
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param jobId path string true "Job ID"
// @Success 200 {file} file
// @Failure 402 {object} apperrors.ErrorResponse "Plan too low"
// @Router /api/v1/jobs/{jobId}/applications/export [get]
func (h *JobHandler) ExportApplications(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	file, err := h.exportService.ExportApplications(h.GetDB(c), userID, c.Param("jobId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+file.Name+`"`)
	c.Data(http.StatusOK, file.ContentType, file.Data)
}
