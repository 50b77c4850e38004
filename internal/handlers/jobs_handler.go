package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"flesk/internal/jobs"
	"flesk/internal/logger"
	"flesk/internal/scheduler"
)

// JobRunner is the part of the scheduler the ops endpoints need.
type JobRunner interface {
	Entries() []scheduler.Entry
	RunNow(ctx context.Context, name string) (*jobs.RunResult, error)
}

// JobsHandler exposes the scheduled jobs to operators.
type JobsHandler struct {
	runner JobRunner
}

// NewJobsHandler creates a new JobsHandler.
func NewJobsHandler(runner JobRunner) *JobsHandler {
	return &JobsHandler{runner: runner}
}

// ListJobs handles listing the registered jobs.
// @Summary     List scheduled jobs
// @Description Registered jobs with their cron spec, next fire time and last result
// @Tags        ops
// @Produce     json
// @Security    ApiKeyAuth
// @Success     200 {array}  scheduler.Entry "Registered jobs"
// @Failure     401 {object} ErrorResponse "Invalid or missing API key"
// @Router      /jobs [get]
func (h *JobsHandler) ListJobs(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"jobs": h.runner.Entries()})
}

// RunJob handles triggering a job outside its schedule.
// @Summary     Run a job now
// @Description Run the named job synchronously and return its result
// @Tags        ops
// @Produce     json
// @Security    ApiKeyAuth
// @Param       name path string true "Job name"
// @Success     200 {object} jobs.RunResult "Run result"
// @Failure     401 {object} ErrorResponse "Invalid or missing API key"
// @Failure     404 {object} ErrorResponse "Job not found"
// @Failure     409 {object} ErrorResponse "Job already running"
// @Failure     500 {object} ErrorResponse "Job failed"
// @Router      /jobs/{name}/run [post]
func (h *JobsHandler) RunJob(c *gin.Context) {
	name := c.Param("name")

	logger.Get().Infow("manual job trigger", "job", name, "client_ip", c.ClientIP())

	res, err := h.runner.RunNow(c.Request.Context(), name)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": res})
}
