package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/riftrewind/rewind-server/internal/model/dto"
	"github.com/riftrewind/rewind-server/internal/pkg/response"
	"github.com/riftrewind/rewind-server/internal/service"
)

type CompareHandler struct {
	rewindService *service.RewindService
}

func NewCompareHandler(rewindService *service.RewindService) *CompareHandler {
	return &CompareHandler{rewindService: rewindService}
}

// Start handles POST /api/v1/jobs/compare.
func (h *CompareHandler) Start(c *gin.Context) {
	var req dto.StartCompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "request body is not valid JSON", nil)
		return
	}

	if details := req.Validate(); len(details) > 0 {
		response.BadRequest(c, "", details)
		return
	}

	resp, err := h.rewindService.StartCompare(c.Request.Context(), &req)
	if err != nil {
		log.Error().Err(err).Msg("failed to start compare job")
		response.ServerError(c, "failed to start job")
		return
	}

	response.Accepted(c, resp)
}

// Status handles GET /api/v1/jobs/compare/:jobId.
func (h *CompareHandler) Status(c *gin.Context) {
	jobID := c.Param("jobId")

	resp, err := h.rewindService.GetCompareStatus(jobID)
	if err != nil {
		if errors.Is(err, service.ErrJobNotFound) || errors.Is(err, service.ErrJobKindMismatch) {
			response.NotFound(c, "job not found")
			return
		}
		log.Error().Err(err).Str("job_id", jobID).Msg("failed to read compare status")
		response.ServerError(c, "")
		return
	}

	response.OK(c, resp)
}
