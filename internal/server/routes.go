package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	apperrors "admissions/internal/common/errors"
	"admissions/internal/common/logger"
	"admissions/internal/common/validation"
	"admissions/internal/models"
)

type API struct {
	svc    Admissions
	schema *validation.Validator
	logger logger.Logger
}

func NewAPI(svc Admissions, schema *validation.Validator, log logger.Logger) *API {
	return &API{svc: svc, schema: schema, logger: log}
}

func registerRoutes(r *gin.Engine, api *API, metricsPath string) {
	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/health", api.handleHealth)
		apiGroup.POST("/submit-application", api.handleSubmit)
		apiGroup.GET("/application/:studentId", api.handleStatus)
		apiGroup.POST("/resend-letter/:studentId", api.handleResend)
	}

	if metricsPath != "" {
		r.GET(metricsPath, gin.WrapH(promhttp.Handler()))
	}
}

func (a *API) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, a.svc.Health(c.Request.Context()))
}

func (a *API) handleSubmit(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, models.ErrorResponse{
				Error:   apperrors.MsgInvalidRequest,
				Details: err.Error(),
			})
			return
		}
		respondError(c, apperrors.NewInvalidRequestError(err))
		return
	}

	payload, err := a.decodePayload(raw)
	if err != nil {
		respondError(c, err)
		return
	}

	resp, err := a.svc.Submit(c.Request.Context(), payload)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// decodePayload checks the body against the submission schema before
// binding it.
func (a *API) decodePayload(raw []byte) (models.SubmissionPayload, error) {
	var payload models.SubmissionPayload

	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return payload, apperrors.NewInvalidRequestError(err)
	}
	result, err := a.schema.Validate(doc)
	if err != nil {
		return payload, apperrors.NewInvalidRequestError(err)
	}
	if !result.Valid {
		return payload, apperrors.NewInvalidRequestError(errors.New(strings.Join(result.GetErrorMessages(), "; ")))
	}

	if err := json.Unmarshal(raw, &payload); err != nil {
		return payload, apperrors.NewInvalidRequestError(err)
	}
	return payload, nil
}

func (a *API) handleStatus(c *gin.Context) {
	summary, err := a.svc.Status(c.Request.Context(), c.Param("studentId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.StatusResponse{Success: true, Application: summary})
}

func (a *API) handleResend(c *gin.Context) {
	resp, err := a.svc.ResendLetter(c.Request.Context(), c.Param("studentId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func respondError(c *gin.Context, err error) {
	se := apperrors.AsStandardError(err)
	c.JSON(se.HTTPStatus(), models.ErrorResponse{
		Success: false,
		Error:   se.Message,
		Details: se.Details,
	})
}
