// internal/workers/admission/process-application/handler.go
package processapplication

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	apperrors "admissions/internal/common/errors"
	"admissions/internal/common/logger"
	"admissions/internal/common/metrics"
	"admissions/internal/common/validation"
	"admissions/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "process-admission-application"
)

var (
	ErrMissingApplication = errors.New("MISSING_APPLICATION_VARIABLE")
)

// Service is the admission processor as seen by the worker.
type Service interface {
	Submit(ctx context.Context, payload models.SubmissionPayload) (*models.SubmitResponse, error)
}

type Handler struct {
	config     *Config
	service    Service
	schema     *validation.Validator
	errHandler *apperrors.JobErrorHandler
	logger     logger.Logger
}

func NewHandler(config *Config, service Service, log logger.Logger) (*Handler, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		service:    service,
		schema:     validation.NewSubmissionValidator(),
		errHandler: apperrors.NewJobErrorHandler(log),
		logger:     log,
	}, nil
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	input, err := h.parseInput(job)
	if err != nil {
		h.failJob(ctx, client, job, err)
		return
	}

	output, err := h.execute(ctx, input)
	if err != nil {
		h.failJob(ctx, client, job, err)
		return
	}

	h.completeJob(ctx, client, job, output)
}

// parseInput checks the application variable against the submission schema
// before binding it.
func (h *Handler) parseInput(job entities.Job) (*Input, error) {
	var vars map[string]interface{}
	if err := json.Unmarshal([]byte(job.Variables), &vars); err != nil {
		return nil, apperrors.NewInvalidRequestError(fmt.Errorf("parse variables: %w", err))
	}

	app, ok := vars["application"]
	if !ok || app == nil {
		return nil, apperrors.NewInvalidRequestError(ErrMissingApplication)
	}

	result, err := h.schema.Validate(app)
	if err != nil {
		return nil, apperrors.NewInvalidRequestError(err)
	}
	if !result.Valid {
		return nil, apperrors.NewInvalidRequestError(errors.New(strings.Join(result.GetErrorMessages(), "; ")))
	}

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		return nil, apperrors.NewInvalidRequestError(fmt.Errorf("bind application: %w", err))
	}
	return &input, nil
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	resp, err := h.service.Submit(ctx, input.Application)
	if err != nil {
		return nil, err
	}
	return &Output{
		StudentID:   resp.StudentID,
		Email:       resp.Email,
		SubmittedAt: resp.SubmittedAt,
		LetterSent:  true,
	}, nil
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	h.logger.Info("job completed", map[string]interface{}{
		"jobKey":    job.Key,
		"studentId": output.StudentID,
	})
}

func (h *Handler) failJob(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	code := apperrors.AsStandardError(err).Code
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(code)).Inc()
	h.errHandler.HandleJobError(ctx, client, job, err)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
