package processapplication

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/commands"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"

	"admissions/internal/common/config"
	apperrors "admissions/internal/common/errors"
	"admissions/internal/common/logger"
	"admissions/internal/models"
)

// ==========================
// Mock Service Implementation
// ==========================

type MockService struct {
	mock.Mock
}

func (m *MockService) Submit(ctx context.Context, payload models.SubmissionPayload) (*models.SubmitResponse, error) {
	args := m.Called(ctx, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SubmitResponse), args.Error(1)
}

// ==========================
// Recording Job Client
// ==========================

// recordingGateway captures the job commands the handler sends.
type recordingGateway struct {
	pb.GatewayClient
	completed []*pb.CompleteJobRequest
	failed    []*pb.FailJobRequest
	thrown    []*pb.ThrowErrorRequest
}

func (g *recordingGateway) CompleteJob(_ context.Context, in *pb.CompleteJobRequest, _ ...grpc.CallOption) (*pb.CompleteJobResponse, error) {
	g.completed = append(g.completed, in)
	return &pb.CompleteJobResponse{}, nil
}

func (g *recordingGateway) FailJob(_ context.Context, in *pb.FailJobRequest, _ ...grpc.CallOption) (*pb.FailJobResponse, error) {
	g.failed = append(g.failed, in)
	return &pb.FailJobResponse{}, nil
}

func (g *recordingGateway) ThrowError(_ context.Context, in *pb.ThrowErrorRequest, _ ...grpc.CallOption) (*pb.ThrowErrorResponse, error) {
	g.thrown = append(g.thrown, in)
	return &pb.ThrowErrorResponse{}, nil
}

type recordingJobClient struct {
	gateway *recordingGateway
}

func noRetry(context.Context, error) bool { return false }

func (c recordingJobClient) NewCompleteJobCommand() commands.CompleteJobCommandStep1 {
	return commands.NewCompleteJobCommand(c.gateway, noRetry)
}

func (c recordingJobClient) NewFailJobCommand() commands.FailJobCommandStep1 {
	return commands.NewFailJobCommand(c.gateway, noRetry)
}

func (c recordingJobClient) NewThrowErrorCommand() commands.ThrowErrorCommandStep1 {
	return commands.NewThrowErrorCommand(c.gateway, noRetry)
}

// ==========================
// Mock Job Helper
// ==========================

func createMockJob(key int64, variables map[string]interface{}) entities.Job {
	variablesJSON, _ := json.Marshal(variables)

	activatedJob := &pb.ActivatedJob{
		Key:                      key,
		Type:                     TaskType,
		ProcessInstanceKey:       key * 10,
		BpmnProcessId:            "admission-process",
		ProcessDefinitionVersion: 1,
		ProcessDefinitionKey:     1,
		ElementId:                "Activity_ProcessApplication",
		ElementInstanceKey:       1,
		CustomHeaders:            "{}",
		Worker:                   "test-worker",
		Retries:                  3,
		Deadline:                 0,
		Variables:                string(variablesJSON),
	}

	return entities.Job{ActivatedJob: activatedJob}
}

func validApplication() map[string]interface{} {
	return map[string]interface{}{
		"personalInfo": map[string]interface{}{
			"firstName": "Ada",
			"lastName":  "Phiri",
			"email":     "a@b.com",
		},
		"education": map[string]interface{}{
			"highSchool":     "Kamuzu Academy",
			"graduationYear": "2023",
		},
		"credentials": map[string]interface{}{
			"certificateUploaded": true,
			"idDocumentUploaded":  true,
			"photoUploaded":       true,
			"additionalDocsCount": 1,
		},
	}
}

func newTestHandler(t *testing.T, svc Service) *Handler {
	t.Helper()
	h, err := NewHandler(&Config{Enabled: true, MaxJobsActive: 5, Timeout: 30 * time.Second}, svc, logger.NewTestLogger(t))
	require.NoError(t, err)
	return h
}

// ==========================
// Tests
// ==========================

func TestLoadConfig(t *testing.T) {
	cfg := LoadConfig(config.CamundaConfig{Enabled: true, MaxJobsActive: 10, Timeout: 30000})
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 10, cfg.MaxJobsActive)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.NoError(t, cfg.Validate())

	_, err := NewHandler(&Config{MaxJobsActive: 0, Timeout: time.Second}, &MockService{}, logger.NewNoOpLogger())
	assert.Error(t, err)
}

func TestHandler_ParseInput(t *testing.T) {
	h := newTestHandler(t, &MockService{})

	input, err := h.parseInput(createMockJob(1, map[string]interface{}{"application": validApplication()}))
	require.NoError(t, err)
	assert.Equal(t, "Ada", input.Application.PersonalInfo.FirstName)
	assert.Equal(t, 1, input.Application.Credentials.AdditionalDocsCount)
}

func TestHandler_ParseInput_Invalid(t *testing.T) {
	h := newTestHandler(t, &MockService{})

	badType := validApplication()
	badType["personalInfo"] = "Ada Phiri"

	tests := []struct {
		name string
		vars map[string]interface{}
	}{
		{"missing application", map[string]interface{}{"other": 1}},
		{"null application", map[string]interface{}{"application": nil}},
		{"wrong type", map[string]interface{}{"application": badType}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.parseInput(createMockJob(2, tt.vars))
			require.Error(t, err)

			se := apperrors.AsStandardError(err)
			assert.Equal(t, apperrors.ErrCodeInvalidRequest, se.Code)
			assert.Zero(t, apperrors.ConvertToBPMNError(se).Retries)
		})
	}
}

func TestHandler_Execute_Success(t *testing.T) {
	svc := &MockService{}
	svc.On("Submit", mock.Anything, mock.MatchedBy(func(p models.SubmissionPayload) bool {
		return p.PersonalInfo.Email == "a@b.com"
	})).Return(&models.SubmitResponse{
		Success:     true,
		StudentID:   "RAC482913",
		Email:       "a@b.com",
		SubmittedAt: "2024-05-01T09:30:00.000Z",
	}, nil)

	h := newTestHandler(t, svc)
	input, err := h.parseInput(createMockJob(3, map[string]interface{}{"application": validApplication()}))
	require.NoError(t, err)

	out, err := h.Execute(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, "RAC482913", out.StudentID)
	assert.Equal(t, "a@b.com", out.Email)
	assert.True(t, out.LetterSent)
	svc.AssertExpectations(t)
}

func TestHandler_Execute_PropagatesStandardErrors(t *testing.T) {
	svc := &MockService{}
	svc.On("Submit", mock.Anything, mock.Anything).
		Return(nil, apperrors.NewEmailDispatchFailedError(errors.New("ses throttled")))

	h := newTestHandler(t, svc)
	_, err := h.Execute(context.Background(), &Input{})
	require.Error(t, err)

	bpmn := apperrors.ConvertToBPMNError(apperrors.AsStandardError(err))
	assert.Equal(t, "EMAIL_DISPATCH_FAILED", bpmn.Code)
	assert.Zero(t, bpmn.Retries)
}

func TestHandler_Handle_Completes(t *testing.T) {
	svc := &MockService{}
	svc.On("Submit", mock.Anything, mock.Anything).Return(&models.SubmitResponse{
		Success:   true,
		StudentID: "RAC482913",
		Email:     "a@b.com",
	}, nil)

	gw := &recordingGateway{}
	newTestHandler(t, svc).Handle(recordingJobClient{gw}, createMockJob(4, map[string]interface{}{"application": validApplication()}))

	require.Len(t, gw.completed, 1)
	assert.Equal(t, int64(4), gw.completed[0].JobKey)
	assert.Contains(t, gw.completed[0].Variables, "RAC482913")
	assert.Empty(t, gw.failed)
	assert.Empty(t, gw.thrown)
}

func TestHandler_Handle_EmailFailureThrows(t *testing.T) {
	stored := apperrors.NewEmailDispatchFailedError(errors.New("550 mailbox unavailable"))
	stored.Metadata = map[string]interface{}{"studentId": "RAC111111"}

	svc := &MockService{}
	svc.On("Submit", mock.Anything, mock.Anything).Return(nil, stored).Once()

	gw := &recordingGateway{}
	newTestHandler(t, svc).Handle(recordingJobClient{gw}, createMockJob(5, map[string]interface{}{"application": validApplication()}))

	// The record already exists, so the job must not come back for another Submit.
	assert.Empty(t, gw.failed)
	require.Len(t, gw.thrown, 1)
	assert.Equal(t, "EMAIL_DISPATCH_FAILED", gw.thrown[0].ErrorCode)
	assert.Contains(t, gw.thrown[0].Variables, "RAC111111")
	svc.AssertNumberOfCalls(t, "Submit", 1)
}

func TestHandler_Handle_PersistFailureRetries(t *testing.T) {
	svc := &MockService{}
	svc.On("Submit", mock.Anything, mock.Anything).
		Return(nil, apperrors.NewApplicationPersistFailedError(errors.New("redis down")))

	gw := &recordingGateway{}
	newTestHandler(t, svc).Handle(recordingJobClient{gw}, createMockJob(6, map[string]interface{}{"application": validApplication()}))

	require.Len(t, gw.failed, 1)
	assert.Equal(t, int32(2), gw.failed[0].Retries)
	assert.Empty(t, gw.thrown)
}
