package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/MelissaSequeira/reimburse-portal/internal/application/port"
	"github.com/MelissaSequeira/reimburse-portal/internal/application/service"
	"github.com/MelissaSequeira/reimburse-portal/internal/domain/chain"
	"github.com/MelissaSequeira/reimburse-portal/internal/domain/entity"
)

const actorContextKey = "actor"

// Handlers contains all HTTP request handlers
type Handlers struct {
	submissions service.SubmissionService
	approvals   service.ApprovalService
	admin       service.AdminService
	directory   service.DirectoryService
	artifacts   port.ArtifactStore
	logger      Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(
	submissions service.SubmissionService,
	approvals service.ApprovalService,
	admin service.AdminService,
	directory service.DirectoryService,
	artifacts port.ArtifactStore,
	logger Logger,
) *Handlers {
	return &Handlers{
		submissions: submissions,
		approvals:   approvals,
		admin:       admin,
		directory:   directory,
		artifacts:   artifacts,
		logger:      logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// StageRecordResponse is one stage entry in the approval trail.
type StageRecordResponse struct {
	Stage   string `json:"stage"`
	Status  string `json:"status"`
	Remarks string `json:"remarks,omitempty"`
}

// RequestResponse represents a reimbursement request in API responses
type RequestResponse struct {
	ID          int64                 `json:"id"`
	Email       string                `json:"email"`
	Department  string                `json:"department"`
	Purpose     string                `json:"purpose"`
	Amount      string                `json:"amount"`
	Status      string                `json:"status"`
	SubmittedAt string                `json:"submitted_at"`
	Trail       []StageRecordResponse `json:"trail"`
	Artifacts   map[string]string     `json:"artifacts"`
	Version     int64                 `json:"version"`
}

// DecisionRequest is the body of a stage decision.
type DecisionRequest struct {
	Decision string `json:"decision" binding:"required"`
	Remarks  string `json:"remarks"`
}

// RegisterUserRequest is the body of a user registration.
type RegisterUserRequest struct {
	Name       string `json:"name" binding:"required"`
	Email      string `json:"email" binding:"required"`
	Role       string `json:"role" binding:"required"`
	Department string `json:"department"`
}

// UserResponse represents a directory entry in API responses
type UserResponse struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	Department string `json:"department,omitempty"`
}

// ActorMiddleware resolves the calling user from the X-Actor-Email header
// and stores the actor context for the handlers.
func (h *Handlers) ActorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		emailAddr := c.GetHeader("X-Actor-Email")
		if emailAddr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, Response{
				Success: false,
				Error:   "missing X-Actor-Email header",
			})
			return
		}

		actor, err := h.directory.Resolve(c.Request.Context(), emailAddr)
		if err != nil {
			if errors.Is(err, port.ErrNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, Response{
					Success: false,
					Error:   "unknown actor",
				})
				return
			}
			h.logger.Error("Failed to resolve actor", "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, Response{
				Success: false,
				Error:   "failed to resolve actor",
			})
			return
		}

		c.Set(actorContextKey, actor)
		c.Next()
	}
}

// RequireAdmin guards the admin route group.
func (h *Handlers) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if actorFrom(c).Role != entity.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, Response{
				Success: false,
				Error:   "admin role required",
			})
			return
		}
		c.Next()
	}
}

func actorFrom(c *gin.Context) entity.Actor {
	actor, _ := c.MustGet(actorContextKey).(entity.Actor)
	return actor
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: HealthResponse{
			Status:    "healthy",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Version:   "1.0.0",
		},
	})
}

// SubmitRequest handles POST /api/v1/requests. The body is multipart form
// data carrying the claim fields and the four supporting documents.
func (h *Handlers) SubmitRequest(c *gin.Context) {
	actor := actorFrom(c)

	amount, err := decimal.NewFromString(c.PostForm("amount"))
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid amount"})
		return
	}

	input := service.SubmissionInput{
		Purpose: c.PostForm("purpose"),
		Amount:  amount,
	}
	files := []struct {
		field string
		dst   *service.FileUpload
	}{
		{"letter", &input.Letter},
		{"certificate", &input.Certificate},
		{"brochure", &input.Brochure},
		{"bill", &input.Bill},
	}
	for _, f := range files {
		upload, err := h.readUpload(c, f.field)
		if err != nil {
			c.JSON(http.StatusBadRequest, Response{
				Success: false,
				Error:   fmt.Sprintf("%s document: %v", f.field, err),
			})
			return
		}
		*f.dst = upload
	}

	req, err := h.submissions.Submit(c.Request.Context(), actor, input)
	if err != nil {
		h.writeError(c, err, "failed to submit request")
		return
	}

	c.JSON(http.StatusCreated, Response{Success: true, Data: toRequestResponse(req)})
}

func (h *Handlers) readUpload(c *gin.Context, field string) (service.FileUpload, error) {
	header, err := c.FormFile(field)
	if err != nil {
		return service.FileUpload{}, errors.New("file is required")
	}
	file, err := header.Open()
	if err != nil {
		return service.FileUpload{}, err
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return service.FileUpload{}, err
	}
	return service.FileUpload{Filename: header.Filename, Content: content}, nil
}

// ListOwnRequests handles GET /api/v1/requests
func (h *Handlers) ListOwnRequests(c *gin.Context) {
	requests, err := h.submissions.ListOwn(c.Request.Context(), actorFrom(c))
	if err != nil {
		h.writeError(c, err, "failed to list requests")
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: toRequestResponses(requests)})
}

// GetRequest handles GET /api/v1/requests/:id
func (h *Handlers) GetRequest(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request ID"})
		return
	}

	req, err := h.submissions.Get(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err, "failed to get request")
		return
	}

	// Requesters see only their own claims; reviewers and admins see all.
	actor := actorFrom(c)
	if actor.Role == entity.RoleStudent && req.Email != actor.Email {
		c.JSON(http.StatusNotFound, Response{Success: false, Error: "request not found"})
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: toRequestResponse(req)})
}

// ListPending handles GET /api/v1/stages/:stage/pending
func (h *Handlers) ListPending(c *gin.Context) {
	stage, err := chain.ParseStage(c.Param("stage"))
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid stage"})
		return
	}

	actor := actorFrom(c)
	if !h.actorReviews(actor, stage) {
		c.JSON(http.StatusForbidden, Response{Success: false, Error: "stage not assigned to this role"})
		return
	}

	requests, err := h.approvals.Pending(c.Request.Context(), stage, actor)
	if err != nil {
		h.writeError(c, err, "failed to list pending requests")
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: toRequestResponses(requests)})
}

// Decide handles POST /api/v1/stages/:stage/requests/:id/decision
func (h *Handlers) Decide(c *gin.Context) {
	stage, err := chain.ParseStage(c.Param("stage"))
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid stage"})
		return
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request ID"})
		return
	}

	var body DecisionRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body"})
		return
	}
	decision, err := chain.ParseDecision(body.Decision)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid decision"})
		return
	}

	actor := actorFrom(c)
	if !h.actorReviews(actor, stage) {
		c.JSON(http.StatusForbidden, Response{Success: false, Error: "stage not assigned to this role"})
		return
	}

	req, err := h.approvals.Decide(c.Request.Context(), actor, id, stage, decision, body.Remarks)
	if err != nil {
		h.writeError(c, err, "failed to record decision")
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: toRequestResponse(req)})
}

func (h *Handlers) actorReviews(actor entity.Actor, stage chain.Stage) bool {
	if actor.Role == entity.RoleAdmin {
		return true
	}
	reviewed, ok := actor.Role.ReviewsStage()
	return ok && reviewed == stage
}

// DownloadArtifact handles GET /api/v1/artifacts/:ref
func (h *Handlers) DownloadArtifact(c *gin.Context) {
	ref := c.Param("ref")
	content, err := h.artifacts.Open(ref)
	if err != nil {
		c.JSON(http.StatusNotFound, Response{Success: false, Error: "artifact not found"})
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", ref))
	c.Data(http.StatusOK, "application/octet-stream", content)
}

// ListAllRequests handles GET /api/v1/admin/requests
func (h *Handlers) ListAllRequests(c *gin.Context) {
	requests, err := h.admin.ListRequests(c.Request.Context())
	if err != nil {
		h.writeError(c, err, "failed to list requests")
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: toRequestResponses(requests)})
}

// ExportRegister handles GET /api/v1/admin/requests/export
func (h *Handlers) ExportRegister(c *gin.Context) {
	content, err := h.admin.ExportRegister(c.Request.Context())
	if err != nil {
		h.writeError(c, err, "failed to export register")
		return
	}
	c.Header("Content-Disposition", `attachment; filename="reimbursement_register.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", content)
}

// ListUsers handles GET /api/v1/admin/users
func (h *Handlers) ListUsers(c *gin.Context) {
	users, err := h.directory.List(c.Request.Context())
	if err != nil {
		h.writeError(c, err, "failed to list users")
		return
	}
	responses := make([]UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, UserResponse{
			ID:         u.ID,
			Name:       u.Name,
			Email:      u.Email,
			Role:       string(u.Role),
			Department: u.Department,
		})
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: responses})
}

// RegisterUser handles POST /api/v1/admin/users
func (h *Handlers) RegisterUser(c *gin.Context) {
	var body RegisterUserRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body"})
		return
	}

	user := &entity.User{
		Name:       body.Name,
		Email:      body.Email,
		Role:       entity.Role(body.Role),
		Department: body.Department,
	}
	if err := h.directory.Register(c.Request.Context(), user); err != nil {
		h.writeError(c, err, "failed to register user")
		return
	}

	c.JSON(http.StatusCreated, Response{Success: true, Data: UserResponse{
		ID:         user.ID,
		Name:       user.Name,
		Email:      user.Email,
		Role:       string(user.Role),
		Department: user.Department,
	}})
}

// writeError maps service errors to HTTP status codes.
func (h *Handlers) writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, port.ErrNotFound):
		c.JSON(http.StatusNotFound, Response{Success: false, Error: "request not found"})
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrEmptyRemarks),
		errors.Is(err, chain.ErrInvalidStage),
		errors.Is(err, chain.ErrInvalidDecision):
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
	case errors.Is(err, chain.ErrInvalidTransition):
		c.JSON(http.StatusConflict, Response{Success: false, Error: err.Error()})
	case errors.Is(err, port.ErrVersionConflict):
		c.JSON(http.StatusConflict, Response{Success: false, Error: "request changed concurrently, retry"})
	default:
		h.logger.Error(fallback, "error", err)
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: fallback})
	}
}

func toRequestResponse(req *entity.ReimbursementRequest) RequestResponse {
	trail := make([]StageRecordResponse, 0, len(chain.Stages()))
	for _, s := range chain.Stages() {
		record := req.Trail.Record(s)
		trail = append(trail, StageRecordResponse{
			Stage:   s.String(),
			Status:  record.Status.String(),
			Remarks: record.Remarks,
		})
	}

	return RequestResponse{
		ID:          req.ID,
		Email:       req.Email,
		Department:  req.Department,
		Purpose:     req.Purpose,
		Amount:      req.Amount.String(),
		Status:      req.Status,
		SubmittedAt: req.SubmittedAt.Format(time.RFC3339),
		Trail:       trail,
		Artifacts:   req.Artifacts(),
		Version:     req.Version,
	}
}

func toRequestResponses(requests []*entity.ReimbursementRequest) []RequestResponse {
	responses := make([]RequestResponse, 0, len(requests))
	for _, req := range requests {
		responses = append(responses, toRequestResponse(req))
	}
	return responses
}
