package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/contoso/university/internal/model"
	"github.com/contoso/university/internal/response"
	"github.com/contoso/university/internal/service"
	"github.com/contoso/university/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const courseIndexPath = "/courses"

// TokenIssuer hands out anti-forgery tokens for the forms a page renders.
type TokenIssuer interface {
	Issue(ctx context.Context) (string, error)
}

// formPage is a course form plus the token the next POST must present.
type formPage struct {
	*model.CourseForm
	CSRFToken string `json:"csrf_token"`
}

type CourseHandler struct {
	courseService service.CourseService
	tokens        TokenIssuer
	log           zerolog.Logger
}

func NewCourseHandler(courseService service.CourseService, tokens TokenIssuer, log zerolog.Logger) *CourseHandler {
	return &CourseHandler{
		courseService: courseService,
		tokens:        tokens,
		log:           log.With().Str("component", "course_handler").Logger(),
	}
}

// List godoc
// GET /courses?selected_department=
func (h *CourseHandler) List(c *gin.Context) {
	var selected *int
	if id, err := strconv.Atoi(c.Query("selected_department")); err == nil {
		selected = &id
	}

	listing, err := h.courseService.List(c.Request.Context(), selected)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, listing)
}

// Details godoc
// GET /courses/details/:id
func (h *CourseHandler) Details(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	course, err := h.courseService.Details(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"course": course})
}

// MissingID answers the id-less variants of the per-course pages.
func (h *CourseHandler) MissingID(c *gin.Context) {
	response.Fail(c, http.StatusBadRequest, response.ErrMissingID)
}

// NewForm godoc
// GET /courses/create
func (h *CourseHandler) NewForm(c *gin.Context) {
	form, err := h.courseService.NewForm(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	h.renderForm(c, form)
}

// Create godoc
// POST /courses/create
func (h *CourseHandler) Create(c *gin.Context) {
	var in model.CourseInput
	if fields := validator.Bind(c, &in); fields != nil {
		h.rejectPayload(c, fields)
		return
	}
	if fields := validator.BlankFormFields(c, "id", "credits", "department_id"); fields != nil {
		h.rejectPayload(c, fields)
		return
	}

	form, err := h.courseService.Create(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.finishForm(c, form)
}

// EditForm godoc
// GET /courses/edit/:id
func (h *CourseHandler) EditForm(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	form, err := h.courseService.EditForm(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.renderForm(c, form)
}

// Apply godoc
// POST /courses/edit/:id
func (h *CourseHandler) Apply(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var upd model.CourseUpdate
	if fields := validator.Bind(c, &upd); fields != nil {
		h.rejectPayload(c, fields)
		return
	}
	if fields := validator.BlankFormFields(c, "credits", "department_id"); fields != nil {
		h.rejectPayload(c, fields)
		return
	}

	form, err := h.courseService.Apply(c.Request.Context(), id, upd)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.finishForm(c, form)
}

// DeleteConfirm godoc
// GET /courses/delete/:id
func (h *CourseHandler) DeleteConfirm(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	course, err := h.courseService.Details(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}

	token, ok := h.issueToken(c)
	if !ok {
		return
	}
	response.Success(c, http.StatusOK, gin.H{"course": course, "csrf_token": token})
}

// Delete godoc
// POST /courses/delete/:id
func (h *CourseHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.courseService.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	response.Redirect(c, courseIndexPath)
}

// UpdateCreditsForm godoc
// GET /courses/update-credits
func (h *CourseHandler) UpdateCreditsForm(c *gin.Context) {
	token, ok := h.issueToken(c)
	if !ok {
		return
	}
	response.Success(c, http.StatusOK, gin.H{"rows_affected": nil, "csrf_token": token})
}

// UpdateCredits godoc
// POST /courses/update-credits
// Without a multiplier, or with a blank one, nothing changes and
// rows_affected is null.
func (h *CourseHandler) UpdateCredits(c *gin.Context) {
	var in model.CreditsUpdate
	if fields := validator.Bind(c, &in); fields != nil {
		h.rejectPayload(c, fields)
		return
	}
	if validator.BlankFormFields(c, "multiplier") != nil {
		in.Multiplier = nil
	}

	rows, err := h.courseService.UpdateCredits(c.Request.Context(), in.Multiplier)
	if err != nil {
		h.fail(c, err)
		return
	}

	token, ok := h.issueToken(c)
	if !ok {
		return
	}
	response.Success(c, http.StatusOK, gin.H{"rows_affected": rows, "csrf_token": token})
}

// ─── Helpers ───────────────────────────────────────────────────────

func (h *CourseHandler) renderForm(c *gin.Context, form *model.CourseForm) {
	token, ok := h.issueToken(c)
	if !ok {
		return
	}
	response.Success(c, http.StatusOK, formPage{CourseForm: form, CSRFToken: token})
}

// finishForm redirects to the listing after a save, otherwise re-renders the
// form with its errors and a fresh token (the submitted one was consumed).
func (h *CourseHandler) finishForm(c *gin.Context, form *model.CourseForm) {
	if form.Saved {
		response.Redirect(c, courseIndexPath)
		return
	}

	token, ok := h.issueToken(c)
	if !ok {
		return
	}

	code := response.ErrValidation
	if _, saveFailed := form.Errors[""]; saveFailed {
		code = response.ErrSaveFailed
	}
	response.FailWithForm(c, http.StatusUnprocessableEntity, code,
		formPage{CourseForm: form, CSRFToken: token}, form.Errors)
}

// rejectPayload answers 400 for a body that could not be bound. The anti-forgery
// check already consumed the submitted token, so a fresh one goes back.
func (h *CourseHandler) rejectPayload(c *gin.Context, fields map[string]string) {
	token, ok := h.issueToken(c)
	if !ok {
		return
	}
	response.FailWithForm(c, http.StatusBadRequest, response.ErrInvalidPayload,
		gin.H{"csrf_token": token}, fields)
}

func (h *CourseHandler) issueToken(c *gin.Context) (string, bool) {
	token, err := h.tokens.Issue(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return "", false
	}
	return token, true
}

func (h *CourseHandler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCourseNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrDuplicateCourse):
		response.Fail(c, http.StatusConflict, response.ErrConflict)
	case errors.Is(err, service.ErrUnknownDepartment):
		response.Fail(c, http.StatusConflict, response.ErrUnknownDepartment)
	case errors.Is(err, service.ErrCourseInUse):
		response.Fail(c, http.StatusConflict, response.ErrDependencyExists)
	case errors.Is(err, service.ErrSaveFailed):
		h.log.Error().Err(err).Str("request_id", c.GetString(response.ContextKeyRequestID)).Msg("Unit of work failed")
		response.Fail(c, http.StatusUnprocessableEntity, response.ErrSaveFailed)
	default:
		h.log.Error().Err(err).
			Str("request_id", c.GetString(response.ContextKeyRequestID)).
			Str("path", c.FullPath()).
			Msg("Unhandled error")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}

// parseID reads the :id route parameter, answering 400 when it is absent or
// not a number.
func parseID(c *gin.Context) (int, bool) {
	raw := c.Param("id")
	if raw == "" {
		response.Fail(c, http.StatusBadRequest, response.ErrMissingID)
		return 0, false
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return 0, false
	}
	return id, true
}
