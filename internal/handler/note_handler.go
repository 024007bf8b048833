package handler

import (
	"net/http"

	"github.com/damoang/angple-notes/internal/common"
	"github.com/damoang/angple-notes/internal/domain"
	"github.com/damoang/angple-notes/internal/middleware"
	"github.com/damoang/angple-notes/internal/service"
	"github.com/gin-gonic/gin"
)

// NoteResponse single note envelope
type NoteResponse struct {
	Note *domain.Note `json:"note"`
}

// NoteListResponse note list envelope
type NoteListResponse struct {
	Notes []*domain.Note `json:"notes"`
}

// NoteHandler handles /api/notes requests. Every route runs behind JWTAuth.
type NoteHandler struct {
	service *service.NoteService
}

// NewNoteHandler creates a new NoteHandler
func NewNoteHandler(service *service.NoteService) *NoteHandler {
	return &NoteHandler{service: service}
}

// requireUser returns the authenticated user id or writes a 401
func requireUser(c *gin.Context) (uint64, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		common.ErrorResponse(c, http.StatusUnauthorized, "Authentication required", nil)
		return 0, false
	}
	return userID, true
}

// ListNotes handles GET /api/notes
// @Summary List notes
// @Description Notes of the caller, filtered, sorted and paginated
// @Tags notes
// @Produce json
// @Param q query string false "Search title and content"
// @Param tag query string false "Exact tag"
// @Param archived query string false "true|1 for archived only, anything else for active only"
// @Param sortBy query string false "createdAt | updatedAt | title" default(updatedAt)
// @Param sortDir query string false "ASC | DESC" default(DESC)
// @Param limit query int false "1-100" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} NoteListResponse
// @Failure 401 {object} common.ErrorBody
// @Security BearerAuth
// @Router /notes [get]
func (h *NoteHandler) ListNotes(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	notes, err := h.service.ListNotes(c.Request.Context(), userID, listOptions(c))
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, NoteListResponse{Notes: notes})
}

// CreateNote handles POST /api/notes
// @Summary Create note
// @Tags notes
// @Accept json
// @Produce json
// @Param request body domain.NoteCreateRequest true "Note"
// @Success 201 {object} NoteResponse
// @Failure 400 {object} common.ErrorBody
// @Failure 401 {object} common.ErrorBody
// @Security BearerAuth
// @Router /notes [post]
func (h *NoteHandler) CreateNote(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	fields, err := readObject(c)
	if err != nil {
		respondBodyError(c, err)
		return
	}
	in, err := decodeCreate(fields)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	note, err := h.service.CreateNote(c.Request.Context(), userID, in)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	middleware.CountNoteMutation("create")
	c.JSON(http.StatusCreated, NoteResponse{Note: note})
}

// GetNote handles GET /api/notes/:id
// @Summary Get note
// @Tags notes
// @Produce json
// @Param id path int true "Note ID"
// @Success 200 {object} NoteResponse
// @Failure 400 {object} common.ErrorBody
// @Failure 404 {object} common.ErrorBody
// @Security BearerAuth
// @Router /notes/{id} [get]
func (h *NoteHandler) GetNote(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	noteID, err := parseNoteID(c)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	note, err := h.service.GetNote(c.Request.Context(), userID, noteID)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, NoteResponse{Note: note})
}

// UpdateNote handles PUT and PATCH /api/notes/:id
// Only the supplied fields change; an empty object returns the note untouched.
// @Summary Update note
// @Tags notes
// @Accept json
// @Produce json
// @Param id path int true "Note ID"
// @Param request body domain.NoteUpdateRequest true "Fields to change"
// @Success 200 {object} NoteResponse
// @Failure 400 {object} common.ErrorBody
// @Failure 404 {object} common.ErrorBody
// @Security BearerAuth
// @Router /notes/{id} [put]
func (h *NoteHandler) UpdateNote(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	noteID, err := parseNoteID(c)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	fields, err := readObject(c)
	if err != nil {
		respondBodyError(c, err)
		return
	}
	in, err := decodeUpdate(fields)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	note, err := h.service.UpdateNote(c.Request.Context(), userID, noteID, in)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	if !in.IsEmpty() {
		middleware.CountNoteMutation("update")
	}
	c.JSON(http.StatusOK, NoteResponse{Note: note})
}

// DeleteNote handles DELETE /api/notes/:id
// @Summary Delete note
// @Tags notes
// @Param id path int true "Note ID"
// @Success 204
// @Failure 400 {object} common.ErrorBody
// @Failure 404 {object} common.ErrorBody
// @Security BearerAuth
// @Router /notes/{id} [delete]
func (h *NoteHandler) DeleteNote(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	noteID, err := parseNoteID(c)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	deleted, err := h.service.DeleteNote(c.Request.Context(), userID, noteID)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	if !deleted {
		common.RespondError(c, common.ErrNoteNotFound)
		return
	}
	middleware.CountNoteMutation("delete")
	c.Status(http.StatusNoContent)
}
