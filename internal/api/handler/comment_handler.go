package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"loan-ledger/internal/api/handler/dto"
	"loan-ledger/internal/domain/customer"
	"loan-ledger/internal/pkg/apperrors"

	"github.com/go-chi/chi/v5"
)

type CommentHandler struct {
	service customer.CustomerService
	logger  *slog.Logger
}

func NewCommentHandler(s customer.CustomerService, l *slog.Logger) *CommentHandler {
	if s == nil {
		panic("customer service cannot be nil")
	}
	if l == nil {
		panic("logger cannot be nil")
	}
	return &CommentHandler{
		service: s,
		logger:  l.With("component", "CommentHandler"),
	}
}

func getCommentIDFromURL(r *http.Request) (int64, error) {
	idStr := chi.URLParam(r, "commentId")
	if idStr == "" {
		return 0, fmt.Errorf("%w: commentId not found in URL path", apperrors.ErrInvalidArgument)
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid commentId format in URL path: %s", apperrors.ErrInvalidArgument, idStr)
	}
	return id, nil
}

// ListComments handles GET /api/customer/{accountNo}/comments
// @Summary List a customer's comments
// @Description Newest first.
// @Tags Comments
// @Produce json
// @Param accountNo path string true "Account number"
// @Success 200 {array} dto.CommentResponse "Comments"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/customer/{accountNo}/comments [get]
// @Security BearerAuth
func (h *CommentHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	accountNo, err := getAccountNoFromURL(r)
	if err != nil {
		respondError(w, err)
		return
	}

	comments, err := h.service.ListComments(r.Context(), accountNo)
	if err != nil {
		h.logger.Log(r.Context(), logLevelFor(err), "Service failed to list comments", slog.String("accountNo", accountNo), slog.Any("error", err))
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewCommentListResponse(comments))
}

// AddComment handles POST /api/customer/{accountNo}/comments
// @Summary Add a comment
// @Tags Comments
// @Accept json
// @Produce json
// @Param accountNo path string true "Account number"
// @Param request body dto.CommentRequest true "Comment text"
// @Success 201 {object} dto.CommentResponse "Comment added"
// @Failure 400 {object} dto.ErrorResponse "Blank comment"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/customer/{accountNo}/comments [post]
// @Security BearerAuth
func (h *CommentHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	accountNo, err := getAccountNoFromURL(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var req dto.CommentRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, err)
		return
	}

	comment, err := h.service.AddComment(r.Context(), accountNo, req.Comment)
	if err != nil {
		h.logger.Log(r.Context(), logLevelFor(err), "Service failed to add comment", slog.String("accountNo", accountNo), slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Comment added", slog.String("accountNo", accountNo), slog.Int64("commentId", comment.ID))
	respondJSON(w, http.StatusCreated, dto.NewCommentResponse(comment))
}

// UpdateComment handles PATCH /api/customer/comments/{commentId}
// @Summary Edit a comment
// @Tags Comments
// @Accept json
// @Produce json
// @Param commentId path int true "Comment ID" Minimum(1)
// @Param request body dto.CommentRequest true "New comment text"
// @Success 200 {object} dto.CommentResponse "Comment updated"
// @Failure 400 {object} dto.ErrorResponse "Blank comment or invalid id"
// @Failure 404 {object} dto.ErrorResponse "Comment not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/customer/comments/{commentId} [patch]
// @Security BearerAuth
func (h *CommentHandler) UpdateComment(w http.ResponseWriter, r *http.Request) {
	commentID, err := getCommentIDFromURL(r)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Failed to get comment ID from URL", slog.Any("error", err))
		respondError(w, err)
		return
	}

	var req dto.CommentRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, err)
		return
	}

	comment, err := h.service.UpdateComment(r.Context(), commentID, req.Comment)
	if err != nil {
		h.logger.Log(r.Context(), logLevelFor(err), "Service failed to update comment", slog.Int64("commentId", commentID), slog.Any("error", err))
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewCommentResponse(comment))
}

// DeleteComment handles DELETE /api/customer/comments/{commentId}
// @Summary Delete a comment
// @Tags Comments
// @Produce json
// @Param commentId path int true "Comment ID" Minimum(1)
// @Success 200 {object} dto.MessageResponse "Comment deleted"
// @Failure 400 {object} dto.ErrorResponse "Invalid id"
// @Failure 404 {object} dto.ErrorResponse "Comment not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/customer/comments/{commentId} [delete]
// @Security BearerAuth
func (h *CommentHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	commentID, err := getCommentIDFromURL(r)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Failed to get comment ID from URL", slog.Any("error", err))
		respondError(w, err)
		return
	}

	if err := h.service.DeleteComment(r.Context(), commentID); err != nil {
		h.logger.Log(r.Context(), logLevelFor(err), "Service failed to delete comment", slog.Int64("commentId", commentID), slog.Any("error", err))
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.MessageResponse{Message: "Comment deleted successfully"})
}

// DeleteAllComments handles DELETE /api/customer/{accountNo}/comments
// @Summary Delete all of a customer's comments
// @Tags Comments
// @Produce json
// @Param accountNo path string true "Account number"
// @Success 200 {object} dto.DeleteCommentsResponse "Comments deleted"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/customer/{accountNo}/comments [delete]
// @Security BearerAuth
func (h *CommentHandler) DeleteAllComments(w http.ResponseWriter, r *http.Request) {
	accountNo, err := getAccountNoFromURL(r)
	if err != nil {
		respondError(w, err)
		return
	}

	deleted, err := h.service.DeleteAllComments(r.Context(), accountNo)
	if err != nil {
		h.logger.Log(r.Context(), logLevelFor(err), "Service failed to delete comments", slog.String("accountNo", accountNo), slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Comments deleted", slog.String("accountNo", accountNo), slog.Int64("deletedCount", deleted))
	respondJSON(w, http.StatusOK, dto.DeleteCommentsResponse{
		Message:      "Comments deleted successfully",
		AccountNo:    accountNo,
		DeletedCount: deleted,
	})
}
