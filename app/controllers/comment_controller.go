package controllers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"inkwell/app/models"
	"inkwell/app/services"
)

// CommentController maps HTTP requests onto the comment service.
type CommentController struct {
	responder
	comments *services.CommentService
}

// NewCommentController creates a CommentController.
func NewCommentController(comments *services.CommentService, log *slog.Logger, production bool) *CommentController {
	return &CommentController{
		responder: responder{production: production, log: log},
		comments:  comments,
	}
}

type createCommentRequest struct {
	Author  string `json:"author"`
	Content string `json:"content"`
}

// Index lists a post's comments, newest first.
func (cc *CommentController) Index(w http.ResponseWriter, r *http.Request) {
	params := models.ParsePageParams(r.URL.Query().Get("page"), r.URL.Query().Get("limit"))

	page, err := cc.comments.ListComments(r.Context(), mux.Vars(r)["postId"], params)
	if err != nil {
		cc.sendError(w, r, err)
		return
	}
	cc.sendJSON(w, http.StatusOK, page.ToResponse())
}

// Show returns a single comment.
func (cc *CommentController) Show(w http.ResponseWriter, r *http.Request) {
	comment, err := cc.comments.GetComment(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		cc.sendError(w, r, err)
		return
	}
	cc.sendJSON(w, http.StatusOK, comment.ToResponse())
}

// Create stores a new comment under the post in the path.
func (cc *CommentController) Create(w http.ResponseWriter, r *http.Request) {
	var req createCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		cc.badRequest(w, "invalid JSON body")
		return
	}

	comment := &models.Comment{
		PostID:  mux.Vars(r)["postId"],
		Author:  req.Author,
		Content: req.Content,
	}
	if err := cc.comments.CreateComment(r.Context(), comment); err != nil {
		cc.sendError(w, r, err)
		return
	}
	cc.sendJSON(w, http.StatusCreated, comment.ToResponse())
}

// Update applies a partial update to a comment.
func (cc *CommentController) Update(w http.ResponseWriter, r *http.Request) {
	var patch models.CommentPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		cc.badRequest(w, "invalid JSON body")
		return
	}
	if patch.Empty() {
		cc.badRequest(w, "update supplies no fields")
		return
	}

	comment, err := cc.comments.UpdateComment(r.Context(), mux.Vars(r)["id"], &patch)
	if err != nil {
		cc.sendError(w, r, err)
		return
	}
	cc.sendJSON(w, http.StatusOK, comment.ToResponse())
}

// Delete removes a single comment.
func (cc *CommentController) Delete(w http.ResponseWriter, r *http.Request) {
	if err := cc.comments.DeleteComment(r.Context(), mux.Vars(r)["id"]); err != nil {
		cc.sendError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
