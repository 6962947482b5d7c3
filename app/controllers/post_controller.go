package controllers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"inkwell/app/models"
	"inkwell/app/services"
)

// PostController maps HTTP requests onto the post service.
type PostController struct {
	responder
	posts *services.PostService
}

// NewPostController creates a PostController. production controls whether
// internal error details are surfaced in responses.
func NewPostController(posts *services.PostService, log *slog.Logger, production bool) *PostController {
	return &PostController{
		responder: responder{production: production, log: log},
		posts:     posts,
	}
}

type createPostRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Author  string `json:"author"`
	Status  string `json:"status"`
}

// Index lists posts, newest first. Malformed page/limit query values fall
// back to defaults instead of erroring.
func (pc *PostController) Index(w http.ResponseWriter, r *http.Request) {
	params := models.ParsePageParams(r.URL.Query().Get("page"), r.URL.Query().Get("limit"))

	page, err := pc.posts.ListPosts(r.Context(), params)
	if err != nil {
		pc.sendError(w, r, err)
		return
	}
	pc.sendJSON(w, http.StatusOK, page.ToResponse())
}

// Show returns a single post.
func (pc *PostController) Show(w http.ResponseWriter, r *http.Request) {
	post, err := pc.posts.GetPost(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		pc.sendError(w, r, err)
		return
	}
	pc.sendJSON(w, http.StatusOK, post.ToResponse())
}

// Create stores a new post.
func (pc *PostController) Create(w http.ResponseWriter, r *http.Request) {
	var req createPostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pc.badRequest(w, "invalid JSON body")
		return
	}

	post := &models.Post{
		Title:   req.Title,
		Content: req.Content,
		Author:  req.Author,
		Status:  models.PostStatus(req.Status),
	}
	if err := pc.posts.CreatePost(r.Context(), post); err != nil {
		pc.sendError(w, r, err)
		return
	}
	pc.sendJSON(w, http.StatusCreated, post.ToResponse())
}

// Update applies a partial update to a post.
func (pc *PostController) Update(w http.ResponseWriter, r *http.Request) {
	var patch models.PostPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		pc.badRequest(w, "invalid JSON body")
		return
	}
	if patch.Empty() {
		pc.badRequest(w, "update supplies no fields")
		return
	}

	post, err := pc.posts.UpdatePost(r.Context(), mux.Vars(r)["id"], &patch)
	if err != nil {
		pc.sendError(w, r, err)
		return
	}
	pc.sendJSON(w, http.StatusOK, post.ToResponse())
}

type deletePostResponse struct {
	DeletedCommentCount int `json:"deletedCommentCount"`
}

// Delete removes a post and all its comments.
func (pc *PostController) Delete(w http.ResponseWriter, r *http.Request) {
	count, err := pc.posts.DeletePost(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		pc.sendError(w, r, err)
		return
	}
	pc.sendJSON(w, http.StatusOK, deletePostResponse{DeletedCommentCount: count})
}
