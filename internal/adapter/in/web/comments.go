package web

import (
	"errors"
	"net/http"

	"blogicum/internal/model"
	"blogicum/internal/service"
)

type commentPage struct {
	Comment model.Comment
	Form    form
	Delete  bool
}

// addComment serves both the detail page form and the dedicated comment
// endpoint. An invalid comment re-renders the detail page.
func (h *Handler) addComment(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(r, "postID")
	if !ok {
		h.notFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		h.renderStatus(w, r, http.StatusBadRequest)
		return
	}

	_, err := h.comments.AddComment(r.Context(), *currentUser(r), postID, service.CommentRequest{
		Text: r.PostForm.Get("text"),
	})
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		h.renderDetail(w, r, postID, newForm(r.PostForm, verr))
		return
	}
	if err != nil {
		h.fail(w, r, err, 0)
		return
	}
	redirect(w, r, postURL(postID))
}

func (h *Handler) editComment(w http.ResponseWriter, r *http.Request) {
	postID, commentID, ok := commentPath(r)
	if !ok {
		h.notFound(w, r)
		return
	}
	user := currentUser(r)

	comment, err := h.comments.CommentForChange(r.Context(), *user, postID, commentID)
	if err != nil {
		h.fail(w, r, err, postID)
		return
	}

	if r.Method != http.MethodPost {
		h.render(w, r, http.StatusOK, "comment", commentPage{
			Comment: comment,
			Form:    newForm(map[string][]string{"text": {comment.Text}}, nil),
		})
		return
	}

	if err := r.ParseForm(); err != nil {
		h.renderStatus(w, r, http.StatusBadRequest)
		return
	}
	_, err = h.comments.UpdateComment(r.Context(), *user, postID, commentID, service.CommentRequest{
		Text: r.PostForm.Get("text"),
	})
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		h.render(w, r, http.StatusOK, "comment", commentPage{Comment: comment, Form: newForm(r.PostForm, verr)})
		return
	}
	if err != nil {
		h.fail(w, r, err, postID)
		return
	}
	redirect(w, r, postURL(postID))
}

func (h *Handler) deleteComment(w http.ResponseWriter, r *http.Request) {
	postID, commentID, ok := commentPath(r)
	if !ok {
		h.notFound(w, r)
		return
	}
	user := currentUser(r)

	if r.Method != http.MethodPost {
		comment, err := h.comments.CommentForChange(r.Context(), *user, postID, commentID)
		if err != nil {
			h.fail(w, r, err, postID)
			return
		}
		h.render(w, r, http.StatusOK, "comment", commentPage{Comment: comment, Delete: true})
		return
	}

	if err := h.comments.DeleteComment(r.Context(), *user, postID, commentID); err != nil {
		h.fail(w, r, err, postID)
		return
	}
	redirect(w, r, postURL(postID))
}

func commentPath(r *http.Request) (postID, commentID int64, ok bool) {
	if postID, ok = pathID(r, "postID"); !ok {
		return 0, 0, false
	}
	if commentID, ok = pathID(r, "commentID"); !ok {
		return 0, 0, false
	}
	return postID, commentID, true
}
