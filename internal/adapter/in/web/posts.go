package web

import (
	"errors"
	"net/http"

	"blogicum/internal/model"
	"blogicum/pkg/pagination"

	"github.com/go-chi/chi/v5"
)

type listPage struct {
	Category *model.Category
	Profile  *model.User
	Page     pagination.Page[model.Post]
	BaseURL  string
}

type detailPage struct {
	Post     model.Post
	Comments []model.Comment
	Form     form
}

type postFormPage struct {
	Mode       string
	Post       model.Post
	Form       form
	Categories []model.Category
	Locations  []model.Location
}

func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	page, err := h.posts.ListAvailable(r.Context(), r.URL.Query().Get("page"))
	if err != nil {
		h.fail(w, r, err, 0)
		return
	}
	h.render(w, r, http.StatusOK, "index", listPage{Page: page, BaseURL: "/"})
}

func (h *Handler) categoryPosts(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	category, page, err := h.posts.ListByCategory(r.Context(), slug, r.URL.Query().Get("page"))
	if err != nil {
		h.fail(w, r, err, 0)
		return
	}
	h.render(w, r, http.StatusOK, "category", listPage{
		Category: &category,
		Page:     page,
		BaseURL:  r.URL.Path,
	})
}

func (h *Handler) profile(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	author, page, err := h.posts.ListByAuthor(r.Context(), username, r.URL.Query().Get("page"))
	if err != nil {
		h.fail(w, r, err, 0)
		return
	}
	h.render(w, r, http.StatusOK, "profile", listPage{
		Profile: &author,
		Page:    page,
		BaseURL: r.URL.Path,
	})
}

func (h *Handler) postDetail(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(r, "postID")
	if !ok {
		h.notFound(w, r)
		return
	}
	h.renderDetail(w, r, postID, newForm(nil, nil))
}

func (h *Handler) renderDetail(w http.ResponseWriter, r *http.Request, postID int64, f form) {
	post, err := h.posts.GetPost(r.Context(), postID, currentUser(r))
	if err != nil {
		h.fail(w, r, err, 0)
		return
	}
	comments, err := h.comments.GetComments(r.Context(), postID)
	if err != nil {
		h.fail(w, r, err, 0)
		return
	}
	h.render(w, r, http.StatusOK, "detail", detailPage{Post: post, Comments: comments, Form: f})
}

func (h *Handler) createPost(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	if r.Method != http.MethodPost {
		h.renderPostForm(w, r, postFormPage{Mode: "create", Form: newForm(nil, nil)})
		return
	}

	if err := r.ParseForm(); err != nil {
		h.renderStatus(w, r, http.StatusBadRequest)
		return
	}
	req, verr := parsePostForm(r.PostForm)
	if verr != nil {
		h.renderPostForm(w, r, postFormPage{Mode: "create", Form: newForm(r.PostForm, verr)})
		return
	}

	_, err := h.posts.CreatePost(r.Context(), *user, req)
	if errors.As(err, &verr) {
		h.renderPostForm(w, r, postFormPage{Mode: "create", Form: newForm(r.PostForm, verr)})
		return
	}
	if err != nil {
		h.fail(w, r, err, 0)
		return
	}
	redirect(w, r, profileURL(user.Username))
}

func (h *Handler) editPost(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(r, "postID")
	if !ok {
		h.notFound(w, r)
		return
	}
	user := currentUser(r)

	post, err := h.posts.PostForChange(r.Context(), *user, postID)
	if err != nil {
		h.fail(w, r, err, postID)
		return
	}

	if r.Method != http.MethodPost {
		h.renderPostForm(w, r, postFormPage{Mode: "edit", Post: post, Form: newForm(postFormValues(post), nil)})
		return
	}

	if err := r.ParseForm(); err != nil {
		h.renderStatus(w, r, http.StatusBadRequest)
		return
	}
	req, verr := parsePostForm(r.PostForm)
	if verr != nil {
		h.renderPostForm(w, r, postFormPage{Mode: "edit", Post: post, Form: newForm(r.PostForm, verr)})
		return
	}

	_, err = h.posts.UpdatePost(r.Context(), *user, postID, req)
	if errors.As(err, &verr) {
		h.renderPostForm(w, r, postFormPage{Mode: "edit", Post: post, Form: newForm(r.PostForm, verr)})
		return
	}
	if err != nil {
		h.fail(w, r, err, postID)
		return
	}
	redirect(w, r, postURL(postID))
}

func (h *Handler) deletePost(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(r, "postID")
	if !ok {
		h.notFound(w, r)
		return
	}
	user := currentUser(r)

	if r.Method != http.MethodPost {
		post, err := h.posts.PostForChange(r.Context(), *user, postID)
		if err != nil {
			h.fail(w, r, err, postID)
			return
		}
		h.renderPostForm(w, r, postFormPage{Mode: "delete", Post: post, Form: newForm(postFormValues(post), nil)})
		return
	}

	if err := h.posts.DeletePost(r.Context(), *user, postID); err != nil {
		h.fail(w, r, err, postID)
		return
	}
	redirect(w, r, "/")
}

// renderPostForm fills the category and location choices. Only published
// ones are offered.
func (h *Handler) renderPostForm(w http.ResponseWriter, r *http.Request, p postFormPage) {
	if p.Mode != "delete" {
		categories, err := h.categories.GetCategories(r.Context())
		if err != nil {
			h.fail(w, r, err, 0)
			return
		}
		locations, err := h.categories.GetLocations(r.Context())
		if err != nil {
			h.fail(w, r, err, 0)
			return
		}
		for _, c := range categories {
			if c.IsPublished {
				p.Categories = append(p.Categories, c)
			}
		}
		for _, l := range locations {
			if l.IsPublished {
				p.Locations = append(p.Locations, l)
			}
		}
	}
	h.render(w, r, http.StatusOK, "create", p)
}
