package web

import (
	"errors"
	"net/http"

	"blogicum/internal/service"
)

type manageForm struct {
	Kind string
	Form form
}

func (h *Handler) createCategory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.render(w, r, http.StatusOK, "manage", manageForm{Kind: "category", Form: newForm(nil, nil)})
		return
	}

	if err := r.ParseForm(); err != nil {
		h.renderStatus(w, r, http.StatusBadRequest)
		return
	}
	values := r.PostForm

	category, err := h.categories.CreateCategory(r.Context(), *currentUser(r), service.CategoryRequest{
		Title:       values.Get("title"),
		Description: values.Get("description"),
		Slug:        values.Get("slug"),
		IsPublished: checkbox(values, "is_published"),
	})
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		h.render(w, r, http.StatusOK, "manage", manageForm{Kind: "category", Form: newForm(values, verr)})
		return
	}
	if err != nil {
		h.fail(w, r, err, 0)
		return
	}
	redirect(w, r, "/category/"+category.Slug)
}

func (h *Handler) createLocation(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.render(w, r, http.StatusOK, "manage", manageForm{Kind: "location", Form: newForm(nil, nil)})
		return
	}

	if err := r.ParseForm(); err != nil {
		h.renderStatus(w, r, http.StatusBadRequest)
		return
	}
	values := r.PostForm

	_, err := h.categories.CreateLocation(r.Context(), *currentUser(r), service.LocationRequest{
		Name:        values.Get("name"),
		IsPublished: checkbox(values, "is_published"),
	})
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		h.render(w, r, http.StatusOK, "manage", manageForm{Kind: "location", Form: newForm(values, verr)})
		return
	}
	if err != nil {
		h.fail(w, r, err, 0)
		return
	}
	redirect(w, r, "/posts/create")
}
