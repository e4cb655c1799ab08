package web

import (
	"errors"
	"net/http"

	"blogicum/internal/service"
	"blogicum/pkg/logger"
)

type authPage struct {
	Form form
	Next string
}

func (h *Handler) registration(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.render(w, r, http.StatusOK, "registration", authPage{Form: newForm(nil, nil)})
		return
	}

	if err := r.ParseForm(); err != nil {
		h.renderStatus(w, r, http.StatusBadRequest)
		return
	}
	values := r.PostForm

	if values.Get("password") != values.Get("password_confirm") {
		h.render(w, r, http.StatusOK, "registration", authPage{Form: newForm(values, &service.ValidationError{
			Fields: map[string]string{"password_confirm": "The two password fields didn't match."},
		})})
		return
	}

	user, err := h.users.Register(r.Context(), service.RegisterRequest{
		Username:  values.Get("username"),
		Email:     values.Get("email"),
		FirstName: values.Get("first_name"),
		LastName:  values.Get("last_name"),
		Password:  values.Get("password"),
	})
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		h.render(w, r, http.StatusOK, "registration", authPage{Form: newForm(values, verr)})
		return
	}
	if err != nil {
		h.fail(w, r, err, 0)
		return
	}

	logger.FromContext(r.Context()).Info("user registered", "user_id", user.ID)
	redirect(w, r, "/auth/login")
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.render(w, r, http.StatusOK, "login", authPage{
			Form: newForm(nil, nil),
			Next: r.URL.Query().Get("next"),
		})
		return
	}

	if err := r.ParseForm(); err != nil {
		h.renderStatus(w, r, http.StatusBadRequest)
		return
	}
	next := r.PostForm.Get("next")

	user, err := h.users.Authenticate(r.Context(), r.PostForm.Get("username"), r.PostForm.Get("password"))
	if errors.Is(err, service.ErrUnauthorized) {
		h.render(w, r, http.StatusOK, "login", authPage{
			Form: newForm(r.PostForm, &service.ValidationError{Fields: map[string]string{
				"__all__": "Please enter a correct username and password.",
			}}),
			Next: next,
		})
		return
	}
	if err != nil {
		h.fail(w, r, err, 0)
		return
	}

	if err := h.sessions.setCookie(w, user.ID); err != nil {
		h.serverError(w, r, err)
		return
	}
	redirect(w, r, safeNext(next))
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.clearCookie(w)
	redirect(w, r, "/")
}

func (h *Handler) editProfile(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	if r.Method != http.MethodPost {
		h.render(w, r, http.StatusOK, "user", authPage{Form: newForm(profileFormValues(*user), nil)})
		return
	}

	if err := r.ParseForm(); err != nil {
		h.renderStatus(w, r, http.StatusBadRequest)
		return
	}
	values := r.PostForm

	updated, err := h.users.UpdateProfile(r.Context(), *user, service.ProfileRequest{
		Username:  values.Get("username"),
		Email:     values.Get("email"),
		FirstName: values.Get("first_name"),
		LastName:  values.Get("last_name"),
	})
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		h.render(w, r, http.StatusOK, "user", authPage{Form: newForm(values, verr)})
		return
	}
	if err != nil {
		h.fail(w, r, err, 0)
		return
	}
	redirect(w, r, profileURL(updated.Username))
}
