package web

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"blogicum/internal/model"
	"blogicum/internal/service"
	"blogicum/pkg/logger"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	displayDateLayout = "2 January 2006, 15:04"
	formDateLayout    = "2006-01-02T15:04"
)

type views struct {
	pages map[string]*template.Template
}

var funcs = template.FuncMap{
	"date": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Local().Format(displayDateLayout)
	},
	"canModify": func(u *model.User, ownerID int64, superuserBypass bool) bool {
		if u == nil {
			return false
		}
		return service.CanModify(u.ID, ownerID, superuserBypass && u.IsSuperuser)
	},
	"pageURL": func(base string, number int) string {
		return base + "?page=" + strconv.Itoa(number)
	},
}

func loadViews() (*views, error) {
	names, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	v := &views{pages: make(map[string]*template.Template)}
	for _, name := range names {
		page := strings.TrimSuffix(strings.TrimPrefix(name, "templates/"), ".html")
		if page == "base" || strings.HasPrefix(page, "_") {
			continue
		}
		t, err := template.New(page).Funcs(funcs).ParseFS(templateFS,
			"templates/base.html", "templates/_*.html", name)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		v.pages[page] = t
	}
	return v, nil
}

// layout is the data every page sees: the signed-in user and the page's own
// content.
type layout struct {
	User    *model.User
	Content any
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, page string, content any) {
	t, ok := h.views.pages[page]
	if !ok {
		h.serverError(w, r, fmt.Errorf("unknown page %q", page))
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "base", layout{User: currentUser(r), Content: content}); err != nil {
		h.serverError(w, r, fmt.Errorf("render %s: %w", page, err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

type statusPage struct {
	Code int
	Text string
}

func (h *Handler) renderStatus(w http.ResponseWriter, r *http.Request, status int) {
	h.render(w, r, status, "status", statusPage{Code: status, Text: http.StatusText(status)})
}

func (h *Handler) notFound(w http.ResponseWriter, r *http.Request) {
	h.renderStatus(w, r, http.StatusNotFound)
}

func (h *Handler) serverError(w http.ResponseWriter, r *http.Request, err error) {
	logger.FromContext(r.Context()).Error("request failed", "error", err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

// fail turns a service error into a response. Forbidden changes go back to
// the post the resource belongs to.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error, postID int64) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		h.notFound(w, r)
	case errors.Is(err, service.ErrForbidden) && postID > 0:
		redirect(w, r, postURL(postID))
	case errors.Is(err, service.ErrForbidden):
		h.renderStatus(w, r, http.StatusForbidden)
	case errors.Is(err, service.ErrUnauthorized):
		http.Redirect(w, r, loginURL(r.URL.RequestURI()), http.StatusFound)
	default:
		h.serverError(w, r, err)
	}
}

func redirect(w http.ResponseWriter, r *http.Request, to string) {
	http.Redirect(w, r, to, http.StatusSeeOther)
}

func postURL(postID int64) string {
	return "/posts/" + strconv.FormatInt(postID, 10)
}

func profileURL(username string) string {
	return "/profile/" + url.PathEscape(username)
}

// form carries submitted values and per-field errors back into a template.
type form struct {
	Values url.Values
	Errors map[string]string
}

func newForm(values url.Values, err *service.ValidationError) form {
	f := form{Values: values, Errors: map[string]string{}}
	if f.Values == nil {
		f.Values = url.Values{}
	}
	if err != nil {
		f.Errors = err.Fields
	}
	return f
}

func (f form) Get(field string) string {
	return f.Values.Get(field)
}

func (f form) Error(field string) string {
	return f.Errors[field]
}

func (f form) Checked(field string) bool {
	return checkbox(f.Values, field)
}
