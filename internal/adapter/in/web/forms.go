package web

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"blogicum/internal/model"
	"blogicum/internal/service"

	"github.com/go-chi/chi/v5"
)

func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func checkbox(values url.Values, field string) bool {
	switch values.Get(field) {
	case "on", "true", "1":
		return true
	}
	return false
}

// parsePostForm reads the post form. Malformed dates and ids are reported
// the same way validation errors are.
func parsePostForm(values url.Values) (service.PostRequest, *service.ValidationError) {
	req := service.PostRequest{
		Title:       values.Get("title"),
		Text:        values.Get("text"),
		IsPublished: checkbox(values, "is_published"),
	}
	fields := map[string]string{}

	if raw := strings.TrimSpace(values.Get("pub_date")); raw != "" {
		t, err := time.ParseInLocation(formDateLayout, raw, time.Local)
		if err != nil {
			fields["pub_date"] = "Enter a valid date/time."
		}
		req.PubDate = t
	}

	if raw := strings.TrimSpace(values.Get("category")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			fields["category"] = "Select a valid choice."
		}
		req.CategoryID = id
	}

	if raw := strings.TrimSpace(values.Get("location")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			fields["location"] = "Select a valid choice."
		} else {
			req.LocationID = &id
		}
	}

	if len(fields) > 0 {
		return req, &service.ValidationError{Fields: fields}
	}
	return req, nil
}

func postFormValues(p model.Post) url.Values {
	v := url.Values{}
	v.Set("title", p.Title)
	v.Set("text", p.Text)
	if !p.PubDate.IsZero() {
		v.Set("pub_date", p.PubDate.In(time.Local).Format(formDateLayout))
	}
	v.Set("category", strconv.FormatInt(p.CategoryID, 10))
	if p.LocationID != nil {
		v.Set("location", strconv.FormatInt(*p.LocationID, 10))
	}
	if p.IsPublished {
		v.Set("is_published", "on")
	}
	return v
}

func profileFormValues(u model.User) url.Values {
	return url.Values{
		"username":   {u.Username},
		"email":      {u.Email},
		"first_name": {u.FirstName},
		"last_name":  {u.LastName},
	}
}

// safeNext keeps post-login redirects on this site.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}
