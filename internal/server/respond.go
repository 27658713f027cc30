package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	goerrors "github.com/goliatone/go-errors"

	"github.com/sinwaunyu/site/internal/airtable"
	"github.com/sinwaunyu/site/internal/content"
	"github.com/sinwaunyu/site/pkg/api"
)

// User-facing messages, as shown by the site's forms.
const (
	msgRequired    = "必須項目が入力されていません。"
	msgConfig      = "サーバー設定が不足しています。"
	msgSendFailed  = "お問い合わせの送信に失敗しました。"
	msgServerError = "サーバー側でエラーが発生しました。"
)

type errorBody struct {
	Error       string   `json:"error"`
	Code        string   `json:"code,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
	RequestID   string   `json:"request_id,omitempty"`
}

// writeJSON writes v with an ETag. Successful GETs honour If-None-Match.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		http.Error(w, msgServerError, http.StatusInternalServerError)
		return
	}
	writeBody(w, r, status, "application/json; charset=utf-8", body)
}

func writeBody(w http.ResponseWriter, r *http.Request, status int, contentType string, body []byte) {
	if status == http.StatusOK && (r.Method == http.MethodGet || r.Method == http.MethodHead) {
		tag := api.ETag(body)
		w.Header().Set("ETag", tag)
		if etagMatch(r.Header.Get("If-None-Match"), tag) {
			w.WriteHeader(http.StatusNotModified)
			return
		}
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func etagMatch(header, tag string) bool {
	for _, part := range strings.Split(header, ",") {
		part = strings.TrimPrefix(strings.TrimSpace(part), "W/")
		if part == tag || part == "*" {
			return true
		}
	}
	return false
}

// errorStatus maps err to an HTTP status and its categorised form.
func errorStatus(err error) (int, *goerrors.Error) {
	e := goerrors.MapToError(err, goerrors.DefaultErrorMappers())
	switch {
	case errors.Is(err, content.ErrNotFound):
		return http.StatusNotFound, e
	case goerrors.IsCategory(e, goerrors.CategoryValidation), goerrors.IsCategory(e, goerrors.CategoryBadInput):
		return http.StatusBadRequest, e
	default:
		return http.StatusInternalServerError, e
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, e := errorStatus(err)
	body := errorBody{Code: e.TextCode, RequestID: RequestID(r.Context())}
	switch status {
	case http.StatusNotFound:
		body.Error = "not found"
		var nf *content.NotFoundError
		if errors.As(err, &nf) {
			body.Suggestions = nf.Suggestions
		}
	case http.StatusBadRequest:
		body.Error = e.Message
	default:
		body.Error = msgServerError
		if e.TextCode == "CONFIG_MISSING" {
			body.Error = msgConfig
		}
		s.log.Error("http.handler.failed", "path", r.URL.Path, "error", err, "request_id", body.RequestID)
	}
	writeJSON(w, r, status, body)
}

func badInput(msg string) error {
	return goerrors.New(msg, goerrors.CategoryBadInput).WithTextCode("BAD_REQUEST")
}

// limitParam reads ?limit=, defaulting to def and capped at the upstream page
// size.
func limitParam(r *http.Request, def int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("limit"))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, badInput("limit must be a positive integer")
	}
	return airtable.ClampPageSize(n), nil
}
