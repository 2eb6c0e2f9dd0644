package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"sky-admin-go/internal/app"
	"sky-admin-go/internal/service"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const maxBodyBytes = 1 << 20

type Server struct {
	App *app.App
}

// Result is the envelope every JSON endpoint answers with. Code is 1 on
// success and 0 on failure.
type Result struct {
	Code int    `json:"code"`
	Msg  string `json:"msg,omitempty"`
	Data any    `json:"data"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) ok(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, Result{Code: 1, Data: data})
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		s.App.Logger().Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
		msg = "internal error"
	}
	writeJSON(w, status, Result{Code: 0, Msg: msg})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidCredential), errors.Is(err, service.ErrAccountDisabled):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrConflict),
		errors.Is(err, service.ErrDishOnSale),
		errors.Is(err, service.ErrDishReferencedBySetmeal):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, out any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: request body is empty", service.ErrValidation)
		}
		return fmt.Errorf("%w: malformed body: %v", service.ErrValidation, err)
	}
	return nil
}

func badParam(name string) error {
	return fmt.Errorf("%w: invalid parameter %s", service.ErrValidation, name)
}

func parseInt64(v string) (int64, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(v, 10, 64)
	return id, err == nil && id > 0
}

// optionalInt64 returns nil for an absent parameter.
func optionalInt64(r *http.Request, name string) (*int64, error) {
	v := strings.TrimSpace(r.URL.Query().Get(name))
	if v == "" {
		return nil, nil
	}
	id, ok := parseInt64(v)
	if !ok {
		return nil, badParam(name)
	}
	return &id, nil
}

func optionalInt(r *http.Request, name string) (*int, error) {
	v := strings.TrimSpace(r.URL.Query().Get(name))
	if v == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, badParam(name)
	}
	return &n, nil
}

func queryInt(r *http.Request, name string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(r.URL.Query().Get(name)))
	return n
}

func parseIDList(v string) ([]int64, error) {
	var ids []int64
	for _, p := range strings.Split(v, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		id, ok := parseInt64(p)
		if !ok {
			return nil, badParam("ids")
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	if err := s.App.Store().Ping(); err != nil {
		http.Error(w, "db not ok", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}
