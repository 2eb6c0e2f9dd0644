package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"sky-admin-go/internal/service"
)

type loginVO struct {
	ID       int64  `json:"id"`
	UserName string `json:"userName"`
	Name     string `json:"name"`
	Token    string `json:"token"`
}

/* ---------------- Login / Logout ---------------- */

func (s *Server) EmployeeLoginPost(w http.ResponseWriter, r *http.Request) {
	var in service.EmployeeLoginDTO
	if err := decodeBody(w, r, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	e, err := s.App.Employees().Login(r.Context(), in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	token, err := s.App.Tokens().Issue(e.ID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.App.Logger().Info("employee logged in", "id", e.ID)
	s.ok(w, loginVO{ID: e.ID, UserName: e.Username, Name: e.Name, Token: token})
}

// EmployeeLogoutPost is a no-op: tokens are stateless and expire on their own.
func (s *Server) EmployeeLogoutPost(w http.ResponseWriter, r *http.Request) {
	s.ok(w, nil)
}

/* ---------------- Employees ---------------- */

func (s *Server) EmployeeCreatePost(w http.ResponseWriter, r *http.Request) {
	var in service.EmployeeDTO
	if err := decodeBody(w, r, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	id, err := s.App.Employees().Add(r.Context(), in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.ok(w, id)
}

func (s *Server) EmployeeUpdatePut(w http.ResponseWriter, r *http.Request) {
	var in service.EmployeeDTO
	if err := decodeBody(w, r, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.App.Employees().ModifyEmp(r.Context(), in); err != nil {
		s.fail(w, r, err)
		return
	}
	s.ok(w, nil)
}

func (s *Server) EmployeePageGet(w http.ResponseWriter, r *http.Request) {
	page, err := s.App.Employees().GetPage(r.Context(), service.EmployeePageQuery{
		Name:     r.URL.Query().Get("name"),
		Page:     queryInt(r, "page"),
		PageSize: queryInt(r, "pageSize"),
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.ok(w, page)
}

func (s *Server) EmployeeStatusPost(w http.ResponseWriter, r *http.Request) {
	status, id, err := statusAndID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.App.Employees().ChangeStatus(r.Context(), status, id); err != nil {
		s.fail(w, r, err)
		return
	}
	s.ok(w, nil)
}

func (s *Server) EmployeeGet(w http.ResponseWriter, r *http.Request) {
	id, ok := parseInt64(chi.URLParam(r, "id"))
	if !ok {
		s.fail(w, r, badParam("id"))
		return
	}
	vo, err := s.App.Employees().GetEmpByID(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.ok(w, vo)
}

// EmployeePasswordPut changes the caller's own password. An empId naming
// anyone else is refused with 403.
func (s *Server) EmployeePasswordPut(w http.ResponseWriter, r *http.Request) {
	var in service.PasswordEditDTO
	if err := decodeBody(w, r, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.App.Employees().EditPassword(r.Context(), in); err != nil {
		s.fail(w, r, err)
		return
	}
	s.ok(w, nil)
}
