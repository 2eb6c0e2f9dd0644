package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"sky-admin-go/internal/auth"
	"sky-admin-go/internal/db"
)

type EmployeeService struct {
	store *db.Store
	log   *slog.Logger
}

func NewEmployeeService(store *db.Store, logger *slog.Logger) *EmployeeService {
	if logger == nil {
		logger = slog.Default()
	}
	return &EmployeeService{store: store, log: logger}
}

// Login checks the account status before the password, so a disabled
// account fails with ErrAccountDisabled even with the right credentials.
// The returned employee has its password hash cleared.
func (s *EmployeeService) Login(ctx context.Context, in EmployeeLoginDTO) (*db.Employee, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	username := auth.NormalizeUsername(in.Username)
	e, err := s.store.Q.GetEmployeeByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("get employee: %w", err)
	}
	if e == nil {
		return nil, fmt.Errorf("%w: employee %q", ErrNotFound, username)
	}
	if e.Status == db.StatusDisabled {
		return nil, fmt.Errorf("%w: %q", ErrAccountDisabled, username)
	}
	if !auth.CheckPassword(e.PasswordHash, in.Password) {
		return nil, ErrInvalidCredential
	}
	e.PasswordHash = ""
	return e, nil
}

func (s *EmployeeService) Add(ctx context.Context, in EmployeeDTO) (int64, error) {
	in.Username = auth.NormalizeUsername(in.Username)
	if err := in.Validate(); err != nil {
		return 0, err
	}
	existing, err := s.store.Q.GetEmployeeByUsername(ctx, in.Username)
	if err != nil {
		return 0, fmt.Errorf("get employee: %w", err)
	}
	if existing != nil {
		return 0, fmt.Errorf("%w: username %q", ErrConflict, in.Username)
	}

	hash, err := auth.HashPassword(auth.DefaultPassword)
	if err != nil {
		return 0, err
	}
	id, err := s.store.Q.CreateEmployee(ctx, db.CreateEmployeeParams{
		Name:         strings.TrimSpace(in.Name),
		Username:     in.Username,
		PasswordHash: hash,
		Phone:        in.Phone,
		Sex:          in.Sex,
		IDNumber:     in.IDNumber,
		Status:       db.StatusEnabled,
		Actor:        actorPtr(ctx),
	})
	if err != nil {
		return 0, fmt.Errorf("create employee: %w", err)
	}
	s.log.Info("employee created", "id", id, "username", in.Username)
	return id, nil
}

func (s *EmployeeService) GetPage(ctx context.Context, q EmployeePageQuery) (PageResult[EmployeeVO], error) {
	limit, offset := normalizePage(q.Page, q.PageSize)
	rows, total, err := s.store.Q.PageEmployees(ctx, q.Name, limit, offset)
	if err != nil {
		return PageResult[EmployeeVO]{}, fmt.Errorf("page employees: %w", err)
	}
	out := PageResult[EmployeeVO]{Total: total, Records: make([]EmployeeVO, 0, len(rows))}
	for i := range rows {
		out.Records = append(out.Records, toEmployeeVO(&rows[i]))
	}
	return out, nil
}

func (s *EmployeeService) ChangeStatus(ctx context.Context, status int, id int64) error {
	if err := validStatus(status); err != nil {
		return err
	}
	n, err := s.store.Q.SetEmployeeStatus(ctx, id, status, actorPtr(ctx))
	if err != nil {
		return fmt.Errorf("set employee status: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: employee %d", ErrNotFound, id)
	}
	return nil
}

func (s *EmployeeService) GetEmpByID(ctx context.Context, id int64) (EmployeeVO, error) {
	e, err := s.store.Q.GetEmployeeByID(ctx, id)
	if err != nil {
		return EmployeeVO{}, fmt.Errorf("get employee: %w", err)
	}
	if e == nil {
		return EmployeeVO{}, fmt.Errorf("%w: employee %d", ErrNotFound, id)
	}
	return toEmployeeVO(e), nil
}

// ModifyEmp updates profile fields only; the password is changed through EditPassword.
func (s *EmployeeService) ModifyEmp(ctx context.Context, in EmployeeDTO) error {
	in.Username = auth.NormalizeUsername(in.Username)
	if err := in.Validate(); err != nil {
		return err
	}
	other, err := s.store.Q.GetEmployeeByUsername(ctx, in.Username)
	if err != nil {
		return fmt.Errorf("get employee: %w", err)
	}
	if other != nil && other.ID != in.ID {
		return fmt.Errorf("%w: username %q", ErrConflict, in.Username)
	}

	n, err := s.store.Q.UpdateEmployee(ctx, db.UpdateEmployeeParams{
		ID:       in.ID,
		Name:     strings.TrimSpace(in.Name),
		Username: in.Username,
		Phone:    in.Phone,
		Sex:      in.Sex,
		IDNumber: in.IDNumber,
		Actor:    actorPtr(ctx),
	})
	if err != nil {
		return fmt.Errorf("update employee: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: employee %d", ErrNotFound, in.ID)
	}
	return nil
}

// EditPassword changes an employee's password after checking the old one.
// An authenticated caller may only change their own password; a zero EmpID
// names the caller.
func (s *EmployeeService) EditPassword(ctx context.Context, in PasswordEditDTO) error {
	if actor, ok := ActorID(ctx); ok {
		if in.EmpID == 0 {
			in.EmpID = actor
		}
		if in.EmpID != actor {
			return fmt.Errorf("%w: employee %d cannot change the password of employee %d", ErrForbidden, actor, in.EmpID)
		}
	}
	if err := in.Validate(); err != nil {
		return err
	}
	e, err := s.store.Q.GetEmployeeByID(ctx, in.EmpID)
	if err != nil {
		return fmt.Errorf("get employee: %w", err)
	}
	if e == nil {
		return fmt.Errorf("%w: employee %d", ErrNotFound, in.EmpID)
	}
	if !auth.CheckPassword(e.PasswordHash, in.OldPassword) {
		return ErrInvalidCredential
	}
	hash, err := auth.HashPassword(in.NewPassword)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if err := s.store.Q.SetEmployeePassword(ctx, e.ID, hash, actorPtr(ctx)); err != nil {
		return fmt.Errorf("set password: %w", err)
	}
	s.log.Info("employee password changed", "id", e.ID)
	return nil
}
