package db

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Queries struct {
	db      DBTX
	dialect Dialect
}

func (q *Queries) withTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx, dialect: q.dialect}
}

func (q *Queries) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return q.db.ExecContext(ctx, q.dialect.Rebind(query), args...)
}

func (q *Queries) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return q.db.QueryContext(ctx, q.dialect.Rebind(query), args...)
}

func (q *Queries) queryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return q.db.QueryRowContext(ctx, q.dialect.Rebind(query), args...)
}

// insert runs an INSERT ... RETURNING id statement.
func (q *Queries) insert(ctx context.Context, query string, args ...any) (int64, error) {
	var id int64
	if err := q.queryRow(ctx, query+` RETURNING id`, args...).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func unixNow() int64 { return time.Now().Unix() }

func tFromUnix(u int64) time.Time {
	if u <= 0 {
		return time.Time{}
	}
	return time.Unix(u, 0)
}

func nullToPtr(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}

func likePattern(s string) string {
	return "%" + strings.ToLower(strings.TrimSpace(s)) + "%"
}

/* ---------------- Employees ---------------- */

const employeeColumns = `id,name,username,password,phone,sex,id_number,status,create_time,update_time,create_user,update_user`

func scanEmployee(row scanner) (*Employee, error) {
	var e Employee
	var ca, ua int64
	var cu, uu sql.NullInt64
	if err := row.Scan(&e.ID, &e.Name, &e.Username, &e.PasswordHash, &e.Phone, &e.Sex, &e.IDNumber, &e.Status, &ca, &ua, &cu, &uu); err != nil {
		return nil, err
	}
	e.CreatedAt = tFromUnix(ca)
	e.UpdatedAt = tFromUnix(ua)
	e.CreateUser = nullToPtr(cu)
	e.UpdateUser = nullToPtr(uu)
	return &e, nil
}

func (q *Queries) HasAnyEmployee(ctx context.Context) (bool, error) {
	var n int
	if err := q.queryRow(ctx, `SELECT COUNT(1) FROM employee`).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// GetEmployeeByID returns nil, nil when no row matches.
func (q *Queries) GetEmployeeByID(ctx context.Context, id int64) (*Employee, error) {
	e, err := scanEmployee(q.queryRow(ctx, `SELECT `+employeeColumns+` FROM employee WHERE id=?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return e, err
}

// GetEmployeeByUsername returns nil, nil when no row matches.
func (q *Queries) GetEmployeeByUsername(ctx context.Context, username string) (*Employee, error) {
	e, err := scanEmployee(q.queryRow(ctx, `SELECT `+employeeColumns+` FROM employee WHERE username=?`, username))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return e, err
}

func (q *Queries) PageEmployees(ctx context.Context, name string, limit, offset int) ([]Employee, int64, error) {
	where := ""
	var args []any
	if strings.TrimSpace(name) != "" {
		where = ` WHERE lower(name) LIKE ?`
		args = append(args, likePattern(name))
	}

	var total int64
	if err := q.queryRow(ctx, `SELECT COUNT(1) FROM employee`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := q.query(ctx, `
		SELECT `+employeeColumns+` FROM employee`+where+`
		ORDER BY create_time DESC, id DESC
		LIMIT ? OFFSET ?`, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *e)
	}
	return out, total, rows.Err()
}

func (q *Queries) CreateEmployee(ctx context.Context, p CreateEmployeeParams) (int64, error) {
	now := unixNow()
	return q.insert(ctx, `
		INSERT INTO employee(name,username,password,phone,sex,id_number,status,create_time,update_time,create_user,update_user)
		VALUES(?,?,?,?,?,?,?,?,?,?,?)`,
		p.Name, p.Username, p.PasswordHash, p.Phone, p.Sex, p.IDNumber, p.Status, now, now, p.Actor, p.Actor)
}

// UpdateEmployee updates the profile columns only and reports the affected row count.
func (q *Queries) UpdateEmployee(ctx context.Context, p UpdateEmployeeParams) (int64, error) {
	res, err := q.exec(ctx, `
		UPDATE employee SET name=?, username=?, phone=?, sex=?, id_number=?, update_time=?, update_user=?
		WHERE id=?`,
		p.Name, p.Username, p.Phone, p.Sex, p.IDNumber, unixNow(), p.Actor, p.ID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (q *Queries) SetEmployeeStatus(ctx context.Context, id int64, status int, actor *int64) (int64, error) {
	res, err := q.exec(ctx, `UPDATE employee SET status=?, update_time=?, update_user=? WHERE id=?`, status, unixNow(), actor, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (q *Queries) SetEmployeePassword(ctx context.Context, id int64, hash string, actor *int64) error {
	_, err := q.exec(ctx, `UPDATE employee SET password=?, update_time=?, update_user=? WHERE id=?`, hash, unixNow(), actor, id)
	return err
}
