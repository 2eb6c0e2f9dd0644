package handlers

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sky-admin-go/internal/app"
	"sky-admin-go/internal/db"
	"sky-admin-go/internal/service"
)

type testEnv struct {
	app    *app.App
	router http.Handler
	token  string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	a, err := app.New(app.Config{
		DBDSN:                  ":memory:",
		JWTSecret:              []byte(strings.Repeat("s", 32)),
		SkipSeed:               true,
		BootstrapAdminUsername: "admin",
		BootstrapAdminPassword: "admin123",
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	env := &testEnv{app: a, router: NewRouter(a)}

	var login struct {
		Code int     `json:"code"`
		Data loginVO `json:"data"`
	}
	rec := env.do(t, http.MethodPost, "/admin/employee/login", `{"username":"admin","password":"admin123"}`, false)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))
	require.Equal(t, 1, login.Code)
	require.NotEmpty(t, login.Data.Token)
	assert.Equal(t, "admin", login.Data.UserName)
	env.token = login.Data.Token
	return env
}

func (e *testEnv) do(t *testing.T, method, target, body string, authed bool) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, target, rd)
	req.Header.Set("Content-Type", "application/json")
	if authed {
		req.Header.Set(app.TokenHeader, e.token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeResult(t *testing.T, rec *httptest.ResponseRecorder, data any) Result {
	t.Helper()
	var raw struct {
		Code int                 `json:"code"`
		Msg  string              `json:"msg"`
		Data jsoniter.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	if data != nil {
		require.NoError(t, json.Unmarshal(raw.Data, data))
	}
	return Result{Code: raw.Code, Msg: raw.Msg}
}

func (e *testEnv) category(t *testing.T, name string) int64 {
	t.Helper()
	id, err := e.app.Store().Q.CreateCategory(context.Background(), db.CreateCategoryParams{Type: db.CategoryTypeDish, Name: name, Status: db.StatusEnabled})
	require.NoError(t, err)
	return id
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/health", "", false)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestLoginFailures(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{name: "wrong password", body: `{"username":"admin","password":"nope"}`, status: http.StatusUnauthorized},
		{name: "unknown", body: `{"username":"ghost","password":"x"}`, status: http.StatusNotFound},
		{name: "empty body", body: "", status: http.StatusBadRequest},
		{name: "malformed", body: `{"username":`, status: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/admin/employee/login", tt.body, false)
			assert.Equal(t, tt.status, rec.Code)
			res := decodeResult(t, rec, nil)
			assert.Equal(t, 0, res.Code)
			assert.NotEmpty(t, res.Msg)
		})
	}
}

func TestAdminRoutesRequireToken(t *testing.T) {
	env := newTestEnv(t)
	for _, target := range []string{"/admin/employee/page", "/admin/dish/page", "/admin/dish/1"} {
		rec := env.do(t, http.MethodGet, target, "", false)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, target)
	}
}

func TestEmployeeEndpoints(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/admin/employee", `{"username":"cook01","name":"Cook One","phone":"13700000000","sex":"0"}`, true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var id int64
	decodeResult(t, rec, &id)
	require.Positive(t, id)

	rec = env.do(t, http.MethodPost, "/admin/employee", `{"username":"cook01","name":"Again"}`, true)
	assert.Equal(t, http.StatusConflict, rec.Code)

	var page service.PageResult[service.EmployeeVO]
	rec = env.do(t, http.MethodGet, "/admin/employee/page?name=cook&page=1&pageSize=10", "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeResult(t, rec, &page)
	assert.Equal(t, int64(1), page.Total)

	rec = env.do(t, http.MethodPut, "/admin/employee", `{"id":`+itoa(id)+`,"username":"cook01","name":"Chef One"}`, true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var vo service.EmployeeVO
	rec = env.do(t, http.MethodGet, "/admin/employee/"+itoa(id), "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeResult(t, rec, &vo)
	assert.Equal(t, "Chef One", vo.Name)

	rec = env.do(t, http.MethodPost, "/admin/employee/status/0?id="+itoa(id), "", true)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPost, "/admin/employee/login", `{"username":"cook01","password":"123456"}`, false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "disabled account")

	rec = env.do(t, http.MethodPost, "/admin/employee/status/9?id="+itoa(id), "", true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = env.do(t, http.MethodGet, "/admin/employee/99999", "", true)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodPut, "/admin/employee/editPassword", `{"oldPassword":"admin123","newPassword":"admin456"}`, true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = env.do(t, http.MethodPost, "/admin/employee/login", `{"username":"admin","password":"admin456"}`, false)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPost, "/admin/employee/logout", "", true)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestEditPasswordOfOtherEmployeeForbidden(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/admin/employee", `{"username":"cook02","name":"Cook Two"}`, true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var id int64
	decodeResult(t, rec, &id)

	rec = env.do(t, http.MethodPut, "/admin/employee/editPassword", `{"empId":`+itoa(id)+`,"oldPassword":"123456","newPassword":"hijack1"}`, true)
	assert.Equal(t, http.StatusForbidden, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodPost, "/admin/employee/login", `{"username":"cook02","password":"123456"}`, false)
	assert.Equal(t, http.StatusOK, rec.Code, "password unchanged")
}

func TestTokenOfInactiveEmployeeRejected(t *testing.T) {
	ctx := context.Background()

	t.Run("disabled", func(t *testing.T) {
		env := newTestEnv(t)
		admin, err := env.app.Store().Q.GetEmployeeByUsername(ctx, "admin")
		require.NoError(t, err)
		require.NotNil(t, admin)

		rec := env.do(t, http.MethodGet, "/admin/employee/page", "", true)
		require.Equal(t, http.StatusOK, rec.Code)

		require.NoError(t, env.app.Employees().ChangeStatus(ctx, db.StatusDisabled, admin.ID))
		rec = env.do(t, http.MethodGet, "/admin/employee/page", "", true)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		require.NoError(t, env.app.Employees().ChangeStatus(ctx, db.StatusEnabled, admin.ID))
		rec = env.do(t, http.MethodGet, "/admin/employee/page", "", true)
		assert.Equal(t, http.StatusOK, rec.Code, "re-enabled token works again")
	})

	t.Run("deleted", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.app.Store().DB.ExecContext(ctx, `DELETE FROM employee`)
		require.NoError(t, err)

		rec := env.do(t, http.MethodPost, "/admin/dish/status/1?id=1", "", true)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestDishEndpoints(t *testing.T) {
	env := newTestEnv(t)
	c1 := env.category(t, "Hot Dishes")

	body := `{"name":"Mapo Tofu","categoryId":` + itoa(c1) + `,"price":28.5,"status":1,
		"flavors":[{"name":"Spicy","value":"[\"Mild\",\"Hot\"]"}]}`
	rec := env.do(t, http.MethodPost, "/admin/dish", body, true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var d1 int64
	decodeResult(t, rec, &d1)

	rec = env.do(t, http.MethodPost, "/admin/dish", `{"name":"Plain Rice","categoryId":`+itoa(c1)+`,"price":2}`, true)
	require.Equal(t, http.StatusOK, rec.Code)
	var d2 int64
	decodeResult(t, rec, &d2)

	var menu []service.DishVO
	rec = env.do(t, http.MethodGet, "/user/dish/list?categoryId="+itoa(c1), "", false)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeResult(t, rec, &menu)
	require.Len(t, menu, 1, "only on-sale dishes")
	assert.Equal(t, "Mapo Tofu", menu[0].Name)
	require.Len(t, menu[0].Flavors, 1)

	var vo service.DishVO
	rec = env.do(t, http.MethodGet, "/admin/dish/"+itoa(d1), "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeResult(t, rec, &vo)
	assert.Equal(t, 28.5, vo.Price)

	var page service.PageResult[service.DishVO]
	rec = env.do(t, http.MethodGet, "/admin/dish/page?categoryId="+itoa(c1)+"&page=1&pageSize=10", "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeResult(t, rec, &page)
	assert.Equal(t, int64(2), page.Total)
	assert.Equal(t, "Hot Dishes", page.Records[0].CategoryName)

	var rows []dishRow
	rec = env.do(t, http.MethodGet, "/admin/dish/list?categoryId="+itoa(c1), "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeResult(t, rec, &rows)
	assert.Len(t, rows, 1)

	rec = env.do(t, http.MethodDelete, "/admin/dish?ids="+itoa(d1)+","+itoa(d2), "", true)
	assert.Equal(t, http.StatusConflict, rec.Code, "on-sale dish blocks the batch")
	rec = env.do(t, http.MethodGet, "/admin/dish/"+itoa(d2), "", true)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPut, "/admin/dish", `{"id":`+itoa(d1)+`,"name":"Mapo Tofu","categoryId":`+itoa(c1)+`,"price":30,"flavors":[]}`, true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodGet, "/user/dish/list?categoryId="+itoa(c1), "", false)
	decodeResult(t, rec, &menu)
	require.Len(t, menu, 1)
	assert.Equal(t, 30.0, menu[0].Price, "modify invalidated the cached menu")
	assert.Empty(t, menu[0].Flavors)

	rec = env.do(t, http.MethodPost, "/admin/dish/status/0?id="+itoa(d1), "", true)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodDelete, "/admin/dish?ids="+itoa(d1)+","+itoa(d2), "", true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = env.do(t, http.MethodGet, "/admin/dish/"+itoa(d1), "", true)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodDelete, "/admin/dish?ids=abc", "", true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = env.do(t, http.MethodGet, "/user/dish/list", "", false)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMenuEventsStream(t *testing.T) {
	env := newTestEnv(t)
	c1 := env.category(t, "Streamed")

	srv := httptest.NewServer(env.router)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/user/dish/events?categoryId="+itoa(c1), nil)
	require.NoError(t, err)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	buf := make([]byte, 4096)
	n, err := resp.Body.Read(buf)
	require.NoError(t, err)
	assert.Contains(t, string(buf[:n]), "event: hello")

	require.Eventually(t, func() bool { return env.app.SSE().Subscribers(app.TopicCategory(c1)) == 1 }, time.Second, 10*time.Millisecond)
	rec := env.do(t, http.MethodPost, "/admin/dish", `{"name":"Live Dish","categoryId":`+itoa(c1)+`,"price":1}`, true)
	require.Equal(t, http.StatusOK, rec.Code)

	var got strings.Builder
	for !strings.Contains(got.String(), "event: dish.changed") {
		n, err := resp.Body.Read(buf)
		require.NoError(t, err)
		got.Write(buf[:n])
	}
	assert.Contains(t, got.String(), `"categoryId":`+itoa(c1))
}

func itoa(v int64) string { return strconv.FormatInt(v, 10) }
