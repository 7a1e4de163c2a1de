package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fengzishiyi/campus-radio/internal/dto"
	"github.com/fengzishiyi/campus-radio/internal/model"
	"github.com/fengzishiyi/campus-radio/internal/service"
	"github.com/fengzishiyi/campus-radio/pkg/jwt"
	"github.com/fengzishiyi/campus-radio/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock BookingService ──

type mockBookingService struct {
	createResult *dto.BookingResponse
	createErr    error
	cancelResult *dto.BookingResponse
	cancelErr    error
	myResult     *dto.MyBookingsResponse
	myErr        error
	dayResult    *dto.DayDetailResponse
	dayErr       error
}

func (m *mockBookingService) Create(_ context.Context, _ string, _ *dto.CreateBookingRequest) (*dto.BookingResponse, error) {
	return m.createResult, m.createErr
}
func (m *mockBookingService) Cancel(_ context.Context, _, _ string, _ bool) (*dto.BookingResponse, error) {
	return m.cancelResult, m.cancelErr
}
func (m *mockBookingService) MyBookings(_ context.Context, _ string) (*dto.MyBookingsResponse, error) {
	return m.myResult, m.myErr
}
func (m *mockBookingService) DayDetail(_ context.Context, _ time.Time) (*dto.DayDetailResponse, error) {
	return m.dayResult, m.dayErr
}

// ── Mock PermissionService ──

type mockPermissionService struct {
	checkErr   error
	listResult []dto.ModulePermissionResponse
	listErr    error
}

func (m *mockPermissionService) CheckEdit(_ context.Context, _, _ string) error {
	return m.checkErr
}
func (m *mockPermissionService) List(_ context.Context) ([]dto.ModulePermissionResponse, error) {
	return m.listResult, m.listErr
}
func (m *mockPermissionService) Update(_ context.Context, _ string, _ *dto.UpdateModulePermissionRequest) (*dto.ModulePermissionResponse, error) {
	return nil, nil
}

// ── Mock AuthService ──

type mockAuthService struct {
	loginResult *dto.TokenResponse
	loginErr    error
}

func (m *mockAuthService) Register(_ context.Context, _ *dto.RegisterRequest) (*dto.TokenResponse, error) {
	return nil, nil
}
func (m *mockAuthService) Login(_ context.Context, _ *dto.LoginRequest) (*dto.TokenResponse, error) {
	return m.loginResult, m.loginErr
}
func (m *mockAuthService) Refresh(_ context.Context, _ *dto.RefreshRequest) (*dto.TokenResponse, error) {
	return nil, nil
}
func (m *mockAuthService) Logout(_ context.Context, _ *jwt.Claims) error { return nil }
func (m *mockAuthService) ChangePassword(_ context.Context, _ string, _ *dto.ChangePasswordRequest) error {
	return nil
}
func (m *mockAuthService) GenerateInvites(_ context.Context, _ string, _ int) ([]dto.InviteCodeResponse, error) {
	return nil, nil
}
func (m *mockAuthService) ListInvites(_ context.Context, _, _ int) ([]dto.InviteCodeResponse, int64, error) {
	return nil, 0, nil
}

// ═══════════════════════════════════════════════════════════
// 测试辅助
// ═══════════════════════════════════════════════════════════

// fakeAuth 模拟 JWT 中间件注入的上下文
func fakeAuth(userID, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("role", role)
		c.Next()
	}
}

func doJSON(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var resp response.Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("响应解析失败: %v", err)
	}
	return resp
}

// ═══════════════════════════════════════════════════════════
// 预约 Handler
// ═══════════════════════════════════════════════════════════

func setupBookingRouter(bookingSvc service.BookingService, permSvc service.PermissionService, role string) *gin.Engine {
	h := NewBookingHandler(bookingSvc, permSvc)
	r := gin.New()
	r.Use(fakeAuth("user-1", role))
	r.POST("/bookings", h.CreateBooking)
	r.DELETE("/bookings/:id", h.CancelBooking)
	r.GET("/studio/days/:date", h.DayDetail)
	return r
}

func validBookingBody() map[string]interface{} {
	return map[string]interface{}{
		"date":       "2026-09-07",
		"start_time": "10:00",
		"end_time":   "11:00",
		"purpose":    "录制节目",
	}
}

func TestCreateBookingHandler_Success(t *testing.T) {
	svc := &mockBookingService{createResult: &dto.BookingResponse{ID: "b-1", Status: "confirmed"}}
	r := setupBookingRouter(svc, &mockPermissionService{}, "anchor")

	w := doJSON(r, http.MethodPost, "/bookings", validBookingBody())
	if w.Code != http.StatusCreated {
		t.Fatalf("期望 201，实际 %d: %s", w.Code, w.Body.String())
	}
}

func TestCreateBookingHandler_Conflict(t *testing.T) {
	svc := &mockBookingService{createErr: &service.BookingConflictError{
		Conflicting: &model.StudioBooking{StartTime: "10:00", EndTime: "11:00"},
	}}
	r := setupBookingRouter(svc, &mockPermissionService{}, "anchor")

	w := doJSON(r, http.MethodPost, "/bookings", validBookingBody())
	if w.Code != http.StatusConflict {
		t.Fatalf("冲突应返回 409，实际 %d", w.Code)
	}
	if resp := decodeResponse(t, w); resp.Code != 30002 {
		t.Errorf("冲突业务码应为 30002，实际 %d", resp.Code)
	}
}

func TestCreateBookingHandler_InvalidRange(t *testing.T) {
	svc := &mockBookingService{createErr: service.ErrInvalidTimeRange}
	r := setupBookingRouter(svc, &mockPermissionService{}, "anchor")

	w := doJSON(r, http.MethodPost, "/bookings", validBookingBody())
	if w.Code != http.StatusBadRequest {
		t.Fatalf("非法区间应返回 400，实际 %d", w.Code)
	}
	if resp := decodeResponse(t, w); resp.Code != 30001 {
		t.Errorf("非法区间业务码应为 30001，实际 %d", resp.Code)
	}
}

func TestCreateBookingHandler_ModuleForbidden(t *testing.T) {
	perm := &mockPermissionService{checkErr: service.ErrModuleForbidden}
	r := setupBookingRouter(&mockBookingService{}, perm, "himalaya")

	w := doJSON(r, http.MethodPost, "/bookings", validBookingBody())
	if w.Code != http.StatusForbidden {
		t.Fatalf("板块无权限应返回 403，实际 %d", w.Code)
	}
	if resp := decodeResponse(t, w); resp.Code != 10003 {
		t.Errorf("业务码应为 10003，实际 %d", resp.Code)
	}
}

func TestCancelBookingHandler_Forbidden(t *testing.T) {
	svc := &mockBookingService{cancelErr: service.ErrCancelForbidden}
	r := setupBookingRouter(svc, &mockPermissionService{}, "anchor")

	w := doJSON(r, http.MethodDelete, "/bookings/b-1", nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("他人预约取消应返回 403，实际 %d", w.Code)
	}
	if resp := decodeResponse(t, w); resp.Code != 30004 {
		t.Errorf("业务码应为 30004，实际 %d", resp.Code)
	}
}

func TestDayDetailHandler_BadDate(t *testing.T) {
	r := setupBookingRouter(&mockBookingService{}, &mockPermissionService{}, "anchor")

	w := doJSON(r, http.MethodGet, "/studio/days/not-a-date", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("非法日期应返回 400，实际 %d", w.Code)
	}
	if resp := decodeResponse(t, w); resp.Code != 10001 {
		t.Errorf("业务码应为 10001，实际 %d", resp.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// 认证 Handler
// ═══════════════════════════════════════════════════════════

func TestLoginHandler_Success(t *testing.T) {
	svc := &mockAuthService{loginResult: &dto.TokenResponse{AccessToken: "tok", ExpiresIn: 900}}
	h := NewAuthHandler(svc)
	r := gin.New()
	r.POST("/auth/login", h.Login)

	w := doJSON(r, http.MethodPost, "/auth/login", map[string]string{
		"username": "alice", "password": "secret123",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际 %d: %s", w.Code, w.Body.String())
	}
}

func TestLoginHandler_WrongPassword(t *testing.T) {
	svc := &mockAuthService{loginErr: service.ErrInvalidCredentials}
	h := NewAuthHandler(svc)
	r := gin.New()
	r.POST("/auth/login", h.Login)

	w := doJSON(r, http.MethodPost, "/auth/login", map[string]string{
		"username": "alice", "password": "wrong",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("密码错误应返回 401，实际 %d", w.Code)
	}
	if resp := decodeResponse(t, w); resp.Code != 11001 {
		t.Errorf("业务码应为 11001，实际 %d", resp.Code)
	}
}

func TestLoginHandler_BindFail(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})
	r := gin.New()
	r.POST("/auth/login", h.Login)

	w := doJSON(r, http.MethodPost, "/auth/login", map[string]string{"username": "alice"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("缺少密码应返回 400，实际 %d", w.Code)
	}
}
