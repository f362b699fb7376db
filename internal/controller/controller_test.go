package controller

import (
	"bytes"
	"carevo_backend/internal/model"
	"carevo_backend/internal/service"
	"carevo_backend/internal/util"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

type memCareers struct {
	careers []model.Career
	err     error
}

func (m *memCareers) List(context.Context) ([]model.Career, error) {
	return m.careers, m.err
}

func (m *memCareers) FindByID(_ context.Context, id uint) (*model.Career, error) {
	for i := range m.careers {
		if m.careers[i].ID == id {
			return &m.careers[i], nil
		}
	}
	return nil, m.err
}

func (m *memCareers) FindByName(_ context.Context, name string) (*model.Career, error) {
	for i := range m.careers {
		if strings.EqualFold(m.careers[i].Name, name) {
			return &m.careers[i], nil
		}
	}
	return nil, m.err
}

func (m *memCareers) Create(_ context.Context, c *model.Career) error {
	c.ID = uint(len(m.careers) + 1)
	m.careers = append(m.careers, *c)
	return nil
}

func careerRouter(store *memCareers) *gin.Engine {
	gin.SetMode(gin.TestMode)
	ctrl := NewCareerController(service.NewCareerService(store))
	r := gin.New()
	r.GET("/api/careers", ctrl.List)
	r.GET("/api/careers/:id", ctrl.Get)
	r.POST("/api/admin/careers", ctrl.Create)
	return r
}

func serve(r *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, util.Response) {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp util.Response
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w, resp
}

func TestCareerGet(t *testing.T) {
	store := &memCareers{careers: []model.Career{{BaseModel: model.BaseModel{ID: 1}, Name: "Data Analyst"}}}
	r := careerRouter(store)

	tests := []struct {
		path   string
		status int
	}{
		{"/api/careers/1", http.StatusOK},
		{"/api/careers/2", http.StatusNotFound},
		{"/api/careers/abc", http.StatusBadRequest},
		{"/api/careers/0", http.StatusBadRequest},
	}
	for _, tt := range tests {
		w, resp := serve(r, http.MethodGet, tt.path, "")
		if w.Code != tt.status || resp.Code != tt.status {
			t.Errorf("GET %s = %d (envelope %d), want %d", tt.path, w.Code, resp.Code, tt.status)
		}
	}
}

func TestCareerCreate(t *testing.T) {
	store := &memCareers{careers: []model.Career{{BaseModel: model.BaseModel{ID: 1}, Name: "Data Analyst"}}}
	r := careerRouter(store)

	w, _ := serve(r, http.MethodPost, "/api/admin/careers", `{"name":"Cloud Architect","salaryMin":90000,"salaryMax":180000}`)
	if w.Code != http.StatusCreated {
		t.Errorf("create status = %d, want 201: %s", w.Code, w.Body.String())
	}

	w, _ = serve(r, http.MethodPost, "/api/admin/careers", `{"name":"data analyst"}`)
	if w.Code != http.StatusConflict {
		t.Errorf("duplicate status = %d, want 409", w.Code)
	}

	w, _ = serve(r, http.MethodPost, "/api/admin/careers", `{"name":"Bad","salaryMin":100,"salaryMax":50}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("inverted salary status = %d, want 400", w.Code)
	}
}

func TestCareerListStoreFailure(t *testing.T) {
	r := careerRouter(&memCareers{err: errors.New("connection refused")})

	w, resp := serve(r, http.MethodGet, "/api/careers", "")
	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
	if strings.Contains(resp.Message, "connection refused") {
		t.Errorf("message leaks internals: %q", resp.Message)
	}
}

func TestHandlersRequireUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/overview", NewAnalyticsController(nil).GetOverview)
	r.POST("/check-in", NewGamificationController(nil).CheckIn)

	for _, tt := range []struct{ method, path string }{
		{http.MethodGet, "/overview"},
		{http.MethodPost, "/check-in"},
	} {
		if w, _ := serve(r, tt.method, tt.path, ""); w.Code != http.StatusUnauthorized {
			t.Errorf("%s %s = %d, want 401", tt.method, tt.path, w.Code)
		}
	}
}
