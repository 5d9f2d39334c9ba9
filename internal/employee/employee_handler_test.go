package employee_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-erp/internal/employee"
	employeeerrors "go-erp/internal/employee/errors"
	"go-erp/internal/workflow"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeEmployeeService struct {
	CreateFn     func(ctx context.Context, companyID string, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error)
	GetAllFn     func(ctx context.Context, companyID string) ([]employee.EmployeeResponse, error)
	GetOptionsFn func(ctx context.Context, companyID string) ([]employee.EmployeeResponse, error)
	GetByIDFn    func(ctx context.Context, companyID, id string) (employee.EmployeeResponse, error)
	UpdateRoleFn func(ctx context.Context, companyID, id string, req employee.UpdateRoleRequest) (employee.EmployeeResponse, error)
}

func (f *fakeEmployeeService) Create(ctx context.Context, companyID string, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	return f.CreateFn(ctx, companyID, req)
}
func (f *fakeEmployeeService) GetAll(ctx context.Context, companyID string) ([]employee.EmployeeResponse, error) {
	return f.GetAllFn(ctx, companyID)
}
func (f *fakeEmployeeService) GetOptions(ctx context.Context, companyID string) ([]employee.EmployeeResponse, error) {
	return f.GetOptionsFn(ctx, companyID)
}
func (f *fakeEmployeeService) GetByID(ctx context.Context, companyID, id string) (employee.EmployeeResponse, error) {
	return f.GetByIDFn(ctx, companyID, id)
}
func (f *fakeEmployeeService) UpdateRole(ctx context.Context, companyID, id string, req employee.UpdateRoleRequest) (employee.EmployeeResponse, error) {
	return f.UpdateRoleFn(ctx, companyID, id, req)
}
func (f *fakeEmployeeService) EmployeeIDsByRoles(ctx context.Context, companyID string, roles ...workflow.Role) ([]string, error) {
	return nil, nil
}

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func withCompany(companyID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("company_id", companyID)
		c.Next()
	}
}

type envelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code string `json:"code"`
	} `json:"error"`
}

func TestEmployeeHandler_Create(t *testing.T) {
	companyID := uuid.New().String()

	t.Run("success", func(t *testing.T) {
		svc := &fakeEmployeeService{
			CreateFn: func(ctx context.Context, cid string, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
				assert.Equal(t, companyID, cid)
				assert.Equal(t, "hr", req.Role)
				return employee.EmployeeResponse{ID: uuid.New().String(), FullName: req.FullName, Role: req.Role}, nil
			},
		}
		r := setupRouter()
		r.POST("/employees", withCompany(companyID), employee.NewHandler(svc).Create)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/employees", strings.NewReader(`{"full_name":"Sari","email":"sari@example.com","role":"hr"}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("negative unknown role rejected by binding", func(t *testing.T) {
		r := setupRouter()
		r.POST("/employees", withCompany(companyID), employee.NewHandler(&fakeEmployeeService{}).Create)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/employees", strings.NewReader(`{"full_name":"Sari","email":"sari@example.com","role":"boss"}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestEmployeeHandler_GetAll(t *testing.T) {
	companyID := uuid.New().String()
	svc := &fakeEmployeeService{
		GetAllFn: func(ctx context.Context, cid string) ([]employee.EmployeeResponse, error) {
			return []employee.EmployeeResponse{
				{ID: "1", FullName: "Zaki", Role: "employee"},
				{ID: "2", FullName: "Ayu", Role: "hr"},
				{ID: "3", FullName: "Bima", Role: "hr"},
			}, nil
		},
	}
	r := setupRouter()
	r.GET("/employees", withCompany(companyID), employee.NewHandler(svc).GetAll)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/employees?role=hr", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	var env envelope
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	var got []employee.EmployeeResponse
	assert.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Len(t, got, 2)
	assert.Equal(t, "Ayu", got[0].FullName)
}

func TestEmployeeHandler_GetByID(t *testing.T) {
	companyID := uuid.New().String()
	svc := &fakeEmployeeService{
		GetByIDFn: func(ctx context.Context, cid, id string) (employee.EmployeeResponse, error) {
			return employee.EmployeeResponse{}, employeeerrors.ErrEmployeeNotFound
		},
	}
	r := setupRouter()
	r.GET("/employees/:id", withCompany(companyID), employee.NewHandler(svc).GetById)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/employees/"+uuid.New().String(), nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	var env envelope
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.False(t, env.Ok)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}

func TestEmployeeHandler_UpdateRole(t *testing.T) {
	companyID := uuid.New().String()
	id := uuid.New().String()
	svc := &fakeEmployeeService{
		UpdateRoleFn: func(ctx context.Context, cid, eid string, req employee.UpdateRoleRequest) (employee.EmployeeResponse, error) {
			assert.Equal(t, id, eid)
			return employee.EmployeeResponse{ID: eid, Role: req.Role}, nil
		},
	}
	r := setupRouter()
	r.PUT("/employees/:id/role", withCompany(companyID), employee.NewHandler(svc).UpdateRole)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/employees/"+id+"/role", strings.NewReader(`{"role":"admin"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
