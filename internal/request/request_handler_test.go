package request_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-leavebot/internal/request"
	requesterrors "go-leavebot/internal/request/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiMeta struct {
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"pageSize"`
}

type apiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Meta  *apiMeta        `json:"meta"`
	Error *apiError       `json:"error"`
}

func decodeEnvelope(t *testing.T, body []byte) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	err := json.Unmarshal(body, &env)
	assert.NoError(t, err)
	return env
}

type fakeService struct {
	getAllFn       func(ctx context.Context) ([]request.LeaveRequestResponse, error)
	getByIDFn      func(ctx context.Context, id string) (request.LeaveRequestResponse, error)
	updateStatusFn func(ctx context.Context, id string, req request.UpdateStatusRequest) (request.LeaveRequestResponse, error)
	documentFn     func(ctx context.Context, id string) (string, error)
}

func (f *fakeService) GetAll(ctx context.Context) ([]request.LeaveRequestResponse, error) {
	return f.getAllFn(ctx)
}

func (f *fakeService) GetByID(ctx context.Context, id string) (request.LeaveRequestResponse, error) {
	return f.getByIDFn(ctx, id)
}

func (f *fakeService) UpdateStatus(ctx context.Context, id string, req request.UpdateStatusRequest) (request.LeaveRequestResponse, error) {
	return f.updateStatusFn(ctx, id, req)
}

func (f *fakeService) Document(ctx context.Context, id string) (string, error) {
	return f.documentFn(ctx, id)
}

func newRequestRouter(svc request.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	api := router.Group("/api/v1")
	request.RegisterRoutes(api, request.NewHandler(svc))
	return router
}

func sampleResponses(n int) []request.LeaveRequestResponse {
	resp := make([]request.LeaveRequestResponse, n)
	for i := range resp {
		resp[i] = request.LeaveRequestResponse{
			ID:        uint(n - i),
			Name:      "Jane Doe",
			Email:     "jane@x.org",
			LeaveType: "Personal",
			StartDate: "2024-03-01",
			EndDate:   "2024-03-05",
			Status:    request.StatusPending,
		}
	}
	return resp
}

func TestRequestHandler_GetAll(t *testing.T) {
	t.Run("paginates in memory", func(t *testing.T) {
		svc := &fakeService{
			getAllFn: func(ctx context.Context) ([]request.LeaveRequestResponse, error) {
				return sampleResponses(5), nil
			},
		}
		router := newRequestRouter(svc)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/requests?page=2&page_size=2", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
		assert.NotNil(t, env.Meta)
		assert.Equal(t, int64(5), env.Meta.Total)
		assert.Equal(t, 2, env.Meta.Page)

		var items []request.LeaveRequestResponse
		assert.NoError(t, json.Unmarshal(env.Data, &items))
		assert.Len(t, items, 2)
		assert.Equal(t, uint(3), items[0].ID)
		assert.Equal(t, uint(2), items[1].ID)
	})

	t.Run("page past the end is empty, not an error", func(t *testing.T) {
		svc := &fakeService{
			getAllFn: func(ctx context.Context) ([]request.LeaveRequestResponse, error) {
				return sampleResponses(3), nil
			},
		}
		router := newRequestRouter(svc)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/requests?page=5&page_size=10", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())

		var items []request.LeaveRequestResponse
		assert.NoError(t, json.Unmarshal(env.Data, &items))
		assert.Empty(t, items)
	})
}

func TestRequestHandler_GetById(t *testing.T) {
	t.Run("not found maps to 404", func(t *testing.T) {
		svc := &fakeService{
			getByIDFn: func(ctx context.Context, id string) (request.LeaveRequestResponse, error) {
				return request.LeaveRequestResponse{}, requesterrors.ErrRequestNotFound
			},
		}
		router := newRequestRouter(svc)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/requests/99", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.Equal(t, "NOT_FOUND", env.Error.Code)
	})
}

func TestRequestHandler_UpdateStatus(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &fakeService{
			updateStatusFn: func(ctx context.Context, id string, req request.UpdateStatusRequest) (request.LeaveRequestResponse, error) {
				assert.Equal(t, "12", id)
				assert.Equal(t, request.StatusApproved, req.Status)
				return request.LeaveRequestResponse{ID: 12, Status: request.StatusApproved}, nil
			},
		}
		router := newRequestRouter(svc)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, "/api/v1/requests/12/status",
			strings.NewReader(`{"status":"Approved"}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)

		var resp request.LeaveRequestResponse
		assert.NoError(t, json.Unmarshal(env.Data, &resp))
		assert.Equal(t, request.StatusApproved, resp.Status)
	})

	t.Run("unknown status fails binding", func(t *testing.T) {
		svc := &fakeService{
			updateStatusFn: func(ctx context.Context, id string, req request.UpdateStatusRequest) (request.LeaveRequestResponse, error) {
				t.Fatal("service must not be called")
				return request.LeaveRequestResponse{}, nil
			},
		}
		router := newRequestRouter(svc)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, "/api/v1/requests/12/status",
			strings.NewReader(`{"status":"Archived"}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
	})
}
