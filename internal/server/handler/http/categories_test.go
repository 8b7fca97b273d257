package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avoronin/cardbox/internal/models"
)

// fakeCategoryService implements CategoryService for testing.
type fakeCategoryService struct {
	CategoriesFunc     func(ctx context.Context) ([]models.Category, error)
	CategoryFunc       func(ctx context.Context, id int64) (*models.Category, error)
	CreateCategoryFunc func(ctx context.Context, name string) (*models.Category, error)
	RenameCategoryFunc func(ctx context.Context, id int64, name string) error
	DeleteCategoryFunc func(ctx context.Context, id int64) error
}

func (f *fakeCategoryService) Categories(ctx context.Context) ([]models.Category, error) {
	return f.CategoriesFunc(ctx)
}
func (f *fakeCategoryService) Category(ctx context.Context, id int64) (*models.Category, error) {
	return f.CategoryFunc(ctx, id)
}
func (f *fakeCategoryService) CreateCategory(ctx context.Context, name string) (*models.Category, error) {
	return f.CreateCategoryFunc(ctx, name)
}
func (f *fakeCategoryService) RenameCategory(ctx context.Context, id int64, name string) error {
	return f.RenameCategoryFunc(ctx, id, name)
}
func (f *fakeCategoryService) DeleteCategory(ctx context.Context, id int64) error {
	return f.DeleteCategoryFunc(ctx, id)
}

func categoryRouter(svc CategoryService) http.Handler {
	return testRouter(&CategoryHandler{CategoryService: svc}, &CardHandler{}, &StudyHandler{}, &StatsHandler{})
}

func TestCategoryList(t *testing.T) {
	svc := &fakeCategoryService{
		CategoriesFunc: func(context.Context) ([]models.Category, error) {
			return []models.Category{{ID: 1, Name: "Go"}, {ID: 2, Name: "SQL"}}, nil
		},
	}
	rec := httptest.NewRecorder()
	categoryRouter(svc).ServeHTTP(rec, authedRequest(t, "GET", "/api/categories", ""))

	require.Equal(t, http.StatusOK, rec.Code)
	var categories []models.Category
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &categories))
	assert.Len(t, categories, 2)
}

func TestCategoryCreate(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		service  *fakeCategoryService
		wantCode int
	}{
		{
			name: "success",
			body: `{"name":"Go"}`,
			service: &fakeCategoryService{
				CreateCategoryFunc: func(_ context.Context, name string) (*models.Category, error) {
					require.Equal(t, "Go", name)
					return &models.Category{ID: 1, Name: name}, nil
				},
			},
			wantCode: http.StatusCreated,
		},
		{
			name:     "empty name",
			body:     `{"name":""}`,
			service:  &fakeCategoryService{},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "duplicate name",
			body: `{"name":"Go"}`,
			service: &fakeCategoryService{
				CreateCategoryFunc: func(context.Context, string) (*models.Category, error) {
					return nil, models.ErrCategoryExists
				},
			},
			wantCode: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			categoryRouter(tt.service).ServeHTTP(rec, authedRequest(t, "POST", "/api/categories", tt.body))
			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestCategoryRenameAndDelete(t *testing.T) {
	svc := &fakeCategoryService{
		RenameCategoryFunc: func(_ context.Context, id int64, name string) error {
			if id == 404 {
				return models.ErrCategoryNotFound
			}
			return nil
		},
		DeleteCategoryFunc: func(_ context.Context, id int64) error {
			if id == 404 {
				return models.ErrCategoryNotFound
			}
			return nil
		},
	}
	router := categoryRouter(svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(t, "PUT", "/api/categories/2", `{"name":"Postgres"}`))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(t, "PUT", "/api/categories/404", `{"name":"Postgres"}`))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(t, "DELETE", "/api/categories/2", ""))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(t, "DELETE", "/api/categories/404", ""))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
