package app

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/tempizhere/golists/internal/models"
	"github.com/tempizhere/golists/internal/repository"
	"github.com/tempizhere/golists/internal/service"
	"go.uber.org/zap"
)

// newTestRouter собирает приложение с in-memory хранилищем и все маршруты
func newTestRouter() (*chi.Mux, *repository.MemoryRepository) {
	repo := repository.NewMemoryRepository()
	svc := service.NewService(repo, "http://localhost:8080", "secret")
	appInstance := NewApp(svc, nil, zap.NewNop())

	r := chi.NewRouter()
	r.Get("/lists", appInstance.HandleGetLists)
	r.Post("/lists", appInstance.HandleSaveList)
	r.Put("/lists", appInstance.HandleUpdateList)
	r.Delete("/lists", appInstance.HandleDeleteListByQuery)
	r.Get("/lists/{id}", appInstance.HandleGetList)
	r.Post("/lists/{id}", appInstance.HandleAddURL)
	r.Put("/lists/{id}", appInstance.HandleUpdateURL)
	r.Delete("/lists/{id}", appInstance.HandleDeleteList)
	r.Delete("/lists/{id}/urls/{urlID}", appInstance.HandleDeleteURL)
	r.Post("/lists/{id}/publish", appInstance.HandlePublishList)
	r.Delete("/lists/{id}/publish", appInstance.HandleUnpublishList)
	r.Get("/list/{key}", appInstance.HandleResolveList)
	r.Get("/ping", appInstance.HandlePing)
	r.Get("/api/internal/stats", appInstance.HandleStats)
	return r, repo
}

// doJSON выполняет запрос к тестовому роутеру
func doJSON(r *chi.Mux, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestHandleSaveList(t *testing.T) {
	tests := []struct {
		name          string
		body          string
		expectedCode  int
		expectedError string
	}{
		{
			name:         "create with name only",
			body:         `{"name":"Reading"}`,
			expectedCode: http.StatusCreated,
		},
		{
			name:         "create with all fields",
			body:         `{"name":"Dev","title":"Dev Tools","description":"Tools","slug":"dev-tools"}`,
			expectedCode: http.StatusCreated,
		},
		{
			name:          "empty body",
			body:          "",
			expectedCode:  http.StatusBadRequest,
			expectedError: "List name is required.",
		},
		{
			name:          "missing name",
			body:          `{"title":"No name"}`,
			expectedCode:  http.StatusBadRequest,
			expectedError: "List name is required.",
		},
		{
			name:          "invalid slug",
			body:          `{"name":"Bad","slug":"has spaces"}`,
			expectedCode:  http.StatusBadRequest,
			expectedError: "Invalid slug format.",
		},
		{
			name:          "taken slug",
			body:          `{"name":"Other","slug":"dev-tools"}`,
			expectedCode:  http.StatusConflict,
			expectedError: "This URL might already be taken.",
		},
	}

	r, repo := newTestRouter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before, _ := repo.GetLists()
			rr := doJSON(r, http.MethodPost, "/lists", tt.body)
			assert.Equal(t, tt.expectedCode, rr.Code, "Status code should match")
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"), "Content-Type should be JSON")

			if tt.expectedError != "" {
				var errResp models.ErrorResponse
				assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &errResp), "Error body should be valid JSON")
				assert.Equal(t, tt.expectedError, errResp.Error, "Error message should match")
				// Отклонённый запрос не должен менять хранилище
				after, _ := repo.GetLists()
				assert.Len(t, after, len(before), "Rejected request should not create a list")
			} else {
				var list models.List
				assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list), "Body should be a list")
				assert.Len(t, list.ID, 8, "Generated ID should be 8 characters long")
				assert.NotNil(t, list.URLs, "URLs should be an empty array, not null")
			}
		})
	}
}

func TestHandleSaveListUpdatesByID(t *testing.T) {
	r, _ := newTestRouter()

	// Создаём список
	rr := doJSON(r, http.MethodPost, "/lists", `{"name":"Reading"}`)
	assert.Equal(t, http.StatusCreated, rr.Code, "Create should return 201")
	var created models.List
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created), "Body should be a list")

	// Тест 1: POST с ID обновляет существующий список и возвращает 200
	rr = doJSON(r, http.MethodPost, "/lists", `{"id":"`+created.ID+`","name":"Reading 2026","slug":"reading"}`)
	assert.Equal(t, http.StatusOK, rr.Code, "Update via POST should return 200")
	var updated models.List
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &updated), "Body should be a list")
	assert.Equal(t, created.ID, updated.ID, "ID should be preserved")
	assert.Equal(t, "Reading 2026", updated.Name, "Name should be updated")
	assert.Equal(t, "reading", *updated.Slug, "Slug should be updated")

	// Тест 2: POST с неизвестным ID возвращает 404
	rr = doJSON(r, http.MethodPost, "/lists", `{"id":"unknown1","name":"X"}`)
	assert.Equal(t, http.StatusNotFound, rr.Code, "Unknown ID should return 404")

	// Тест 3: PUT без ID возвращает 400
	rr = doJSON(r, http.MethodPut, "/lists", `{"name":"X"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code, "PUT without ID should return 400")
	var errResp models.ErrorResponse
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &errResp), "Error body should be valid JSON")
	assert.Equal(t, "List ID is required.", errResp.Error, "Error message should match")

	// Тест 4: PUT с ID обновляет список
	rr = doJSON(r, http.MethodPut, "/lists", `{"id":"`+created.ID+`","name":"Final name"}`)
	assert.Equal(t, http.StatusOK, rr.Code, "PUT with ID should return 200")
}

func TestHandleURLs(t *testing.T) {
	r, _ := newTestRouter()

	rr := doJSON(r, http.MethodPost, "/lists", `{"name":"Reading"}`)
	var list models.List
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list), "Body should be a list")

	// Тест 1: Добавление ссылки
	rr = doJSON(r, http.MethodPost, "/lists/"+list.ID, `{"url":"https://example.com","title":"Example"}`)
	assert.Equal(t, http.StatusCreated, rr.Code, "Add URL should return 201")
	var u models.URL
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &u), "Body should be a URL")
	assert.Equal(t, "https://example.com", u.Address, "Address should match")
	assert.Equal(t, list.ID, u.ListID, "List ID should match")

	// Тест 2: Добавление без адреса
	rr = doJSON(r, http.MethodPost, "/lists/"+list.ID, `{}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code, "Add URL without address should return 400")
	var errResp models.ErrorResponse
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &errResp), "Error body should be valid JSON")
	assert.Equal(t, "URL is required.", errResp.Error, "Error message should match")

	// Тест 3: Добавление в несуществующий список
	rr = doJSON(r, http.MethodPost, "/lists/unknown1", `{"url":"https://example.com"}`)
	assert.Equal(t, http.StatusNotFound, rr.Code, "Unknown list should return 404")

	// Тест 4: Обновление адреса ссылки
	rr = doJSON(r, http.MethodPut, "/lists/"+list.ID, `{"urlId":"`+u.ID+`","url":"https://example.org"}`)
	assert.Equal(t, http.StatusOK, rr.Code, "Update URL should return 200")
	var changed models.URL
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &changed), "Body should be a URL")
	assert.Equal(t, "https://example.org", changed.Address, "Address should be updated")

	// Тест 5: Обновление без urlId и без адреса
	rr = doJSON(r, http.MethodPut, "/lists/"+list.ID, `{"url":"https://example.org"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code, "Update without urlId should return 400")
	rr = doJSON(r, http.MethodPut, "/lists/"+list.ID, `{"urlId":"`+u.ID+`"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code, "Update without address should return 400")

	// Тест 6: Удаление ссылки по выделенному маршруту
	rr = doJSON(r, http.MethodDelete, "/lists/"+list.ID+"/urls/"+u.ID, "")
	assert.Equal(t, http.StatusNoContent, rr.Code, "Delete URL should return 204")
	rr = doJSON(r, http.MethodGet, "/lists/"+list.ID, "")
	assert.Equal(t, http.StatusOK, rr.Code, "List should still exist")
	var after models.List
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &after), "Body should be a list")
	assert.Len(t, after.URLs, 0, "URL should be removed")

	// Тест 7: Повторное удаление той же ссылки
	rr = doJSON(r, http.MethodDelete, "/lists/"+list.ID+"/urls/"+u.ID, "")
	assert.Equal(t, http.StatusNotFound, rr.Code, "Deleting removed URL should return 404")
}

func TestHandleDeleteList(t *testing.T) {
	r, _ := newTestRouter()

	setup := func() (models.List, models.URL) {
		rr := doJSON(r, http.MethodPost, "/lists", `{"name":"Reading"}`)
		var list models.List
		json.Unmarshal(rr.Body.Bytes(), &list)
		rr = doJSON(r, http.MethodPost, "/lists/"+list.ID, `{"url":"https://example.com"}`)
		var u models.URL
		json.Unmarshal(rr.Body.Bytes(), &u)
		return list, u
	}

	// Тест 1: DELETE без тела удаляет список целиком
	list, _ := setup()
	rr := doJSON(r, http.MethodDelete, "/lists/"+list.ID, "")
	assert.Equal(t, http.StatusNoContent, rr.Code, "Delete list should return 204")
	rr = doJSON(r, http.MethodGet, "/lists/"+list.ID, "")
	assert.Equal(t, http.StatusNotFound, rr.Code, "Deleted list should return 404")

	// Тест 2: DELETE с телом {"urlId": ...} удаляет только ссылку
	list, u := setup()
	rr = doJSON(r, http.MethodDelete, "/lists/"+list.ID, `{"urlId":"`+u.ID+`"}`)
	assert.Equal(t, http.StatusNoContent, rr.Code, "Delete URL via body should return 204")
	rr = doJSON(r, http.MethodGet, "/lists/"+list.ID, "")
	assert.Equal(t, http.StatusOK, rr.Code, "List should survive URL deletion")
	var after models.List
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &after), "Body should be a list")
	assert.Len(t, after.URLs, 0, "URL should be removed")

	// Тест 3: DELETE с пустым urlId удаляет список
	rr = doJSON(r, http.MethodDelete, "/lists/"+list.ID, `{"urlId":""}`)
	assert.Equal(t, http.StatusNoContent, rr.Code, "Empty urlId should fall back to list deletion")
	rr = doJSON(r, http.MethodGet, "/lists/"+list.ID, "")
	assert.Equal(t, http.StatusNotFound, rr.Code, "List should be deleted")

	// Тест 4: DELETE с невалидным JSON удаляет список, а не ищет подстроку
	list, _ = setup()
	rr = doJSON(r, http.MethodDelete, "/lists/"+list.ID, `this body mentions urlId but is not JSON`)
	assert.Equal(t, http.StatusNoContent, rr.Code, "Invalid body should fall back to list deletion")
	rr = doJSON(r, http.MethodGet, "/lists/"+list.ID, "")
	assert.Equal(t, http.StatusNotFound, rr.Code, "List should be deleted")

	// Тест 5: DELETE несуществующего списка
	rr = doJSON(r, http.MethodDelete, "/lists/unknown1", "")
	assert.Equal(t, http.StatusNotFound, rr.Code, "Unknown list should return 404")

	// Тест 6: DELETE /lists?id= удаляет по query-параметру
	list, _ = setup()
	rr = doJSON(r, http.MethodDelete, "/lists?id="+list.ID, "")
	assert.Equal(t, http.StatusNoContent, rr.Code, "Delete by query should return 204")
	rr = doJSON(r, http.MethodDelete, "/lists", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code, "Missing id query should return 400")
}

func TestHandlePublish(t *testing.T) {
	r, _ := newTestRouter()

	rr := doJSON(r, http.MethodPost, "/lists", `{"name":"Dev","slug":"dev-tools"}`)
	var list models.List
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list), "Body should be a list")

	// Тест 1: Публикация возвращает список и shareable URL
	rr = doJSON(r, http.MethodPost, "/lists/"+list.ID+"/publish", "")
	assert.Equal(t, http.StatusOK, rr.Code, "Publish should return 200")
	var pub models.PublishResponse
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &pub), "Body should be a publish response")
	assert.True(t, pub.List.Published, "List should be published")
	assert.NotNil(t, pub.List.PublishedAt, "PublishedAt should be set")
	assert.Equal(t, "http://localhost:8080/list/dev-tools", pub.ShareURL, "Share URL should use slug")

	// Тест 2: Повторная публикация идемпотентна
	firstPublishedAt := *pub.List.PublishedAt
	rr = doJSON(r, http.MethodPost, "/lists/"+list.ID+"/publish", "")
	assert.Equal(t, http.StatusOK, rr.Code, "Repeated publish should return 200")
	var again models.PublishResponse
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &again), "Body should be a publish response")
	assert.Equal(t, firstPublishedAt.Unix(), again.List.PublishedAt.Unix(), "PublishedAt should not change on republish")

	// Тест 3: Публикация несуществующего списка
	rr = doJSON(r, http.MethodPost, "/lists/unknown1/publish", "")
	assert.Equal(t, http.StatusNotFound, rr.Code, "Unknown list should return 404")

	// Тест 4: Опубликованный список доступен по slug и по ID
	rr = doJSON(r, http.MethodGet, "/list/dev-tools", "")
	assert.Equal(t, http.StatusOK, rr.Code, "Published list should resolve by slug")
	rr = doJSON(r, http.MethodGet, "/list/"+list.ID, "")
	assert.Equal(t, http.StatusOK, rr.Code, "Published list should resolve by ID")

	// Тест 5: Снятие с публикации закрывает shareable URL
	rr = doJSON(r, http.MethodDelete, "/lists/"+list.ID+"/publish", "")
	assert.Equal(t, http.StatusOK, rr.Code, "Unpublish should return 200")
	var unpublished models.List
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &unpublished), "Body should be a list")
	assert.False(t, unpublished.Published, "List should not be published")
	assert.Nil(t, unpublished.PublishedAt, "PublishedAt should be cleared")
	rr = doJSON(r, http.MethodGet, "/list/dev-tools", "")
	assert.Equal(t, http.StatusNotFound, rr.Code, "Unpublished list should not resolve")

	// Тест 6: Снятие с публикации несуществующего списка
	rr = doJSON(r, http.MethodDelete, "/lists/unknown1/publish", "")
	assert.Equal(t, http.StatusNotFound, rr.Code, "Unknown list should return 404")
}

func TestHandleGetLists(t *testing.T) {
	r, _ := newTestRouter()

	// Тест 1: Пустое хранилище возвращает пустой массив
	rr := doJSON(r, http.MethodGet, "/lists", "")
	assert.Equal(t, http.StatusOK, rr.Code, "Get lists should return 200")
	assert.Equal(t, "[]", strings.TrimSpace(rr.Body.String()), "Empty storage should return empty array")

	// Тест 2: Списки возвращаются в порядке создания
	doJSON(r, http.MethodPost, "/lists", `{"name":"First"}`)
	doJSON(r, http.MethodPost, "/lists", `{"name":"Second"}`)
	rr = doJSON(r, http.MethodGet, "/lists", "")
	var lists []models.List
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &lists), "Body should be a list array")
	assert.Len(t, lists, 2, "Should return two lists")
	assert.Equal(t, "First", lists[0].Name, "First created list should come first")
	assert.Equal(t, "Second", lists[1].Name, "Second created list should come second")
}

func TestHandleGetListsRepositoryFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// Отказ хранилища транслируется в 500 с общим сообщением
	mockRepo := repository.NewMockRepository(ctrl)
	mockRepo.EXPECT().GetLists().Return(nil, errors.New("storage unavailable"))

	svc := service.NewService(mockRepo, "http://localhost:8080", "secret")
	appInstance := NewApp(svc, nil, zap.NewNop())

	r := chi.NewRouter()
	r.Get("/lists", appInstance.HandleGetLists)

	rr := doJSON(r, http.MethodGet, "/lists", "")
	assert.Equal(t, http.StatusInternalServerError, rr.Code, "Repository failure should return 500")
	var resp models.ErrorResponse
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp), "Body should be an error response")
	assert.Equal(t, "Failed to fetch lists.", resp.Error, "Error message should match")
}

func TestHandlePing(t *testing.T) {
	tests := []struct {
		name           string
		dbSetup        func(*gomock.Controller) repository.Database
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "successful ping",
			dbSetup: func(ctrl *gomock.Controller) repository.Database {
				mockDB := repository.NewMockDatabase(ctrl)
				mockDB.EXPECT().Ping().Return(nil)
				return mockDB
			},
			expectedStatus: http.StatusOK,
			expectedBody:   "",
		},
		{
			name: "database connection failed",
			dbSetup: func(ctrl *gomock.Controller) repository.Database {
				mockDB := repository.NewMockDatabase(ctrl)
				mockDB.EXPECT().Ping().Return(errors.New("connection failed"))
				return mockDB
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   "Database connection failed\n",
		},
		{
			name: "no database configured",
			dbSetup: func(ctrl *gomock.Controller) repository.Database {
				return nil
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   "Database not configured\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Создаём контроллер gomock для каждого подтеста
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			appInstance := NewApp(nil, tt.dbSetup(ctrl), zap.NewNop())

			r := chi.NewRouter()
			r.Get("/ping", appInstance.HandlePing)

			req := httptest.NewRequest(http.MethodGet, "/ping", nil)
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code, "Status code mismatch")
			assert.Equal(t, tt.expectedBody, rr.Body.String(), "Body mismatch")
		})
	}
}

func TestHandleStats(t *testing.T) {
	r, _ := newTestRouter()

	rr := doJSON(r, http.MethodPost, "/lists", `{"name":"Reading"}`)
	var list models.List
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list), "Body should be a list")
	doJSON(r, http.MethodPost, "/lists/"+list.ID, `{"url":"https://example.com"}`)

	rr = doJSON(r, http.MethodGet, "/api/internal/stats", "")
	assert.Equal(t, http.StatusOK, rr.Code, "Stats should return 200")
	var stats models.Stats
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &stats), "Body should be stats")
	assert.Equal(t, 1, stats.Lists, "Lists count should match")
	assert.Equal(t, 1, stats.URLs, "URLs count should match")
}

// TestListLifecycle проверяет полный сценарий: создание списка, наполнение,
// публикация, правка slug и удаление
func TestListLifecycle(t *testing.T) {
	r, _ := newTestRouter()

	// Создание
	rr := doJSON(r, http.MethodPost, "/lists", `{"name":"Dev Tools"}`)
	assert.Equal(t, http.StatusCreated, rr.Code, "Create should return 201")
	var list models.List
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list), "Body should be a list")

	// Наполнение
	var urls []models.URL
	for _, addr := range []string{"https://go.dev", "https://pkg.go.dev", "https://golangci-lint.run"} {
		body, _ := json.Marshal(models.AddURLRequest{Address: addr})
		rr = doJSON(r, http.MethodPost, "/lists/"+list.ID, string(body))
		assert.Equal(t, http.StatusCreated, rr.Code, "Add URL should return 201")
		var u models.URL
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &u), "Body should be a URL")
		urls = append(urls, u)
	}

	// Публикация без slug использует ID в shareable URL
	rr = doJSON(r, http.MethodPost, "/lists/"+list.ID+"/publish", "")
	assert.Equal(t, http.StatusOK, rr.Code, "Publish should return 200")
	var pub models.PublishResponse
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &pub), "Body should be a publish response")
	assert.Equal(t, "http://localhost:8080/list/"+list.ID, pub.ShareURL, "Share URL should use ID")

	// Назначение slug меняет shareable URL, старый ID остаётся рабочим
	rr = doJSON(r, http.MethodPut, "/lists", `{"id":"`+list.ID+`","name":"Dev Tools","slug":"dev-tools"}`)
	assert.Equal(t, http.StatusOK, rr.Code, "Slug update should return 200")
	rr = doJSON(r, http.MethodGet, "/list/dev-tools", "")
	assert.Equal(t, http.StatusOK, rr.Code, "New slug should resolve")
	var resolved models.List
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resolved), "Body should be a list")
	assert.Len(t, resolved.URLs, 3, "Resolved list should contain all URLs")

	// Удаление одной ссылки
	rr = doJSON(r, http.MethodDelete, "/lists/"+list.ID+"/urls/"+urls[0].ID, "")
	assert.Equal(t, http.StatusNoContent, rr.Code, "Delete URL should return 204")

	// Удаление списка закрывает shareable URL
	rr = doJSON(r, http.MethodDelete, "/lists/"+list.ID, "")
	assert.Equal(t, http.StatusNoContent, rr.Code, "Delete list should return 204")
	rr = doJSON(r, http.MethodGet, "/list/dev-tools", "")
	assert.Equal(t, http.StatusNotFound, rr.Code, "Deleted list should not resolve")
}
