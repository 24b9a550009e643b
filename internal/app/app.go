// Package app содержит HTTP-хендлеры для списков ссылок
package app

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/tempizhere/golists/internal/middleware"
	"github.com/tempizhere/golists/internal/models"
	"github.com/tempizhere/golists/internal/repository"
	"github.com/tempizhere/golists/internal/service"
	"go.uber.org/zap"
)

// App содержит хендлеры и зависимости
type App struct {
	svc    *service.Service
	db     repository.Database
	logger *zap.Logger
}

// NewApp создаёт новое приложение
func NewApp(svc *service.Service, db repository.Database, logger *zap.Logger) *App {
	return &App{svc: svc, db: db, logger: logger}
}

// HandleGetLists обрабатывает GET-запросы на "/lists"
func (a *App) HandleGetLists(w http.ResponseWriter, r *http.Request) {
	lists, err := a.svc.Lists()
	if err != nil {
		a.logger.Error("Failed to fetch lists", zap.Error(err))
		a.writeError(w, http.StatusInternalServerError, "Failed to fetch lists.")
		return
	}
	a.writeJSONResponse(w, http.StatusOK, lists)
}

// HandleSaveList обрабатывает POST-запросы на "/lists". Тело без ID создаёт
// список, тело с ID обновляет существующий: две отдельные операции сервиса,
// выбираемые по структуре запроса.
func (a *App) HandleSaveList(w http.ResponseWriter, r *http.Request) {
	var req models.SaveListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		a.logger.Warn("Invalid save list request body", zap.Error(err))
	}

	if req.ID != nil {
		a.updateList(w, req)
		return
	}

	userID, _ := middleware.GetUserID(r)
	list, err := a.svc.CreateList(req, userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyName):
			a.writeError(w, http.StatusBadRequest, "List name is required.")
		case errors.Is(err, service.ErrInvalidSlug):
			a.writeError(w, http.StatusBadRequest, "Invalid slug format.")
		case errors.Is(err, repository.ErrSlugExists):
			a.writeError(w, http.StatusConflict, "This URL might already be taken.")
		default:
			a.logger.Error("Failed to create list", zap.Error(err))
			a.writeError(w, http.StatusInternalServerError, "Failed to create list.")
		}
		return
	}
	a.writeJSONResponse(w, http.StatusCreated, list)
}

// HandleUpdateList обрабатывает PUT-запросы на "/lists"
func (a *App) HandleUpdateList(w http.ResponseWriter, r *http.Request) {
	var req models.SaveListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		a.logger.Warn("Invalid update list request body", zap.Error(err))
	}
	if req.ID == nil || *req.ID == "" {
		a.writeError(w, http.StatusBadRequest, "List ID is required.")
		return
	}
	a.updateList(w, req)
}

// updateList выполняет общий путь обновления для POST и PUT
func (a *App) updateList(w http.ResponseWriter, req models.SaveListRequest) {
	list, err := a.svc.UpdateList(req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyListID):
			a.writeError(w, http.StatusBadRequest, "List ID is required.")
		case errors.Is(err, service.ErrEmptyName):
			a.writeError(w, http.StatusBadRequest, "List name is required.")
		case errors.Is(err, service.ErrInvalidSlug):
			a.writeError(w, http.StatusBadRequest, "Invalid slug format.")
		case errors.Is(err, repository.ErrListNotFound):
			a.writeError(w, http.StatusNotFound, "List not found.")
		case errors.Is(err, repository.ErrSlugExists):
			a.writeError(w, http.StatusConflict, "This URL might already be taken.")
		default:
			a.logger.Error("Failed to update list", zap.Error(err))
			a.writeError(w, http.StatusInternalServerError, "Failed to update list.")
		}
		return
	}
	a.writeJSONResponse(w, http.StatusOK, list)
}

// HandleDeleteListByQuery обрабатывает DELETE-запросы на "/lists?id="
func (a *App) HandleDeleteListByQuery(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		a.writeError(w, http.StatusBadRequest, "List ID is required.")
		return
	}
	a.deleteList(w, id)
}

// HandleGetList обрабатывает GET-запросы на "/lists/{id}"
func (a *App) HandleGetList(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		a.writeError(w, http.StatusBadRequest, "List ID is required.")
		return
	}
	list, exists := a.svc.GetList(id)
	if !exists {
		a.writeError(w, http.StatusNotFound, "List not found.")
		return
	}
	a.writeJSONResponse(w, http.StatusOK, list)
}

// HandleAddURL обрабатывает POST-запросы на "/lists/{id}"
func (a *App) HandleAddURL(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		a.writeError(w, http.StatusBadRequest, "List ID is required.")
		return
	}
	var req models.AddURLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		a.logger.Warn("Invalid add URL request body", zap.Error(err))
	}
	u, err := a.svc.AddURL(id, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyAddress):
			a.writeError(w, http.StatusBadRequest, "URL is required.")
		case errors.Is(err, repository.ErrListNotFound):
			a.writeError(w, http.StatusNotFound, "List not found.")
		default:
			a.logger.Error("Failed to add URL", zap.String("list_id", id), zap.Error(err))
			a.writeError(w, http.StatusInternalServerError, "Failed to add URL.")
		}
		return
	}
	a.writeJSONResponse(w, http.StatusCreated, u)
}

// HandleUpdateURL обрабатывает PUT-запросы на "/lists/{id}".
// Через этот путь обновляется только адрес ссылки.
func (a *App) HandleUpdateURL(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		a.writeError(w, http.StatusBadRequest, "List ID is required.")
		return
	}
	var req models.UpdateURLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		a.logger.Warn("Invalid update URL request body", zap.Error(err))
	}
	if req.URLID == "" {
		a.writeError(w, http.StatusBadRequest, "URL ID is required.")
		return
	}
	if req.Address == "" {
		a.writeError(w, http.StatusBadRequest, "URL is required.")
		return
	}
	u, err := a.svc.UpdateURL(id, req.URLID, req.Address)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrListNotFound):
			a.writeError(w, http.StatusNotFound, "List not found.")
		case errors.Is(err, repository.ErrURLNotFound):
			a.writeError(w, http.StatusNotFound, "URL not found.")
		default:
			a.logger.Error("Failed to update URL", zap.String("list_id", id), zap.Error(err))
			a.writeError(w, http.StatusInternalServerError, "Failed to update URL.")
		}
		return
	}
	a.writeJSONResponse(w, http.StatusOK, u)
}

// HandleDeleteList обрабатывает DELETE-запросы на "/lists/{id}".
// Опциональное JSON-тело {"urlId": ...} переключает операцию на удаление
// одной ссылки; тело разбирается структурно, ошибки разбора логируются и
// приводят к удалению всего списка.
func (a *App) HandleDeleteList(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		a.writeError(w, http.StatusBadRequest, "List ID is required.")
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		a.logger.Warn("Failed to read delete request body", zap.Error(err))
		body = nil
	}
	if len(body) > 0 {
		var req models.RemoveURLRequest
		if err := json.Unmarshal(body, &req); err != nil {
			a.logger.Warn("Invalid delete request body", zap.Error(err))
		} else if req.URLID != "" {
			a.deleteURL(w, id, req.URLID)
			return
		}
	}

	a.deleteList(w, id)
}

// HandleDeleteURL обрабатывает DELETE-запросы на "/lists/{id}/urls/{urlID}"
func (a *App) HandleDeleteURL(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	urlID := chi.URLParam(r, "urlID")
	if id == "" {
		a.writeError(w, http.StatusBadRequest, "List ID is required.")
		return
	}
	if urlID == "" {
		a.writeError(w, http.StatusBadRequest, "URL ID is required.")
		return
	}
	a.deleteURL(w, id, urlID)
}

// deleteList удаляет список целиком, каскадно с его ссылками
func (a *App) deleteList(w http.ResponseWriter, id string) {
	if err := a.svc.DeleteList(id); err != nil {
		switch {
		case errors.Is(err, repository.ErrListNotFound):
			a.writeError(w, http.StatusNotFound, "List not found.")
		default:
			a.logger.Error("Failed to delete list", zap.String("list_id", id), zap.Error(err))
			a.writeError(w, http.StatusInternalServerError, "Failed to delete list.")
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// deleteURL удаляет одну ссылку из списка
func (a *App) deleteURL(w http.ResponseWriter, listID, urlID string) {
	if err := a.svc.DeleteURL(listID, urlID); err != nil {
		switch {
		case errors.Is(err, repository.ErrListNotFound):
			a.writeError(w, http.StatusNotFound, "List not found.")
		case errors.Is(err, repository.ErrURLNotFound):
			a.writeError(w, http.StatusNotFound, "URL not found.")
		default:
			a.logger.Error("Failed to delete URL", zap.String("list_id", listID), zap.String("url_id", urlID), zap.Error(err))
			a.writeError(w, http.StatusInternalServerError, "Failed to delete URL.")
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandlePublishList обрабатывает POST-запросы на "/lists/{id}/publish"
func (a *App) HandlePublishList(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		a.writeError(w, http.StatusBadRequest, "List ID is required.")
		return
	}
	if _, exists := a.svc.GetList(id); !exists {
		a.writeError(w, http.StatusNotFound, "List not found.")
		return
	}
	list, shareURL, err := a.svc.Publish(id)
	if err != nil {
		if errors.Is(err, repository.ErrListNotFound) {
			a.writeError(w, http.StatusNotFound, "List not found.")
			return
		}
		a.logger.Error("Failed to publish list", zap.String("list_id", id), zap.Error(err))
		a.writeError(w, http.StatusInternalServerError, "Failed to publish list.")
		return
	}
	a.writeJSONResponse(w, http.StatusOK, models.PublishResponse{List: list, ShareURL: shareURL})
}

// HandleUnpublishList обрабатывает DELETE-запросы на "/lists/{id}/publish"
func (a *App) HandleUnpublishList(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		a.writeError(w, http.StatusBadRequest, "List ID is required.")
		return
	}
	list, err := a.svc.Unpublish(id)
	if err != nil {
		if errors.Is(err, repository.ErrListNotFound) {
			a.writeError(w, http.StatusNotFound, "List not found.")
			return
		}
		a.logger.Error("Failed to unpublish list", zap.String("list_id", id), zap.Error(err))
		a.writeError(w, http.StatusInternalServerError, "Failed to unpublish list.")
		return
	}
	a.writeJSONResponse(w, http.StatusOK, list)
}

// HandleResolveList обрабатывает GET-запросы на "/list/{key}" - адрес,
// по которому доступен опубликованный список
func (a *App) HandleResolveList(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	list, exists := a.svc.ResolvePublished(key)
	if !exists {
		a.writeError(w, http.StatusNotFound, "List not found.")
		return
	}
	a.writeJSONResponse(w, http.StatusOK, list)
}

// HandlePing обрабатывает GET-запросы на "/ping"
func (a *App) HandlePing(w http.ResponseWriter, r *http.Request) {
	if a.db == nil {
		http.Error(w, "Database not configured", http.StatusInternalServerError)
		return
	}
	if err := a.db.Ping(); err != nil {
		http.Error(w, "Database connection failed", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// HandleStats обрабатывает GET-запросы на "/api/internal/stats"
func (a *App) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := a.svc.Stats()
	if err != nil {
		a.logger.Error("Failed to fetch stats", zap.Error(err))
		a.writeError(w, http.StatusInternalServerError, "Failed to fetch stats.")
		return
	}
	a.writeJSONResponse(w, http.StatusOK, stats)
}

// writeError пишет JSON-ответ с сообщением об ошибке
func (a *App) writeError(w http.ResponseWriter, status int, message string) {
	a.writeJSONResponse(w, status, models.ErrorResponse{Error: message})
}

// writeJSONResponse пишет JSON-ответ с проверкой ошибок
func (a *App) writeJSONResponse(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "Failed to encode JSON", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		a.logger.Error("Failed to write response", zap.Error(err))
	}
}
