package client

import (
	"context"
	"net/http"
	"regexp"

	"github.com/tempizhere/golists/internal/models"
	"go.uber.org/zap"
)

// slugPattern повторяет серверное правило формата slug. Клиент проверяет
// только формат, уникальность знает лишь хранилище.
var slugPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// CreateListOptions содержит необязательные поля создаваемого списка
type CreateListOptions struct {
	Title       *string
	Description *string
	Slug        *string
}

// Initialize загружает все списки с сервера. Успех замещает локальный
// снимок и сбрасывает выбор активного списка; любая ошибка записывается
// одним общим сообщением.
func (s *Store) Initialize(ctx context.Context) {
	s.beginLoading()
	defer s.endLoading()

	var lists []models.List
	status, err := s.doJSON(ctx, http.MethodGet, "/lists", nil, &lists)
	if err != nil || status != http.StatusOK {
		s.logger.Warn("Failed to load lists", zap.Int("status", status), zap.Error(err))
		s.setError("Failed to load lists. Please try again.")
		return
	}

	s.mutex.Lock()
	s.lists = lists
	s.activeListID = ""
	s.mutex.Unlock()
	s.notify()
}

// SetActiveList выбирает активный список. Операция локальная и всегда
// успешная, isLoading и error не меняются.
func (s *Store) SetActiveList(id string) {
	s.mutex.Lock()
	s.activeListID = id
	s.mutex.Unlock()
	s.notify()
}

// GetActiveList возвращает выбранный список из локального снимка.
// false означает отсутствие или недействительность выбора, это состояние
// интерфейса, а не ошибка загрузки.
func (s *Store) GetActiveList() (models.List, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if s.activeListID == "" {
		return models.List{}, false
	}
	i := s.findList(s.activeListID)
	if i < 0 {
		return models.List{}, false
	}
	return s.lists[i], true
}

// CreateList создаёт список на сервере и добавляет его в локальный снимок.
// При ошибке возвращает nil и записывает сообщение в error.
func (s *Store) CreateList(ctx context.Context, name string, opts CreateListOptions) *models.List {
	s.beginLoading()
	defer s.endLoading()

	var created models.List
	status, err := s.doJSON(ctx, http.MethodPost, "/lists", models.SaveListRequest{
		Name:        name,
		Title:       opts.Title,
		Description: opts.Description,
		Slug:        opts.Slug,
	}, &created)
	if err != nil || status != http.StatusCreated {
		s.logger.Warn("Failed to create list", zap.Int("status", status), zap.Error(err))
		s.setError("Failed to create list. Please try again.")
		return nil
	}

	s.mutex.Lock()
	s.lists = append(s.lists, created)
	s.mutex.Unlock()
	s.notify()
	return &created
}

// DeleteList удаляет список. Сначала локальная валидация без сети и без
// isLoading, затем сетевое удаление. При успехе список убирается из
// снимка, совпадающий выбор активного списка сбрасывается.
func (s *Store) DeleteList(ctx context.Context, id string) bool {
	if id == "" {
		s.setError("List ID is required")
		return false
	}
	s.mutex.RLock()
	known := s.findList(id) >= 0
	s.mutex.RUnlock()
	if !known {
		s.setError("List not found")
		return false
	}

	if !s.tryAcquire("delete:" + id) {
		return false
	}
	defer s.release("delete:" + id)

	s.beginLoading()
	defer s.endLoading()

	status, err := s.doJSON(ctx, http.MethodDelete, "/lists/"+id, nil, nil)
	if err != nil || status != http.StatusNoContent {
		s.logger.Warn("Failed to delete list", zap.String("list_id", id), zap.Int("status", status), zap.Error(err))
		s.setError("Failed to delete list. Please try again.")
		return false
	}

	s.mutex.Lock()
	if i := s.findList(id); i >= 0 {
		s.lists = append(s.lists[:i], s.lists[i+1:]...)
	}
	if s.activeListID == id {
		s.activeListID = ""
	}
	s.mutex.Unlock()
	s.notify()
	return true
}

// UpdateCustomSlug назначает списку пользовательский slug. Валидация
// идёт до любого сетевого вызова: обязательность аргументов, локальное
// наличие списка и формат slug. Уникальность подтверждает только сервер.
func (s *Store) UpdateCustomSlug(ctx context.Context, id, slug string) bool {
	if id == "" {
		s.setError("List ID is required")
		return false
	}
	if slug == "" {
		s.setError("Custom URL is required")
		return false
	}
	s.mutex.RLock()
	i := s.findList(id)
	var current models.List
	if i >= 0 {
		current = s.lists[i]
	}
	s.mutex.RUnlock()
	if i < 0 {
		s.setError("List not found")
		return false
	}
	if !slugPattern.MatchString(slug) {
		s.setError("Custom URL cannot contain spaces or special characters")
		return false
	}

	if !s.tryAcquire("slug:" + id) {
		return false
	}
	defer s.release("slug:" + id)

	s.beginLoading()
	defer s.endLoading()

	var updated models.List
	status, err := s.doJSON(ctx, http.MethodPut, "/lists", models.SaveListRequest{
		ID:          &id,
		Name:        current.Name,
		Title:       current.Title,
		Description: current.Description,
		Slug:        &slug,
	}, &updated)
	if err != nil || status != http.StatusOK {
		s.logger.Warn("Failed to update slug", zap.String("list_id", id), zap.Int("status", status), zap.Error(err))
		s.setError("Failed to update custom URL. This URL might already be taken.")
		return false
	}

	s.mutex.Lock()
	if i := s.findList(id); i >= 0 {
		s.lists[i] = updated
	}
	s.mutex.Unlock()
	s.notify()
	return true
}
