package client

import (
	"context"
	"net/http"

	"github.com/tempizhere/golists/internal/models"
	"github.com/tempizhere/golists/internal/share"
	"go.uber.org/zap"
)

// ShareableURL возвращает shareable URL списка. Формула общая с сервером,
// см. пакет share.
func (s *Store) ShareableURL(list models.List) string {
	return share.URL(s.origin, list)
}

// Publish публикует список и возвращает ответ сервера с shareable URL.
// Локальный снимок обновляется серверным представлением списка.
func (s *Store) Publish(ctx context.Context, id string) *models.PublishResponse {
	if id == "" {
		s.setError("List ID is required")
		return nil
	}

	if !s.tryAcquire("publish:" + id) {
		return nil
	}
	defer s.release("publish:" + id)

	s.beginLoading()
	defer s.endLoading()

	var resp models.PublishResponse
	status, err := s.doJSON(ctx, http.MethodPost, "/lists/"+id+"/publish", nil, &resp)
	if err != nil || status != http.StatusOK {
		s.logger.Warn("Failed to publish list", zap.String("list_id", id), zap.Int("status", status), zap.Error(err))
		s.setError("Failed to publish list. Please try again.")
		return nil
	}

	s.mutex.Lock()
	if i := s.findList(id); i >= 0 {
		s.lists[i] = resp.List
	}
	s.mutex.Unlock()
	s.notify()
	return &resp
}

// Unpublish снимает список с публикации
func (s *Store) Unpublish(ctx context.Context, id string) bool {
	if id == "" {
		s.setError("List ID is required")
		return false
	}

	if !s.tryAcquire("unpublish:" + id) {
		return false
	}
	defer s.release("unpublish:" + id)

	s.beginLoading()
	defer s.endLoading()

	var updated models.List
	status, err := s.doJSON(ctx, http.MethodDelete, "/lists/"+id+"/publish", nil, &updated)
	if err != nil || status != http.StatusOK {
		s.logger.Warn("Failed to unpublish list", zap.String("list_id", id), zap.Int("status", status), zap.Error(err))
		s.setError("Failed to unpublish list. Please try again.")
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
