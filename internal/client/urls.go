package client

import (
	"context"
	"net/http"
	"strings"

	"github.com/tempizhere/golists/internal/models"
	"go.uber.org/zap"
)

// NormalizeAddress дополняет голый хост схемой по умолчанию. Вызывающая
// сторона нормализует адрес до отправки на сервер.
func NormalizeAddress(raw string) string {
	if raw == "" {
		return raw
	}
	if !strings.Contains(raw, "://") {
		return "https://" + raw
	}
	return raw
}

// AddURLToList добавляет ссылку в список. Ни одна из операций со ссылками
// не перечитывает список автоматически: обновление снимка остаётся за
// вызывающей стороной. Ключ single-flight включает адрес, чтобы
// одновременное добавление разных ссылок в один список не подавлялось.
func (s *Store) AddURLToList(ctx context.Context, listID string, urlData models.AddURLRequest) *models.URL {
	if listID == "" {
		s.setError("Invalid list ID")
		return nil
	}

	urlData.Address = NormalizeAddress(urlData.Address)
	key := "addurl:" + listID + ":" + urlData.Address
	if !s.tryAcquire(key) {
		return nil
	}
	defer s.release(key)

	s.beginLoading()
	defer s.endLoading()

	var created models.URL
	status, err := s.doJSON(ctx, http.MethodPost, "/lists/"+listID, urlData, &created)
	if err != nil || status != http.StatusCreated {
		s.logger.Warn("Failed to add URL", zap.String("list_id", listID), zap.Int("status", status), zap.Error(err))
		s.setError("Failed to add URL. Please try again.")
		return nil
	}
	return &created
}

// UpdateURL заменяет адрес ссылки в списке
func (s *Store) UpdateURL(ctx context.Context, listID, urlID, address string) bool {
	key := "updateurl:" + listID + ":" + urlID
	if !s.tryAcquire(key) {
		return false
	}
	defer s.release(key)

	s.beginLoading()
	defer s.endLoading()

	var updated models.URL
	status, err := s.doJSON(ctx, http.MethodPut, "/lists/"+listID, models.UpdateURLRequest{
		URLID:   urlID,
		Address: NormalizeAddress(address),
	}, &updated)
	if err != nil || status != http.StatusOK {
		s.logger.Warn("Failed to update URL", zap.String("url_id", urlID), zap.Int("status", status), zap.Error(err))
		s.setError("Failed to update URL. Please try again.")
		return false
	}
	return true
}

// DeleteURL удаляет одну ссылку из списка
func (s *Store) DeleteURL(ctx context.Context, listID, urlID string) bool {
	key := "deleteurl:" + listID + ":" + urlID
	if !s.tryAcquire(key) {
		return false
	}
	defer s.release(key)

	s.beginLoading()
	defer s.endLoading()

	status, err := s.doJSON(ctx, http.MethodDelete, "/lists/"+listID+"/urls/"+urlID, nil, nil)
	if err != nil || status != http.StatusNoContent {
		s.logger.Warn("Failed to delete URL", zap.String("url_id", urlID), zap.Int("status", status), zap.Error(err))
		s.setError("Failed to delete URL. Please try again.")
		return false
	}
	return true
}
