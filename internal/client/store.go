// Package client реализует клиентский кэш состояния списков: локальный
// снимок {lists, activeListID} с флагами isLoading/error, синхронизируемый
// с сервером через HTTP-операции. Снимок меняется только операциями этого
// пакета, наблюдатели получают уведомления через Subscribe.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/tempizhere/golists/internal/models"
	"go.uber.org/zap"
)

// Store содержит клиентское состояние списков
type Store struct {
	httpc  *http.Client
	origin string
	logger *zap.Logger

	mutex        sync.RWMutex
	lists        []models.List
	activeListID string
	loading      bool
	lastErr      string

	subsMutex sync.Mutex
	subs      map[int]func()
	nextSubID int

	inflightMutex sync.Mutex
	inflight      map[string]struct{}
}

// NewStore создаёт новый экземпляр Store. origin - адрес сервера, он же
// используется как origin для shareable URL.
func NewStore(origin string, httpc *http.Client, logger *zap.Logger) *Store {
	if httpc == nil {
		httpc = &http.Client{}
	}
	return &Store{
		httpc:    httpc,
		origin:   strings.TrimRight(origin, "/"),
		logger:   logger,
		lists:    []models.List{},
		subs:     make(map[int]func()),
		inflight: make(map[string]struct{}),
	}
}

// Lists возвращает копию локального снимка списков
func (s *Store) Lists() []models.List {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	lists := make([]models.List, len(s.lists))
	copy(lists, s.lists)
	return lists
}

// ActiveListID возвращает идентификатор выбранного списка, пустая строка -
// выбор отсутствует
func (s *Store) ActiveListID() string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.activeListID
}

// IsLoading возвращает флаг выполняющейся сетевой операции
func (s *Store) IsLoading() bool {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.loading
}

// Err возвращает сообщение последней ошибки, пустая строка - ошибки нет
func (s *Store) Err() string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.lastErr
}

// Subscribe регистрирует наблюдателя изменений состояния и возвращает
// функцию отписки
func (s *Store) Subscribe(fn func()) func() {
	s.subsMutex.Lock()
	defer s.subsMutex.Unlock()

	id := s.nextSubID
	s.nextSubID++
	s.subs[id] = fn
	return func() {
		s.subsMutex.Lock()
		defer s.subsMutex.Unlock()
		delete(s.subs, id)
	}
}

// notify вызывает наблюдателей вне мьютекса состояния
func (s *Store) notify() {
	s.subsMutex.Lock()
	fns := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subsMutex.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// beginLoading включает флаг isLoading и сбрасывает прошлую ошибку.
// Вызывается только перед сетевой операцией, локальная валидация флаг
// не трогает.
func (s *Store) beginLoading() {
	s.mutex.Lock()
	s.loading = true
	s.lastErr = ""
	s.mutex.Unlock()
	s.notify()
}

// endLoading выключает флаг isLoading. Снятие выполняется через defer, так
// что флаг гаснет и при ошибке декодирования ответа.
func (s *Store) endLoading() {
	s.mutex.Lock()
	s.loading = false
	s.mutex.Unlock()
	s.notify()
}

// setError записывает сообщение об ошибке
func (s *Store) setError(message string) {
	s.mutex.Lock()
	s.lastErr = message
	s.mutex.Unlock()
	s.notify()
}

// tryAcquire захватывает single-flight ключ операции. Возвращает false,
// если такая же операция уже выполняется: повторный вызов не должен
// порождать второй сетевой запрос.
func (s *Store) tryAcquire(key string) bool {
	s.inflightMutex.Lock()
	defer s.inflightMutex.Unlock()

	if _, busy := s.inflight[key]; busy {
		s.logger.Warn("Duplicate operation suppressed", zap.String("key", key))
		return false
	}
	s.inflight[key] = struct{}{}
	return true
}

// release освобождает single-flight ключ
func (s *Store) release(key string) {
	s.inflightMutex.Lock()
	defer s.inflightMutex.Unlock()
	delete(s.inflight, key)
}

// doJSON выполняет HTTP-запрос с JSON-телом и декодирует JSON-ответ в out.
// Возвращает статус ответа; любая транспортная ошибка возвращается как error.
func (s *Store) doJSON(ctx context.Context, method, path string, body interface{}, out interface{}) (int, error) {
	var reqBody *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, err
		}
		reqBody = bytes.NewBuffer(data)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.origin+path, reqBody)
	if err != nil {
		return 0, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.httpc.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if out != nil && resp.StatusCode < http.StatusMultipleChoices {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("decode response: %w", err)
		}
	}
	return resp.StatusCode, nil
}

// findList возвращает индекс списка в локальном снимке. Вызывается под мьютексом.
func (s *Store) findList(id string) int {
	for i := range s.lists {
		if s.lists[i].ID == id {
			return i
		}
	}
	return -1
}
