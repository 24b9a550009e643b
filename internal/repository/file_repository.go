package repository

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/tempizhere/golists/internal/models"
	"go.uber.org/zap"
)

// FileRepository реализует интерфейс Repository с сохранением снимка в JSON-файл
type FileRepository struct {
	lists    map[string]models.List
	order    []string
	slugs    map[string]string
	filePath string
	logger   *zap.Logger
	mutex    sync.RWMutex
}

// NewFileRepository создаёт новый экземпляр FileRepository и загружает
// существующий файл, если он есть
func NewFileRepository(filePath string, logger *zap.Logger) (*FileRepository, error) {
	repo := &FileRepository{
		lists:    make(map[string]models.List),
		slugs:    make(map[string]string),
		filePath: filePath,
		logger:   logger,
	}

	// Создаём директорию, если не существует
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return repo, nil
		}
		return nil, err
	}
	if len(data) == 0 {
		return repo, nil
	}

	var stored []models.List
	if err := json.Unmarshal(data, &stored); err != nil {
		// Повреждённый файл не должен ронять сервис, начинаем с пустого состояния
		repo.logger.Warn("Skipping invalid storage file", zap.String("path", filePath), zap.Error(err))
		return repo, nil
	}
	for _, list := range stored {
		repo.lists[list.ID] = list
		repo.order = append(repo.order, list.ID)
		if list.Slug != nil {
			repo.slugs[*list.Slug] = list.ID
		}
	}
	return repo, nil
}

// save записывает снимок всех списков в файл. Вызывается под мьютексом.
func (r *FileRepository) save() error {
	lists := make([]models.List, 0, len(r.order))
	for _, id := range r.order {
		lists = append(lists, r.lists[id])
	}
	data, err := json.Marshal(lists)
	if err != nil {
		return err
	}
	if err := os.WriteFile(r.filePath, data, 0644); err != nil {
		r.logger.Error("Failed to write storage file", zap.String("path", r.filePath), zap.Error(err))
		return err
	}
	return nil
}

// GetLists возвращает все списки в порядке создания
func (r *FileRepository) GetLists() ([]models.List, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	lists := make([]models.List, 0, len(r.order))
	for _, id := range r.order {
		lists = append(lists, cloneList(r.lists[id]))
	}
	return lists, nil
}

// GetListByID возвращает список по ID, если он существует
func (r *FileRepository) GetListByID(id string) (models.List, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	list, exists := r.lists[id]
	if !exists {
		return models.List{}, false
	}
	return cloneList(list), true
}

// GetListBySlug возвращает список по slug, если он существует
func (r *FileRepository) GetListBySlug(slug string) (models.List, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	id, exists := r.slugs[slug]
	if !exists {
		return models.List{}, false
	}
	return cloneList(r.lists[id]), true
}

// CreateList сохраняет новый список в хранилище и файл
func (r *FileRepository) CreateList(list models.List) (models.List, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if list.Slug != nil {
		if owner, taken := r.slugs[*list.Slug]; taken && owner != list.ID {
			r.logger.Info("Slug already exists", zap.String("slug", *list.Slug), zap.String("list_id", owner))
			return models.List{}, ErrSlugExists
		}
	}

	list.CreatedAt = time.Now()
	if list.URLs == nil {
		list.URLs = []models.URL{}
	}
	r.lists[list.ID] = list
	r.order = append(r.order, list.ID)
	if list.Slug != nil {
		r.slugs[*list.Slug] = list.ID
	}
	if err := r.save(); err != nil {
		// Откатываем изменение: память и файл не должны расходиться
		delete(r.lists, list.ID)
		r.order = r.order[:len(r.order)-1]
		if list.Slug != nil {
			delete(r.slugs, *list.Slug)
		}
		return models.List{}, err
	}
	return cloneList(list), nil
}

// UpdateList заменяет изменяемые поля существующего списка
func (r *FileRepository) UpdateList(id string, upd models.ListUpdate) (models.List, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	list, exists := r.lists[id]
	if !exists {
		return models.List{}, ErrListNotFound
	}
	if upd.Slug != nil {
		if owner, taken := r.slugs[*upd.Slug]; taken && owner != id {
			r.logger.Info("Slug already exists", zap.String("slug", *upd.Slug), zap.String("list_id", owner))
			return models.List{}, ErrSlugExists
		}
	}

	prev := list
	if list.Slug != nil {
		delete(r.slugs, *list.Slug)
	}
	list.Name = upd.Name
	list.Title = upd.Title
	list.Description = upd.Description
	list.Slug = upd.Slug
	if list.Slug != nil {
		r.slugs[*list.Slug] = id
	}
	r.lists[id] = list
	if err := r.save(); err != nil {
		if list.Slug != nil {
			delete(r.slugs, *list.Slug)
		}
		if prev.Slug != nil {
			r.slugs[*prev.Slug] = id
		}
		r.lists[id] = prev
		return models.List{}, err
	}
	return cloneList(list), nil
}

// DeleteList удаляет список вместе со всеми его ссылками
func (r *FileRepository) DeleteList(id string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	list, exists := r.lists[id]
	if !exists {
		return ErrListNotFound
	}
	if list.Slug != nil {
		delete(r.slugs, *list.Slug)
	}
	delete(r.lists, id)
	pos := -1
	for i, listID := range r.order {
		if listID == id {
			pos = i
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	if err := r.save(); err != nil {
		// Ошибка записи не должна терять список в памяти
		r.lists[id] = list
		if list.Slug != nil {
			r.slugs[*list.Slug] = id
		}
		if pos >= 0 {
			r.order = append(r.order[:pos], append([]string{id}, r.order[pos:]...)...)
		}
		return err
	}
	return nil
}

// AddURLToList добавляет ссылку в список
func (r *FileRepository) AddURLToList(u models.URL) (models.URL, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	list, exists := r.lists[u.ListID]
	if !exists {
		return models.URL{}, ErrListNotFound
	}
	prev := cloneList(list)
	u.CreatedAt = time.Now()
	list.URLs = append(list.URLs, u)
	r.lists[u.ListID] = list
	if err := r.save(); err != nil {
		r.lists[u.ListID] = prev
		return models.URL{}, err
	}
	return u, nil
}

// UpdateURL заменяет адрес ссылки в списке
func (r *FileRepository) UpdateURL(listID, urlID, address string) (models.URL, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	list, exists := r.lists[listID]
	if !exists {
		return models.URL{}, ErrListNotFound
	}
	for i, u := range list.URLs {
		if u.ID == urlID {
			prev := list.URLs[i].Address
			list.URLs[i].Address = address
			r.lists[listID] = list
			if err := r.save(); err != nil {
				list.URLs[i].Address = prev
				r.lists[listID] = list
				return models.URL{}, err
			}
			return list.URLs[i], nil
		}
	}
	return models.URL{}, ErrURLNotFound
}

// DeleteURL удаляет одну ссылку из списка
func (r *FileRepository) DeleteURL(listID, urlID string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	list, exists := r.lists[listID]
	if !exists {
		return ErrListNotFound
	}
	for i, u := range list.URLs {
		if u.ID == urlID {
			prev := cloneList(list)
			list.URLs = append(list.URLs[:i], list.URLs[i+1:]...)
			r.lists[listID] = list
			if err := r.save(); err != nil {
				r.lists[listID] = prev
				return err
			}
			return nil
		}
	}
	return ErrURLNotFound
}

// PublishList помечает список опубликованным
func (r *FileRepository) PublishList(id string) (models.List, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	list, exists := r.lists[id]
	if !exists {
		return models.List{}, ErrListNotFound
	}
	if !list.Published {
		prev := list
		now := time.Now()
		list.Published = true
		list.PublishedAt = &now
		r.lists[id] = list
		if err := r.save(); err != nil {
			r.lists[id] = prev
			return models.List{}, err
		}
	}
	return cloneList(list), nil
}

// UnpublishList снимает список с публикации
func (r *FileRepository) UnpublishList(id string) (models.List, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	list, exists := r.lists[id]
	if !exists {
		return models.List{}, ErrListNotFound
	}
	if list.Published {
		prev := list
		list.Published = false
		list.PublishedAt = nil
		r.lists[id] = list
		if err := r.save(); err != nil {
			r.lists[id] = prev
			return models.List{}, err
		}
	}
	return cloneList(list), nil
}

// Stats возвращает количество списков и ссылок в хранилище
func (r *FileRepository) Stats() (models.Stats, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	stats := models.Stats{Lists: len(r.lists)}
	for _, list := range r.lists {
		stats.URLs += len(list.URLs)
	}
	return stats, nil
}

// Clear очищает хранилище и файл
func (r *FileRepository) Clear() {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.lists = make(map[string]models.List)
	r.slugs = make(map[string]string)
	r.order = nil
	if err := r.save(); err != nil {
		r.logger.Error("Failed to clear storage file", zap.Error(err))
	}
}
