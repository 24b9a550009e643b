package repository

import (
	"sync"
	"time"

	"github.com/tempizhere/golists/internal/models"
)

// MemoryRepository реализует интерфейс Repository с использованием map
type MemoryRepository struct {
	lists map[string]models.List
	order []string // порядок создания списков для GetLists
	slugs map[string]string
	mutex sync.RWMutex
}

// NewMemoryRepository создаёт новый экземпляр MemoryRepository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		lists: make(map[string]models.List),
		slugs: make(map[string]string),
	}
}

// GetLists возвращает все списки в порядке создания
func (r *MemoryRepository) GetLists() ([]models.List, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	lists := make([]models.List, 0, len(r.order))
	for _, id := range r.order {
		lists = append(lists, cloneList(r.lists[id]))
	}
	return lists, nil
}

// GetListByID возвращает список по ID, если он существует
func (r *MemoryRepository) GetListByID(id string) (models.List, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	list, exists := r.lists[id]
	if !exists {
		return models.List{}, false
	}
	return cloneList(list), true
}

// GetListBySlug возвращает список по slug, если он существует
func (r *MemoryRepository) GetListBySlug(slug string) (models.List, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	id, exists := r.slugs[slug]
	if !exists {
		return models.List{}, false
	}
	return cloneList(r.lists[id]), true
}

// CreateList сохраняет новый список
func (r *MemoryRepository) CreateList(list models.List) (models.List, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if list.Slug != nil {
		if owner, taken := r.slugs[*list.Slug]; taken && owner != list.ID {
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
	return cloneList(list), nil
}

// UpdateList заменяет изменяемые поля существующего списка
func (r *MemoryRepository) UpdateList(id string, upd models.ListUpdate) (models.List, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	list, exists := r.lists[id]
	if !exists {
		return models.List{}, ErrListNotFound
	}
	if upd.Slug != nil {
		if owner, taken := r.slugs[*upd.Slug]; taken && owner != id {
			return models.List{}, ErrSlugExists
		}
	}

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
	return cloneList(list), nil
}

// DeleteList удаляет список вместе со всеми его ссылками
func (r *MemoryRepository) DeleteList(id string) error {
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
	for i, listID := range r.order {
		if listID == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// AddURLToList добавляет ссылку в список
func (r *MemoryRepository) AddURLToList(u models.URL) (models.URL, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	list, exists := r.lists[u.ListID]
	if !exists {
		return models.URL{}, ErrListNotFound
	}
	u.CreatedAt = time.Now()
	list.URLs = append(list.URLs, u)
	r.lists[u.ListID] = list
	return u, nil
}

// UpdateURL заменяет адрес ссылки в списке
func (r *MemoryRepository) UpdateURL(listID, urlID, address string) (models.URL, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	list, exists := r.lists[listID]
	if !exists {
		return models.URL{}, ErrListNotFound
	}
	for i, u := range list.URLs {
		if u.ID == urlID {
			list.URLs[i].Address = address
			r.lists[listID] = list
			return list.URLs[i], nil
		}
	}
	return models.URL{}, ErrURLNotFound
}

// DeleteURL удаляет одну ссылку из списка
func (r *MemoryRepository) DeleteURL(listID, urlID string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	list, exists := r.lists[listID]
	if !exists {
		return ErrListNotFound
	}
	for i, u := range list.URLs {
		if u.ID == urlID {
			list.URLs = append(list.URLs[:i], list.URLs[i+1:]...)
			r.lists[listID] = list
			return nil
		}
	}
	return ErrURLNotFound
}

// PublishList помечает список опубликованным. Повторная публикация не меняет
// ни published, ни published_at.
func (r *MemoryRepository) PublishList(id string) (models.List, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	list, exists := r.lists[id]
	if !exists {
		return models.List{}, ErrListNotFound
	}
	if !list.Published {
		now := time.Now()
		list.Published = true
		list.PublishedAt = &now
		r.lists[id] = list
	}
	return cloneList(list), nil
}

// UnpublishList снимает список с публикации
func (r *MemoryRepository) UnpublishList(id string) (models.List, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	list, exists := r.lists[id]
	if !exists {
		return models.List{}, ErrListNotFound
	}
	if list.Published {
		list.Published = false
		list.PublishedAt = nil
		r.lists[id] = list
	}
	return cloneList(list), nil
}

// Stats возвращает количество списков и ссылок в хранилище
func (r *MemoryRepository) Stats() (models.Stats, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	stats := models.Stats{Lists: len(r.lists)}
	for _, list := range r.lists {
		stats.URLs += len(list.URLs)
	}
	return stats, nil
}

// Clear очищает хранилище
func (r *MemoryRepository) Clear() {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.lists = make(map[string]models.List)
	r.slugs = make(map[string]string)
	r.order = nil
}

// cloneList копирует список вместе со слайсом ссылок, чтобы вызывающий код
// не мог изменить состояние хранилища через возвращённое значение
func cloneList(list models.List) models.List {
	urls := make([]models.URL, len(list.URLs))
	copy(urls, list.URLs)
	list.URLs = urls
	return list
}
