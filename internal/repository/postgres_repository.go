package repository

import (
	"database/sql"
	"errors"

	"github.com/tempizhere/golists/internal/models"
	"go.uber.org/zap"
)

// PostgresRepository реализует интерфейс Repository с использованием PostgreSQL
type PostgresRepository struct {
	db     Database
	logger *zap.Logger
}

// NewPostgresRepository создаёт новый экземпляр PostgresRepository
func NewPostgresRepository(db Database, logger *zap.Logger) (*PostgresRepository, error) {
	if db == nil {
		return nil, nil
	}
	return &PostgresRepository{
		db:     db,
		logger: logger,
	}, nil
}

const selectListColumns = "SELECT id, name, title, description, slug, published, published_at, user_id, created_at FROM lists"

// scanList читает одну строку списка
func scanList(row *sql.Row) (models.List, error) {
	var list models.List
	var userID sql.NullString
	err := row.Scan(&list.ID, &list.Name, &list.Title, &list.Description, &list.Slug,
		&list.Published, &list.PublishedAt, &userID, &list.CreatedAt)
	if err != nil {
		return models.List{}, err
	}
	list.UserID = userID.String
	list.URLs = []models.URL{}
	return list, nil
}

// loadURLs возвращает все ссылки списка в порядке создания
func (r *PostgresRepository) loadURLs(listID string) ([]models.URL, error) {
	rows, err := r.db.Query("SELECT id, list_id, url, title, description, image_url, created_at FROM list_urls WHERE list_id = $1 ORDER BY created_at, id", listID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	urls := []models.URL{}
	for rows.Next() {
		var u models.URL
		if err := rows.Scan(&u.ID, &u.ListID, &u.Address, &u.Title, &u.Description, &u.ImageURL, &u.CreatedAt); err != nil {
			return nil, err
		}
		urls = append(urls, u)
	}
	return urls, rows.Err()
}

// GetLists возвращает все списки вместе с их ссылками
func (r *PostgresRepository) GetLists() ([]models.List, error) {
	rows, err := r.db.Query(selectListColumns + " ORDER BY created_at, id")
	if err != nil {
		r.logger.Error("Failed to query lists", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	lists := []models.List{}
	for rows.Next() {
		var list models.List
		var userID sql.NullString
		if err := rows.Scan(&list.ID, &list.Name, &list.Title, &list.Description, &list.Slug,
			&list.Published, &list.PublishedAt, &userID, &list.CreatedAt); err != nil {
			r.logger.Error("Failed to scan list row", zap.Error(err))
			return nil, err
		}
		list.UserID = userID.String
		list.URLs = []models.URL{}
		lists = append(lists, list)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range lists {
		urls, err := r.loadURLs(lists[i].ID)
		if err != nil {
			r.logger.Error("Failed to load list URLs", zap.String("list_id", lists[i].ID), zap.Error(err))
			return nil, err
		}
		lists[i].URLs = urls
	}
	return lists, nil
}

// GetListByID возвращает список по ID, если он существует
func (r *PostgresRepository) GetListByID(id string) (models.List, bool) {
	list, err := scanList(r.db.QueryRow(selectListColumns+" WHERE id = $1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.List{}, false
	}
	if err != nil {
		r.logger.Error("Failed to get list from database", zap.String("list_id", id), zap.Error(err))
		return models.List{}, false
	}
	urls, err := r.loadURLs(id)
	if err != nil {
		r.logger.Error("Failed to load list URLs", zap.String("list_id", id), zap.Error(err))
		return models.List{}, false
	}
	list.URLs = urls
	return list, true
}

// GetListBySlug возвращает список по slug, если он существует
func (r *PostgresRepository) GetListBySlug(slug string) (models.List, bool) {
	list, err := scanList(r.db.QueryRow(selectListColumns+" WHERE slug = $1", slug))
	if errors.Is(err, sql.ErrNoRows) {
		return models.List{}, false
	}
	if err != nil {
		r.logger.Error("Failed to get list by slug", zap.String("slug", slug), zap.Error(err))
		return models.List{}, false
	}
	urls, err := r.loadURLs(list.ID)
	if err != nil {
		r.logger.Error("Failed to load list URLs", zap.String("list_id", list.ID), zap.Error(err))
		return models.List{}, false
	}
	list.URLs = urls
	return list, true
}

// slugTaken проверяет, занят ли slug другим списком. Гонки на вставке
// закрывает уникальный индекс lists.slug, здесь только ранняя проверка.
func (r *PostgresRepository) slugTaken(slug, excludeID string) (bool, error) {
	var owner string
	err := r.db.QueryRow("SELECT id FROM lists WHERE slug = $1", slug).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return owner != excludeID, nil
}

// CreateList сохраняет новый список в базе данных
func (r *PostgresRepository) CreateList(list models.List) (models.List, error) {
	if list.Slug != nil {
		taken, err := r.slugTaken(*list.Slug, list.ID)
		if err != nil {
			r.logger.Error("Failed to check slug", zap.Error(err))
			return models.List{}, err
		}
		if taken {
			return models.List{}, ErrSlugExists
		}
	}
	err := r.db.QueryRow(
		"INSERT INTO lists (id, name, title, description, slug, user_id) VALUES ($1, $2, $3, $4, $5, $6) RETURNING created_at",
		list.ID, list.Name, list.Title, list.Description, list.Slug, list.UserID,
	).Scan(&list.CreatedAt)
	if err != nil {
		r.logger.Error("Failed to save list to database", zap.String("list_id", list.ID), zap.Error(err))
		return models.List{}, err
	}
	list.URLs = []models.URL{}
	return list, nil
}

// UpdateList заменяет изменяемые поля существующего списка
func (r *PostgresRepository) UpdateList(id string, upd models.ListUpdate) (models.List, error) {
	if upd.Slug != nil {
		taken, err := r.slugTaken(*upd.Slug, id)
		if err != nil {
			r.logger.Error("Failed to check slug", zap.Error(err))
			return models.List{}, err
		}
		if taken {
			return models.List{}, ErrSlugExists
		}
	}
	res, err := r.db.Exec(
		"UPDATE lists SET name = $1, title = $2, description = $3, slug = $4 WHERE id = $5",
		upd.Name, upd.Title, upd.Description, upd.Slug, id,
	)
	if err != nil {
		r.logger.Error("Failed to update list", zap.String("list_id", id), zap.Error(err))
		return models.List{}, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return models.List{}, err
	}
	if affected == 0 {
		return models.List{}, ErrListNotFound
	}
	list, ok := r.GetListByID(id)
	if !ok {
		return models.List{}, ErrListNotFound
	}
	return list, nil
}

// DeleteList удаляет список, ссылки удаляются каскадно по внешнему ключу
func (r *PostgresRepository) DeleteList(id string) error {
	res, err := r.db.Exec("DELETE FROM lists WHERE id = $1", id)
	if err != nil {
		r.logger.Error("Failed to delete list", zap.String("list_id", id), zap.Error(err))
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrListNotFound
	}
	return nil
}

// AddURLToList добавляет ссылку в список
func (r *PostgresRepository) AddURLToList(u models.URL) (models.URL, error) {
	var exists string
	err := r.db.QueryRow("SELECT id FROM lists WHERE id = $1", u.ListID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return models.URL{}, ErrListNotFound
	}
	if err != nil {
		r.logger.Error("Failed to check list", zap.String("list_id", u.ListID), zap.Error(err))
		return models.URL{}, err
	}
	err = r.db.QueryRow(
		"INSERT INTO list_urls (id, list_id, url, title, description, image_url) VALUES ($1, $2, $3, $4, $5, $6) RETURNING created_at",
		u.ID, u.ListID, u.Address, u.Title, u.Description, u.ImageURL,
	).Scan(&u.CreatedAt)
	if err != nil {
		r.logger.Error("Failed to save URL to database", zap.String("list_id", u.ListID), zap.String("url", u.Address), zap.Error(err))
		return models.URL{}, err
	}
	return u, nil
}

// UpdateURL заменяет адрес ссылки в списке
func (r *PostgresRepository) UpdateURL(listID, urlID, address string) (models.URL, error) {
	var u models.URL
	err := r.db.QueryRow(
		"UPDATE list_urls SET url = $1 WHERE id = $2 AND list_id = $3 RETURNING id, list_id, url, title, description, image_url, created_at",
		address, urlID, listID,
	).Scan(&u.ID, &u.ListID, &u.Address, &u.Title, &u.Description, &u.ImageURL, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.URL{}, ErrURLNotFound
	}
	if err != nil {
		r.logger.Error("Failed to update URL", zap.String("url_id", urlID), zap.Error(err))
		return models.URL{}, err
	}
	return u, nil
}

// DeleteURL удаляет одну ссылку из списка
func (r *PostgresRepository) DeleteURL(listID, urlID string) error {
	res, err := r.db.Exec("DELETE FROM list_urls WHERE id = $1 AND list_id = $2", urlID, listID)
	if err != nil {
		r.logger.Error("Failed to delete URL", zap.String("url_id", urlID), zap.Error(err))
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrURLNotFound
	}
	return nil
}

// PublishList помечает список опубликованным. COALESCE сохраняет исходный
// published_at при повторной публикации.
func (r *PostgresRepository) PublishList(id string) (models.List, error) {
	res, err := r.db.Exec("UPDATE lists SET published = TRUE, published_at = COALESCE(published_at, CURRENT_TIMESTAMP) WHERE id = $1", id)
	if err != nil {
		r.logger.Error("Failed to publish list", zap.String("list_id", id), zap.Error(err))
		return models.List{}, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return models.List{}, err
	}
	if affected == 0 {
		return models.List{}, ErrListNotFound
	}
	list, ok := r.GetListByID(id)
	if !ok {
		return models.List{}, ErrListNotFound
	}
	return list, nil
}

// UnpublishList снимает список с публикации
func (r *PostgresRepository) UnpublishList(id string) (models.List, error) {
	res, err := r.db.Exec("UPDATE lists SET published = FALSE, published_at = NULL WHERE id = $1", id)
	if err != nil {
		r.logger.Error("Failed to unpublish list", zap.String("list_id", id), zap.Error(err))
		return models.List{}, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return models.List{}, err
	}
	if affected == 0 {
		return models.List{}, ErrListNotFound
	}
	list, ok := r.GetListByID(id)
	if !ok {
		return models.List{}, ErrListNotFound
	}
	return list, nil
}

// Stats возвращает количество списков и ссылок
func (r *PostgresRepository) Stats() (models.Stats, error) {
	var stats models.Stats
	if err := r.db.QueryRow("SELECT COUNT(*) FROM lists").Scan(&stats.Lists); err != nil {
		r.logger.Error("Failed to count lists", zap.Error(err))
		return models.Stats{}, err
	}
	if err := r.db.QueryRow("SELECT COUNT(*) FROM list_urls").Scan(&stats.URLs); err != nil {
		r.logger.Error("Failed to count URLs", zap.Error(err))
		return models.Stats{}, err
	}
	return stats, nil
}

// Clear очищает все записи в таблицах
func (r *PostgresRepository) Clear() {
	_, err := r.db.Exec("TRUNCATE TABLE lists CASCADE")
	if err != nil {
		r.logger.Error("Failed to clear database", zap.Error(err))
	}
}
