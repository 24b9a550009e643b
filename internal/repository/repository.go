// Package repository содержит интерфейсы и реализации хранилища списков
package repository

import (
	"database/sql"
	"errors"

	"github.com/tempizhere/golists/internal/models"
)

var (
	// ErrSlugExists возвращается при попытке сохранить slug, который уже занят другим списком
	ErrSlugExists = errors.New("slug already exists")
	// ErrListNotFound возвращается, когда список с заданным ID не существует
	ErrListNotFound = errors.New("list not found")
	// ErrURLNotFound возвращается, когда ссылка не найдена в указанном списке
	ErrURLNotFound = errors.New("URL not found")
)

// Repository определяет интерфейс для работы с хранилищем списков и ссылок
type Repository interface {
	// GetLists возвращает все списки вместе с их ссылками
	GetLists() ([]models.List, error)
	// GetListByID возвращает список по ID и флаг существования
	GetListByID(id string) (models.List, bool)
	// GetListBySlug возвращает список по slug и флаг существования
	GetListBySlug(slug string) (models.List, bool)
	// CreateList сохраняет новый список
	CreateList(list models.List) (models.List, error)
	// UpdateList заменяет name/title/description/slug существующего списка
	UpdateList(id string, upd models.ListUpdate) (models.List, error)
	// DeleteList удаляет список вместе со всеми его ссылками
	DeleteList(id string) error
	// AddURLToList добавляет ссылку в список
	AddURLToList(u models.URL) (models.URL, error)
	// UpdateURL заменяет адрес ссылки в списке
	UpdateURL(listID, urlID, address string) (models.URL, error)
	// DeleteURL удаляет одну ссылку из списка
	DeleteURL(listID, urlID string) error
	// PublishList помечает список опубликованным, повторный вызов не меняет состояние
	PublishList(id string) (models.List, error)
	// UnpublishList снимает список с публикации
	UnpublishList(id string) (models.List, error)
	// Stats возвращает количество списков и ссылок в хранилище
	Stats() (models.Stats, error)
	// Clear очищает все данные в хранилище
	Clear()
}

// Database определяет интерфейс для работы с базой данных
type Database interface {
	// Ping проверяет соединение с базой данных
	Ping() error
	// Close закрывает соединение с базой данных
	Close() error
	// Exec выполняет SQL-команду без возврата результатов
	Exec(query string, args ...interface{}) (sql.Result, error)
	// Query выполняет SQL-запрос и возвращает результаты
	Query(query string, args ...interface{}) (*sql.Rows, error)
	// QueryRow выполняет SQL-запрос и возвращает одну строку результата
	QueryRow(query string, args ...interface{}) *sql.Row
	// Begin начинает новую транзакцию
	Begin() (*sql.Tx, error)
}
