// Package models содержит модели данных для списков ссылок
package models

import "time"

// List представляет именованную коллекцию ссылок
type List struct {
	ID          string     `json:"id" db:"id"`
	Name        string     `json:"name" db:"name"`
	Title       *string    `json:"title" db:"title"`
	Description *string    `json:"description" db:"description"`
	Slug        *string    `json:"slug" db:"slug"`
	Published   bool       `json:"published" db:"published"`
	PublishedAt *time.Time `json:"published_at" db:"published_at"`
	UserID      string     `json:"user_id,omitempty" db:"user_id"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	URLs        []URL      `json:"urls"`
}

// URL представляет одну ссылку, принадлежащую ровно одному списку
type URL struct {
	ID          string    `json:"id" db:"id"`
	ListID      string    `json:"list_id" db:"list_id"`
	Address     string    `json:"url" db:"url"`
	Title       *string   `json:"title" db:"title"`
	Description *string   `json:"description" db:"description"`
	ImageURL    *string   `json:"image_url" db:"image_url"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// SaveListRequest описывает тело запроса создания или обновления списка.
// Наличие ID помечает запрос как обновление, отсутствие - как создание.
type SaveListRequest struct {
	ID          *string `json:"id,omitempty"`
	Name        string  `json:"name"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Slug        *string `json:"slug"`
}

// ListUpdate содержит поля, заменяемые при обновлении списка
type ListUpdate struct {
	Name        string
	Title       *string
	Description *string
	Slug        *string
}

// AddURLRequest описывает тело запроса добавления ссылки в список
type AddURLRequest struct {
	Address     string  `json:"url"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
	ImageURL    *string `json:"image_url"`
}

// UpdateURLRequest описывает тело запроса обновления адреса ссылки.
// Через этот путь обновляется только адрес.
type UpdateURLRequest struct {
	URLID   string `json:"urlId"`
	Address string `json:"url"`
}

// RemoveURLRequest описывает опциональное тело DELETE-запроса к списку
type RemoveURLRequest struct {
	URLID string `json:"urlId"`
}

// PublishResponse содержит опубликованный список и вычисленный shareable URL
type PublishResponse struct {
	List
	ShareURL string `json:"share_url"`
}

// ErrorResponse содержит сообщение об ошибке для JSON-ответа
type ErrorResponse struct {
	Error string `json:"error"`
}

// Stats содержит количество списков и ссылок в хранилище
type Stats struct {
	Lists int `json:"lists"`
	URLs  int `json:"urls"`
}
