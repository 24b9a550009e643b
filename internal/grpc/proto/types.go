// Package proto содержит типы запросов и ответов gRPC сервиса списков
package proto

// ListMessage представляет список в gRPC-ответах
type ListMessage struct {
	ID          string
	Name        string
	Title       string
	Description string
	Slug        string
	Published   bool
	URLs        []*URLMessage
}

// URLMessage представляет ссылку в gRPC-ответах
type URLMessage struct {
	ID          string
	ListID      string
	URL         string
	Title       string
	Description string
	ImageURL    string
}

// GetListsRequest запрашивает все списки
type GetListsRequest struct{}

// GetListsResponse содержит все списки
type GetListsResponse struct {
	Lists []*ListMessage
}

// GetListRequest запрашивает список по ID
type GetListRequest struct {
	ID string
}

// GetListResponse содержит найденный список
type GetListResponse struct {
	List  *ListMessage
	Found bool
}

// CreateListRequest создаёт новый список
type CreateListRequest struct {
	Name        string
	Title       string
	Description string
	Slug        string
}

// CreateListResponse содержит созданный список
type CreateListResponse struct {
	List *ListMessage
}

// DeleteListRequest удаляет список по ID
type DeleteListRequest struct {
	ID string
}

// DeleteListResponse подтверждает удаление
type DeleteListResponse struct {
	Deleted bool
}

// AddURLRequest добавляет ссылку в список
type AddURLRequest struct {
	ListID string
	URL    string
}

// AddURLResponse содержит созданную ссылку
type AddURLResponse struct {
	URL *URLMessage
}

// PublishListRequest публикует список
type PublishListRequest struct {
	ID string
}

// PublishListResponse содержит опубликованный список и shareable URL
type PublishListResponse struct {
	List     *ListMessage
	ShareURL string
}

// GetStatsRequest запрашивает статистику сервиса
type GetStatsRequest struct{}

// GetStatsResponse содержит количество списков и ссылок
type GetStatsResponse struct {
	Lists int32
	URLs  int32
}

// PingRequest проверяет состояние сервиса
type PingRequest struct{}

// PingResponse содержит результат проверки
type PingResponse struct {
	OK bool
}
