// Package proto содержит интерфейс gRPC сервиса списков ссылок
package proto

import (
	"context"

	"google.golang.org/grpc"
)

// ListsServiceServer представляет интерфейс gRPC сервиса
type ListsServiceServer interface {
	GetLists(ctx context.Context, req *GetListsRequest) (*GetListsResponse, error)
	GetList(ctx context.Context, req *GetListRequest) (*GetListResponse, error)
	CreateList(ctx context.Context, req *CreateListRequest) (*CreateListResponse, error)
	DeleteList(ctx context.Context, req *DeleteListRequest) (*DeleteListResponse, error)
	AddURL(ctx context.Context, req *AddURLRequest) (*AddURLResponse, error)
	PublishList(ctx context.Context, req *PublishListRequest) (*PublishListResponse, error)
	GetStats(ctx context.Context, req *GetStatsRequest) (*GetStatsResponse, error)
	Ping(ctx context.Context, req *PingRequest) (*PingResponse, error)
}

// UnimplementedListsServiceServer предоставляет базовую реализацию интерфейса
type UnimplementedListsServiceServer struct{}

// GetLists предоставляет базовую реализацию получения всех списков
func (UnimplementedListsServiceServer) GetLists(ctx context.Context, req *GetListsRequest) (*GetListsResponse, error) {
	return nil, nil
}

// GetList предоставляет базовую реализацию получения списка по ID
func (UnimplementedListsServiceServer) GetList(ctx context.Context, req *GetListRequest) (*GetListResponse, error) {
	return nil, nil
}

// CreateList предоставляет базовую реализацию создания списка
func (UnimplementedListsServiceServer) CreateList(ctx context.Context, req *CreateListRequest) (*CreateListResponse, error) {
	return nil, nil
}

// DeleteList предоставляет базовую реализацию удаления списка
func (UnimplementedListsServiceServer) DeleteList(ctx context.Context, req *DeleteListRequest) (*DeleteListResponse, error) {
	return nil, nil
}

// AddURL предоставляет базовую реализацию добавления ссылки
func (UnimplementedListsServiceServer) AddURL(ctx context.Context, req *AddURLRequest) (*AddURLResponse, error) {
	return nil, nil
}

// PublishList предоставляет базовую реализацию публикации списка
func (UnimplementedListsServiceServer) PublishList(ctx context.Context, req *PublishListRequest) (*PublishListResponse, error) {
	return nil, nil
}

// GetStats предоставляет базовую реализацию получения статистики сервиса
func (UnimplementedListsServiceServer) GetStats(ctx context.Context, req *GetStatsRequest) (*GetStatsResponse, error) {
	return nil, nil
}

// Ping предоставляет базовую реализацию проверки состояния сервиса
func (UnimplementedListsServiceServer) Ping(ctx context.Context, req *PingRequest) (*PingResponse, error) {
	return nil, nil
}

// RegisterListsServiceServer регистрирует реализацию сервиса в gRPC сервере
func RegisterListsServiceServer(s *grpc.Server, srv ListsServiceServer) {
	// В реальном проекте это было бы автоматически сгенерировано protoc
	// Здесь заглушка для демонстрации
}
