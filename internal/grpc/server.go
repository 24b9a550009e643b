// Package grpc содержит реализацию gRPC сервера для сервиса списков ссылок
package grpc

import (
	"context"
	"errors"

	"github.com/tempizhere/golists/internal/grpc/proto"
	"github.com/tempizhere/golists/internal/models"
	"github.com/tempizhere/golists/internal/repository"
	"github.com/tempizhere/golists/internal/service"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Server реализует gRPC сервер для сервиса списков
type Server struct {
	proto.UnimplementedListsServiceServer
	svc    *service.Service
	db     repository.Database
	logger *zap.Logger
}

// NewServer создаёт новый gRPC сервер
func NewServer(svc *service.Service, db repository.Database, logger *zap.Logger) *Server {
	return &Server{
		svc:    svc,
		db:     db,
		logger: logger,
	}
}

// toListMessage переводит модель списка в gRPC-представление
func toListMessage(list models.List) *proto.ListMessage {
	msg := &proto.ListMessage{
		ID:        list.ID,
		Name:      list.Name,
		Published: list.Published,
	}
	if list.Title != nil {
		msg.Title = *list.Title
	}
	if list.Description != nil {
		msg.Description = *list.Description
	}
	if list.Slug != nil {
		msg.Slug = *list.Slug
	}
	for _, u := range list.URLs {
		msg.URLs = append(msg.URLs, toURLMessage(u))
	}
	return msg
}

// toURLMessage переводит модель ссылки в gRPC-представление
func toURLMessage(u models.URL) *proto.URLMessage {
	msg := &proto.URLMessage{
		ID:     u.ID,
		ListID: u.ListID,
		URL:    u.Address,
	}
	if u.Title != nil {
		msg.Title = *u.Title
	}
	if u.Description != nil {
		msg.Description = *u.Description
	}
	if u.ImageURL != nil {
		msg.ImageURL = *u.ImageURL
	}
	return msg
}

// GetLists обрабатывает получение всех списков
func (s *Server) GetLists(ctx context.Context, req *proto.GetListsRequest) (*proto.GetListsResponse, error) {
	lists, err := s.svc.Lists()
	if err != nil {
		s.logger.Error("Failed to fetch lists", zap.Error(err))
		return nil, status.Error(codes.Internal, "failed to fetch lists")
	}
	resp := &proto.GetListsResponse{}
	for _, list := range lists {
		resp.Lists = append(resp.Lists, toListMessage(list))
	}
	return resp, nil
}

// GetList обрабатывает получение списка по ID
func (s *Server) GetList(ctx context.Context, req *proto.GetListRequest) (*proto.GetListResponse, error) {
	if req.ID == "" {
		return nil, status.Error(codes.InvalidArgument, "list ID is required")
	}
	list, exists := s.svc.GetList(req.ID)
	if !exists {
		return &proto.GetListResponse{Found: false}, nil
	}
	return &proto.GetListResponse{List: toListMessage(list), Found: true}, nil
}

// CreateList обрабатывает создание списка
func (s *Server) CreateList(ctx context.Context, req *proto.CreateListRequest) (*proto.CreateListResponse, error) {
	if req.Name == "" {
		return nil, status.Error(codes.InvalidArgument, "list name is required")
	}
	saveReq := models.SaveListRequest{Name: req.Name}
	if req.Title != "" {
		saveReq.Title = &req.Title
	}
	if req.Description != "" {
		saveReq.Description = &req.Description
	}
	if req.Slug != "" {
		saveReq.Slug = &req.Slug
	}

	userID, _ := getUserIDFromContext(ctx)
	list, err := s.svc.CreateList(saveReq, userID)
	if err != nil {
		return nil, s.mapError(err)
	}
	return &proto.CreateListResponse{List: toListMessage(list)}, nil
}

// DeleteList обрабатывает удаление списка
func (s *Server) DeleteList(ctx context.Context, req *proto.DeleteListRequest) (*proto.DeleteListResponse, error) {
	if req.ID == "" {
		return nil, status.Error(codes.InvalidArgument, "list ID is required")
	}
	if err := s.svc.DeleteList(req.ID); err != nil {
		return nil, s.mapError(err)
	}
	return &proto.DeleteListResponse{Deleted: true}, nil
}

// AddURL обрабатывает добавление ссылки в список
func (s *Server) AddURL(ctx context.Context, req *proto.AddURLRequest) (*proto.AddURLResponse, error) {
	if req.ListID == "" {
		return nil, status.Error(codes.InvalidArgument, "list ID is required")
	}
	if req.URL == "" {
		return nil, status.Error(codes.InvalidArgument, "URL is required")
	}
	u, err := s.svc.AddURL(req.ListID, models.AddURLRequest{Address: req.URL})
	if err != nil {
		return nil, s.mapError(err)
	}
	return &proto.AddURLResponse{URL: toURLMessage(u)}, nil
}

// PublishList обрабатывает публикацию списка
func (s *Server) PublishList(ctx context.Context, req *proto.PublishListRequest) (*proto.PublishListResponse, error) {
	if req.ID == "" {
		return nil, status.Error(codes.InvalidArgument, "list ID is required")
	}
	list, shareURL, err := s.svc.Publish(req.ID)
	if err != nil {
		return nil, s.mapError(err)
	}
	return &proto.PublishListResponse{List: toListMessage(list), ShareURL: shareURL}, nil
}

// GetStats обрабатывает получение статистики сервиса
func (s *Server) GetStats(ctx context.Context, req *proto.GetStatsRequest) (*proto.GetStatsResponse, error) {
	stats, err := s.svc.Stats()
	if err != nil {
		s.logger.Error("Failed to fetch stats", zap.Error(err))
		return nil, status.Error(codes.Internal, "failed to fetch stats")
	}
	return &proto.GetStatsResponse{Lists: int32(stats.Lists), URLs: int32(stats.URLs)}, nil
}

// Ping обрабатывает проверку состояния сервиса
func (s *Server) Ping(ctx context.Context, req *proto.PingRequest) (*proto.PingResponse, error) {
	if s.db == nil {
		return nil, status.Error(codes.Internal, "database not configured")
	}
	if err := s.db.Ping(); err != nil {
		return nil, status.Error(codes.Internal, "database connection failed")
	}
	return &proto.PingResponse{OK: true}, nil
}

// mapError переводит ошибки сервиса и хранилища в gRPC-статусы
func (s *Server) mapError(err error) error {
	switch {
	case errors.Is(err, repository.ErrListNotFound):
		return status.Error(codes.NotFound, "list not found")
	case errors.Is(err, repository.ErrURLNotFound):
		return status.Error(codes.NotFound, "URL not found")
	case errors.Is(err, repository.ErrSlugExists):
		return status.Error(codes.AlreadyExists, "slug already exists")
	case errors.Is(err, service.ErrEmptyName),
		errors.Is(err, service.ErrEmptyListID),
		errors.Is(err, service.ErrEmptyAddress),
		errors.Is(err, service.ErrEmptyURLID),
		errors.Is(err, service.ErrInvalidSlug):
		return status.Error(codes.InvalidArgument, err.Error())
	default:
		s.logger.Error("Internal error", zap.Error(err))
		return status.Error(codes.Internal, "internal error")
	}
}
