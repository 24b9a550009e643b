// Package service реализует бизнес-логику работы со списками ссылок
package service

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"regexp"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/tempizhere/golists/internal/models"
	"github.com/tempizhere/golists/internal/repository"
	"github.com/tempizhere/golists/internal/share"
)

var (
	ErrEmptyName    = errors.New("empty list name")
	ErrEmptyListID  = errors.New("empty list ID")
	ErrEmptyAddress = errors.New("empty URL address")
	ErrEmptyURLID   = errors.New("empty URL ID")
	ErrInvalidSlug  = errors.New("invalid slug format")
)

// slugPattern задаёт допустимый формат slug: строчные буквы, цифры и дефисы
var slugPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// Service реализует логику работы со списками и их ссылками
type Service struct {
	repo      repository.Repository
	siteURL   string
	jwtSecret string
}

// NewService создаёт новый экземпляр Service
func NewService(repo repository.Repository, siteURL, jwtSecret string) *Service {
	return &Service{
		repo:      repo,
		siteURL:   siteURL,
		jwtSecret: jwtSecret,
	}
}

// GenerateID генерирует короткий URL-безопасный идентификатор
func (s *Service) GenerateID() (string, error) {
	bytes := make([]byte, 8)
	_, err := rand.Read(bytes)
	if err != nil {
		return "", err
	}
	encoded := base64.URLEncoding.EncodeToString(bytes)
	return encoded[:8], nil
}

// ValidateSlug проверяет формат slug. Уникальность проверяет только хранилище.
func (s *Service) ValidateSlug(slug string) error {
	if !slugPattern.MatchString(slug) {
		return ErrInvalidSlug
	}
	return nil
}

// Lists возвращает все списки
func (s *Service) Lists() ([]models.List, error) {
	return s.repo.GetLists()
}

// GetList возвращает список по ID вместе с его ссылками
func (s *Service) GetList(id string) (models.List, bool) {
	if id == "" {
		return models.List{}, false
	}
	return s.repo.GetListByID(id)
}

// CreateList создаёт новый список. Имя обязательно, остальные поля
// по умолчанию null.
func (s *Service) CreateList(req models.SaveListRequest, userID string) (models.List, error) {
	if req.Name == "" {
		return models.List{}, ErrEmptyName
	}
	if req.Slug != nil {
		if err := s.ValidateSlug(*req.Slug); err != nil {
			return models.List{}, err
		}
	}
	id, err := s.GenerateID()
	if err != nil {
		return models.List{}, err
	}
	return s.repo.CreateList(models.List{
		ID:          id,
		Name:        req.Name,
		Title:       req.Title,
		Description: req.Description,
		Slug:        req.Slug,
		UserID:      userID,
	})
}

// UpdateList заменяет name/title/description/slug существующего списка
func (s *Service) UpdateList(req models.SaveListRequest) (models.List, error) {
	if req.ID == nil || *req.ID == "" {
		return models.List{}, ErrEmptyListID
	}
	if req.Name == "" {
		return models.List{}, ErrEmptyName
	}
	if req.Slug != nil {
		if err := s.ValidateSlug(*req.Slug); err != nil {
			return models.List{}, err
		}
	}
	return s.repo.UpdateList(*req.ID, models.ListUpdate{
		Name:        req.Name,
		Title:       req.Title,
		Description: req.Description,
		Slug:        req.Slug,
	})
}

// DeleteList удаляет список вместе со всеми его ссылками
func (s *Service) DeleteList(id string) error {
	if id == "" {
		return ErrEmptyListID
	}
	return s.repo.DeleteList(id)
}

// AddURL добавляет ссылку в список
func (s *Service) AddURL(listID string, req models.AddURLRequest) (models.URL, error) {
	if listID == "" {
		return models.URL{}, ErrEmptyListID
	}
	if req.Address == "" {
		return models.URL{}, ErrEmptyAddress
	}
	id, err := s.GenerateID()
	if err != nil {
		return models.URL{}, err
	}
	return s.repo.AddURLToList(models.URL{
		ID:          id,
		ListID:      listID,
		Address:     req.Address,
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	})
}

// UpdateURL заменяет адрес ссылки в списке
func (s *Service) UpdateURL(listID, urlID, address string) (models.URL, error) {
	if listID == "" {
		return models.URL{}, ErrEmptyListID
	}
	if urlID == "" {
		return models.URL{}, ErrEmptyURLID
	}
	if address == "" {
		return models.URL{}, ErrEmptyAddress
	}
	return s.repo.UpdateURL(listID, urlID, address)
}

// DeleteURL удаляет одну ссылку из списка
func (s *Service) DeleteURL(listID, urlID string) error {
	if listID == "" {
		return ErrEmptyListID
	}
	if urlID == "" {
		return ErrEmptyURLID
	}
	return s.repo.DeleteURL(listID, urlID)
}

// Publish публикует список и возвращает его вместе с shareable URL.
// Повторная публикация идемпотентна.
func (s *Service) Publish(id string) (models.List, string, error) {
	if id == "" {
		return models.List{}, "", ErrEmptyListID
	}
	list, err := s.repo.PublishList(id)
	if err != nil {
		return models.List{}, "", err
	}
	return list, s.ShareURL(list), nil
}

// Unpublish снимает список с публикации
func (s *Service) Unpublish(id string) (models.List, error) {
	if id == "" {
		return models.List{}, ErrEmptyListID
	}
	return s.repo.UnpublishList(id)
}

// ResolvePublished возвращает опубликованный список по slug или ID.
// Неопубликованные списки не видны по shareable URL.
func (s *Service) ResolvePublished(key string) (models.List, bool) {
	if key == "" {
		return models.List{}, false
	}
	list, exists := s.repo.GetListBySlug(key)
	if !exists {
		list, exists = s.repo.GetListByID(key)
	}
	if !exists || !list.Published {
		return models.List{}, false
	}
	return list, true
}

// ShareURL возвращает shareable URL списка
func (s *Service) ShareURL(list models.List) string {
	return share.URL(s.siteURL, list)
}

// SiteURL возвращает базовый адрес сайта
func (s *Service) SiteURL() string {
	return s.siteURL
}

// Stats возвращает количество списков и ссылок
func (s *Service) Stats() (models.Stats, error) {
	return s.repo.Stats()
}

// GenerateUserID генерирует идентификатор анонимного пользователя
func (s *Service) GenerateUserID() (string, error) {
	bytes := make([]byte, 16)
	_, err := rand.Read(bytes)
	if err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(bytes), nil
}

// GenerateJWT создаёт подписанный токен с идентификатором пользователя
func (s *Service) GenerateJWT(userID string) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour * 365)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// ParseJWT извлекает идентификатор пользователя из токена
func (s *Service) ParseJWT(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid || claims.Subject == "" {
		return "", errors.New("invalid token")
	}
	return claims.Subject, nil
}
