// Package share содержит вычисление shareable URL для опубликованных списков.
// Формула общая для сервера и клиента: расхождение ломает уже разосланные ссылки.
package share

import (
	"strings"

	"github.com/tempizhere/golists/internal/models"
)

// URL возвращает shareable URL списка: {origin}/list/{slug}, если slug
// задан, иначе {origin}/list/{id}
func URL(origin string, list models.List) string {
	key := list.ID
	if list.Slug != nil && *list.Slug != "" {
		key = *list.Slug
	}
	return strings.TrimRight(origin, "/") + "/list/" + key
}
