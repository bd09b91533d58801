package entity

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultCategory receives every entry that matches no other category.
const DefaultCategory = "Outros"

// BaseCategories are available to every user and cannot be removed.
var BaseCategories = []string{
	"Alimentação",
	"Transporte",
	"Moradia",
	"Lazer",
	"Saúde",
	"Salário",
	"Investimentos",
	"Educação",
	"Viagem",
	"Compras",
	"Assinaturas",
	"Presentes",
	DefaultCategory,
}

// Category is a user-defined category name.
type Category struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Name      string
	CreatedAt time.Time
}

// NewCategory creates a new custom Category.
func NewCategory(userID uuid.UUID, name string) *Category {
	return &Category{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
}

// IsBaseCategory reports whether name is one of the base categories,
// ignoring case.
func IsBaseCategory(name string) bool {
	for _, c := range BaseCategories {
		if strings.EqualFold(c, name) {
			return true
		}
	}
	return false
}

// MergeCategories returns the sorted union of the base categories and the
// given custom names.
func MergeCategories(custom []*Category) []string {
	seen := make(map[string]struct{}, len(BaseCategories)+len(custom))
	names := make([]string, 0, len(BaseCategories)+len(custom))
	add := func(n string) {
		if _, ok := seen[n]; ok {
			return
		}
		seen[n] = struct{}{}
		names = append(names, n)
	}
	for _, c := range BaseCategories {
		add(c)
	}
	for _, c := range custom {
		add(c.Name)
	}
	sort.Strings(names)
	return names
}

// FindCategory returns the entry of categories equal to name ignoring case.
func FindCategory(name string, categories []string) (string, bool) {
	name = strings.TrimSpace(name)
	for _, c := range categories {
		if strings.EqualFold(c, name) {
			return c, true
		}
	}
	return "", false
}

// ResolveCategory returns the entry of categories equal to name ignoring
// case, or DefaultCategory.
func ResolveCategory(name string, categories []string) string {
	if c, ok := FindCategory(name, categories); ok {
		return c
	}
	return DefaultCategory
}
