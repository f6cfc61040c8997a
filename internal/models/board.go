package models

import "strings"

type BoardCategory string

const (
	CategoryWork     BoardCategory = "work"
	CategoryPersonal BoardCategory = "personal"
	CategoryStudy    BoardCategory = "study"
	CategoryOther    BoardCategory = "other"
)

// ParseCategory normalizes a category string, falling back to other.
func ParseCategory(s string) BoardCategory {
	switch c := BoardCategory(strings.ToLower(strings.TrimSpace(s))); c {
	case CategoryWork, CategoryPersonal, CategoryStudy, CategoryOther:
		return c
	default:
		return CategoryOther
	}
}

type Board struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Category    BoardCategory `json:"category"`
	CreatedAt   int64         `json:"createdAt"`
	Pinned      bool          `json:"pinned,omitempty"`
	Description string        `json:"description,omitempty"`
	Icon        string        `json:"icon,omitempty"`
	WorkspaceID string        `json:"workspaceId,omitempty"`
}
