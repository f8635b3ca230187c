package models

import (
	"fmt"
	"strings"
)

type EventType string

const (
	EventWedding  EventType = "wedding"
	EventBirthday EventType = "birthday"
	EventBaby     EventType = "baby"
	EventCustom   EventType = "custom"
)

func (e EventType) Valid() bool {
	switch e {
	case EventWedding, EventBirthday, EventBaby, EventCustom:
		return true
	}
	return false
}

// Draft is a saved filter composition.
//
// CanvasJSON is the serialized scene document. Together with UserID it is the
// deduplication key. CreatedAt is epoch milliseconds and is re-stamped on
// every overwrite, so it reads as "last saved".
type Draft struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	Name       string    `json:"name"`
	EventType  EventType `json:"eventType"`
	CanvasJSON string    `json:"canvasJson"`
	PreviewURL string    `json:"previewUrl"`
	Price      int       `json:"price"`
	CreatedAt  int64     `json:"createdAt"`
	IsTemplate bool      `json:"isTemplate,omitempty"`
}

// DraftInput carries the caller-settable fields of a save.
type DraftInput struct {
	Name       string    `json:"name"`
	EventType  EventType `json:"eventType"`
	CanvasJSON string    `json:"canvasJson"`
	PreviewURL string    `json:"previewUrl"`
	Price      int       `json:"price"`
	IsTemplate bool      `json:"isTemplate,omitempty"`
}

// DefaultDraftName derives a display name from the event category.
func DefaultDraftName(e EventType) string {
	return fmt.Sprintf("Filtre %s", strings.ToUpper(string(e)))
}
