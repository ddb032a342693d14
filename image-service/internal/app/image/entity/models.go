package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ImageRecord - метаданные блоба в MongoDB
// Path - иерархический ключ блоба (Beers/{breweryId}/{beerId}{ext} или
// Opinions/{breweryId}/{beerId}/{userId}{ext}), уникален
type ImageRecord struct {
	ID          primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	Path        string             `json:"path" bson:"path"`
	URI         string             `json:"uri" bson:"uri"`
	Size        int64              `json:"size" bson:"size"`
	ContentType string             `json:"content_type" bson:"content_type"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at" bson:"updated_at"`
}
