// models/photo.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Photo moderation states.
const (
	PhotoPending  = "pending"
	PhotoApproved = "approved"
	PhotoRejected = "rejected"
)

// Photo is an uploaded gallery image. Path and ThumbnailPath are URLs relative
// to the server root (/uploads/...). Only approved photos appear in the public
// gallery.
type Photo struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	OwnerID       primitive.ObjectID `json:"ownerId" bson:"ownerId"`
	OwnerName     string             `json:"ownerName" bson:"ownerName"`
	Caption       string             `json:"caption,omitempty" bson:"caption,omitempty"`
	Path          string             `json:"path" bson:"path"`
	ThumbnailPath string             `json:"thumbnailPath" bson:"thumbnailPath"`
	Status        string             `json:"status" bson:"status"`
	CreatedAt     time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt" bson:"updatedAt"`
}
