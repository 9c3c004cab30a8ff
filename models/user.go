// models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Account roles. RoleAdmin is never self-assigned; it is granted at bootstrap
// (ADMIN_PHONE) or by an existing admin.
const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)

// User model. Accounts are keyed by the canonical phone number.
type User struct {
	ID         primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Phone      string             `json:"phone" bson:"phone"`
	FullName   string             `json:"fullName" bson:"fullName"`
	Role       string             `json:"role" bson:"role"`
	Status     AccountStatus      `json:"status" bson:"status"`
	Bio        string             `json:"bio,omitempty" bson:"bio,omitempty"`
	ProfilePic string             `json:"profilePic,omitempty" bson:"profilePic,omitempty"`
	CreatedAt  time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt  time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// Response is the standard API response envelope.
type Response struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}
