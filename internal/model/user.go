package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`
	OrgID        primitive.ObjectID `bson:"orgId,omitempty" json:"orgId,omitempty"`
	Role         Role               `bson:"role" json:"role"`
	PasswordHash string             `bson:"passwordHash" json:"-"`
	Active       bool               `bson:"active" json:"active"`
	System       bool               `bson:"system" json:"system"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	CreatedBy    primitive.ObjectID `bson:"createdBy" json:"createdBy"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// RegisterRequest is the public self-registration payload
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
	OrgName  string `json:"orgName"`
}

// CreateUserRequest is the admin provisioning payload
type CreateUserRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required"`
	Role  Role   `json:"role" binding:"required"`
}

// ProvisionedUserResponse returns the generated temporary password exactly once
type ProvisionedUserResponse struct {
	User         *User  `json:"user"`
	TempPassword string `json:"tempPassword"`
}
