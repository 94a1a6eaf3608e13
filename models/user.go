package models

import "time"

// SpecializationClient marks an account that only books appointments.
const SpecializationClient = "user"

// User represents a platform account. Masters are users with a specialization other than "user".
type User struct {
	ID             string    `bson:"id" json:"id"`
	FullName       string    `bson:"fullName" json:"full_name"`
	Username       string    `bson:"username" json:"username"`
	Email          string    `bson:"email" json:"email"`
	PasswordHash   string    `bson:"passwordHash" json:"-"`
	Bio            string    `bson:"bio,omitempty" json:"bio"`
	Specialization string    `bson:"specialization" json:"specialization"`
	AverageRating  float64   `bson:"averageRating" json:"average_rating"`
	HasAvatar      bool      `bson:"hasAvatar" json:"has_avatar"`
	TelegramChatID int64     `bson:"telegramChatId,omitempty" json:"-"` // set when a master links the bot
	PushToken      string    `bson:"pushToken,omitempty" json:"-"`      // FCM registration token
	RegisteredAt   time.Time `bson:"registeredAt" json:"registered_at"`
	UpdatedAt      time.Time `bson:"updatedAt" json:"updated_at"`
}

// IsMaster reports whether the account offers services.
func (u *User) IsMaster() bool {
	return u.Specialization != "" && u.Specialization != SpecializationClient
}

// RegisterRequest is the body of POST /register.
type RegisterRequest struct {
	FullName       string `json:"full_name" binding:"required"`
	Username       string `json:"username" binding:"required"`
	Email          string `json:"email" binding:"required,email"`
	Password       string `json:"password" binding:"required"`
	Specialization string `json:"specialization"`
	Code           string `json:"code" binding:"required"`
}

// LoginRequest is the body of POST /login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UserUpdateRequest is the body of PUT /users.
type UserUpdateRequest struct {
	Username       string `json:"username"`
	Email          string `json:"email"`
	Specialization string `json:"specialization"`
	Bio            string `json:"bio"`
	FullName       string `json:"full_name"`
}

// RestoreRequest is the body of POST /restore.
type RestoreRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Code     string `json:"code" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// MasterFilter narrows GET /masters. Zero values mean "no filter".
type MasterFilter struct {
	Specialization string  `form:"specialization"`
	MinRating      float64 `form:"min_rating"`
}

// SendCodeRequest is the body of POST /send-code.
type SendCodeRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// PushTokenRequest is the body of PUT /users/push-token.
type PushTokenRequest struct {
	Token string `json:"token" binding:"required"`
}

// TokenResponse is returned by POST /login.
type TokenResponse struct {
	Token string `json:"token"`
}

// CreatedResponse carries the id of a created resource.
type CreatedResponse struct {
	ID string `json:"id"`
}
