package models

import "time"

// UserRole is the kind of account a profile belongs to.
type UserRole string

const (
	RoleDonor UserRole = "donor"
	RoleNGO   UserRole = "ngo"
	RoleAdmin UserRole = "admin"
)

// User is the profile document stored at users/{uid}.
// The document ID is the Firebase Auth UID.
type User struct {
	UID         string    `json:"uid" firestore:"uid"`
	Email       string    `json:"email" firestore:"email"`
	DisplayName string    `json:"displayName" firestore:"displayName"`
	Role        UserRole  `json:"userType" firestore:"userType"`
	Phone       string    `json:"phone,omitempty" firestore:"phone,omitempty"`
	Address     string    `json:"address,omitempty" firestore:"address,omitempty"`
	PhotoURL    string    `json:"photoURL,omitempty" firestore:"photoURL,omitempty"`
	CreatedAt   time.Time `json:"createdAt" firestore:"createdAt,serverTimestamp"`
	UpdatedAt   time.Time `json:"updatedAt" firestore:"updatedAt,serverTimestamp"`
}

// UserUpdate is a partial profile edit. Nil fields are left untouched.
type UserUpdate struct {
	DisplayName *string   `json:"displayName,omitempty"`
	Role        *UserRole `json:"userType,omitempty" binding:"omitempty,oneof=donor ngo admin"`
	Phone       *string   `json:"phone,omitempty"`
	Address     *string   `json:"address,omitempty"`
	PhotoURL    *string   `json:"photoURL,omitempty"`
}

// AuthUser is the identity as seen by the authentication provider,
// independent of whether a profile document exists.
type AuthUser struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName,omitempty"`
	PhotoURL    string `json:"photoURL,omitempty"`
}

// Session is the result of a successful sign-up or sign-in.
type Session struct {
	User         *AuthUser `json:"user"`
	Profile      *User     `json:"profile,omitempty"`
	IDToken      string    `json:"idToken"`
	RefreshToken string    `json:"refreshToken,omitempty"`
	ExpiresIn    int64     `json:"expiresIn,omitempty"` // seconds
}
