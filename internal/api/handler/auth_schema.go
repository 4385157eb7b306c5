package handler

import "time"

// response is the envelope every endpoint returns, success or not.
type response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// --- Request / Response types ---

type signinRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type signupRequest struct {
	Username  string   `json:"username"  validate:"required,min=3,max=50"`
	Email     string   `json:"email"     validate:"required,email,max=100"`
	Password  string   `json:"password"  validate:"required,min=6,max=40"`
	FirstName string   `json:"firstName" validate:"required,max=50"`
	LastName  string   `json:"lastName"  validate:"required,max=50"`
	Roles     []string `json:"roles"`
}

type jwtResponse struct {
	Token     string    `json:"token"`
	Type      string    `json:"type"`
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Roles     []string  `json:"roles"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type identityResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Roles     []string  `json:"roles"`
	CreatedAt time.Time `json:"createdAt"`
}

type principalResponse struct {
	Username    string    `json:"username"`
	Authorities []string  `json:"authorities"`
	TokenID     string    `json:"tokenId,omitempty"`
	IssuedAt    time.Time `json:"issuedAt"`
	ExpiresAt   time.Time `json:"expiresAt"`
}
