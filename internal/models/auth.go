package models

// LoginRequest holds credentials for authenticating a user.
type LoginRequest struct {
	Email     string `json:"email" validate:"required"`
	Password  string `json:"password" validate:"required"`
	IP        string `json:"-"`
	UserAgent string `json:"-"`
}

// LoginResponse is returned after a successful login.
type LoginResponse struct {
	Login  string   `json:"login"`
	Token  string   `json:"token"`
	Role   UserRole `json:"role"`
	UserID int64    `json:"userId"`
	Name   string   `json:"name"`
}

// RegisterResponse is returned after a successful registration.
type RegisterResponse struct {
	Register string `json:"register"`
	UserID   int64  `json:"userId"`
}

// RequestMeta carries caller details recorded in the audit trail.
type RequestMeta struct {
	ActorID   *int64
	IP        string
	UserAgent string
}

// Identity is the authenticated caller attached to a request.
type Identity struct {
	UserID int64    `json:"userId"`
	Email  string   `json:"email"`
	Name   string   `json:"name"`
	Role   UserRole `json:"role"`
}

// Authority returns the single authority granted to the identity.
func (i *Identity) Authority() string {
	if i == nil {
		return ""
	}
	return i.Role.Authority()
}

// HasRole reports whether the identity carries the role.
func (i *Identity) HasRole(role UserRole) bool {
	return i != nil && i.Role == role
}

// TokenReport describes the outcome of a token introspection.
type TokenReport struct {
	TokenPresent bool     `json:"tokenPresent"`
	Email        string   `json:"email,omitempty"`
	UserFound    *bool    `json:"userFound,omitempty"`
	UserID       int64    `json:"userId,omitempty"`
	UserRole     UserRole `json:"userRole,omitempty"`
	TokenValid   *bool    `json:"tokenValid,omitempty"`
	Message      string   `json:"message,omitempty"`
}

// Valid reports whether the introspected token authenticated a known user.
func (r *TokenReport) Valid() bool {
	return r != nil && r.TokenValid != nil && *r.TokenValid
}
