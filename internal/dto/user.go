package dto

// LoginRequest is the JSON body for POST /auth/login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest is the JSON body for POST /auth/register.
type RegisterRequest struct {
	Username string `json:"username" binding:"required,notblank,max=120"`
	Password string `json:"password" binding:"required,min=6,max=72"`
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// AuthData is returned by login and register. Token is a bearer JWT; the
// session cookie is set alongside when sessions are enabled.
type AuthData struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token"`
}
