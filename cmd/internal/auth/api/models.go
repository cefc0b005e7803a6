package authapi

import (
	"time"

	"quill/cmd/identity"
)

type registerRequest struct {
	Username        string `json:"username"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// authResponse mirrors the client contract: user plus an auth flag. Logout
// responds with a null user and auth=false.
type authResponse struct {
	User *userResponse `json:"user"`
	Auth bool          `json:"auth"`
}

func toUserResponse(p identity.Profile) userResponse {
	return userResponse{
		ID:        p.ID,
		Username:  p.Username,
		Email:     p.Email,
		Name:      p.Name,
		CreatedAt: p.CreatedAt,
	}
}
