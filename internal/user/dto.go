package user

// RegisterRequest represents the request body for registering a user
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	FullName string `json:"full_name,omitempty"`
	Password string `json:"password" validate:"required,min=8"`
}

// TokenResponse represents a successful login
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// UserResponse represents a user with computed follow counts
type UserResponse struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	FullName       string `json:"full_name,omitempty"`
	Avatar         string `json:"avatar"`
	Bio            string `json:"bio"`
	FollowersCount int    `json:"followers_count"`
	FollowingCount int    `json:"following_count"`
}

// ToResponse converts a User model to a UserResponse DTO with follow counts
func (u *User) ToResponse(followersCount, followingCount int) *UserResponse {
	return &UserResponse{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		FullName:       u.FullName,
		Avatar:         u.Avatar,
		Bio:            u.Bio,
		FollowersCount: followersCount,
		FollowingCount: followingCount,
	}
}
