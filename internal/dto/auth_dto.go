package dto

type LoginRequest struct {
	UserName string `json:"user_name" validate:"required"`
	Password string `json:"password"  validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type LoginResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	TokenType    string       `json:"token_type"`
	ExpiresIn    int          `json:"expires_in"`
	User         UserResponse `json:"user"`
}

type CreateUserRequest struct {
	UserName string   `json:"user_name" validate:"required,min=3,max=50"`
	Password string   `json:"password"  validate:"required,min=8"`
	Roles    []string `json:"roles"     validate:"required,min=1,dive,oneof=admin cajero cocina"`
}

type UpdateUserRequest struct {
	Password string   `json:"password" validate:"omitempty,min=8"`
	Roles    []string `json:"roles"    validate:"omitempty,min=1,dive,oneof=admin cajero cocina"`
}

type UserResponse struct {
	ID       string   `json:"id"`
	UserName string   `json:"user_name"`
	Roles    []string `json:"roles"`
	IsActive bool     `json:"is_active"`
}
