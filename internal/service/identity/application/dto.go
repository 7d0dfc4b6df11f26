package application

type RegisterRequest struct {
	Email    string `json:"email"`
	UserName string `json:"username"`
	Password string `json:"password"`
}

type RegisterResponse struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string  `json:"token"`
	ExpiresAt int64   `json:"expiresAt"`
	User      UserDTO `json:"user"`
}

type UserDTO struct {
	UserID             string `json:"userId"`
	UserName           string `json:"userName"`
	Email              string `json:"email"`
	Role               string `json:"role"`
	CompleteOrderCount int    `json:"completeOrderCount"`
}

type UpdateRoleRequest struct {
	Role string `json:"role"`
}
