package domain

type AuthPayload struct {
	Username   string   `json:"username"`
	Permission []string `json:"permission"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
}
