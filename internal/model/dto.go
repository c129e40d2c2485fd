package model

// Response is the envelope of every successful API response.
type Response struct {
	StatusCode int         `json:"statusCode"`
	Data       interface{} `json:"data"`
	Message    string      `json:"message"`
	Success    bool        `json:"success"`
}

// ErrorResponse is the envelope of every failed API response.
type ErrorResponse struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

type RefreshTokenRequest struct {
	RefreshToken string `form:"refreshToken" json:"refreshToken"`
}

type ToggleLikeResponse struct {
	Liked bool `json:"liked"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
