package handler

import "github.com/farmconnect/marketplace-api/internal/core/domain"

type registerRequest struct {
	Name        string `json:"name"         validate:"required"`
	Category    string `json:"category"     validate:"required,oneof=farmer company"`
	Password    string `json:"password"     validate:"required,min=8"`
	Email       string `json:"email"        validate:"required_without=PhoneNumber,omitempty,email"`
	PhoneNumber string `json:"phone_number" validate:"required_without=Email,omitempty,min=7"`
}

type loginRequest struct {
	Email       string `json:"email"        validate:"required_without=PhoneNumber,omitempty,email"`
	PhoneNumber string `json:"phone_number" validate:"required_without=Email,omitempty"`
	Password    string `json:"password"     validate:"required"`
}

func (r loginRequest) identifier() string {
	if r.Email != "" {
		return r.Email
	}
	return r.PhoneNumber
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type authResponse struct {
	User         *domain.Account `json:"user,omitempty"`
	AccessToken  string          `json:"access_token,omitempty"`
	RefreshToken string          `json:"refresh_token,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}
