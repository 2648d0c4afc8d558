package httpapi

import (
	"errors"
	"time"
	"unicode"

	"github.com/dmitrijs2005/calcledger/internal/server/models"
	"github.com/dmitrijs2005/calcledger/internal/server/services"
)

type registerRequest struct {
	Username        string `json:"username" binding:"required,min=3,max=64"`
	Email           string `json:"email" binding:"required,email"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

// validate applies the password rules the binding tags cannot express.
func (r *registerRequest) validate() error {
	if r.Password != r.ConfirmPassword {
		return errors.New("passwords do not match")
	}
	return checkPasswordComplexity(r.Password)
}

func checkPasswordComplexity(password string) error {
	if len(password) < 8 {
		return errors.New("password must be at least 8 characters long")
	}
	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit {
		return errors.New("password must contain an uppercase letter, a lowercase letter and a digit")
	}
	return nil
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type tokenResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	TokenType    string    `json:"token_type"`
	ExpiresAt    time.Time `json:"expires_at"`
}

func newTokenResponse(pair *services.TokenPair) tokenResponse {
	return tokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "bearer",
		ExpiresAt:    pair.AccessExpiresAt,
	}
}

type userResponse struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	IsActive   bool      `json:"is_active"`
	IsVerified bool      `json:"is_verified"`
	CreatedAt  time.Time `json:"created_at"`
}

func newUserResponse(user *models.User) userResponse {
	return userResponse{
		ID:         user.ID,
		Username:   user.Username,
		Email:      user.Email,
		FirstName:  user.FirstName,
		LastName:   user.LastName,
		IsActive:   user.IsActive,
		IsVerified: user.IsVerified,
		CreatedAt:  user.CreatedAt,
	}
}

type loginResponse struct {
	tokenResponse
	User userResponse `json:"user"`
}

type createCalculationRequest struct {
	Type   string    `json:"type" binding:"required"`
	Inputs []float64 `json:"inputs" binding:"required"`
}

type updateCalculationRequest struct {
	Inputs []float64 `json:"inputs" binding:"required"`
}

type calculationResponse struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Inputs    []float64 `json:"inputs"`
	Result    float64   `json:"result"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func newCalculationResponse(c *models.Calculation) calculationResponse {
	return calculationResponse{
		ID:        c.ID,
		Type:      string(c.Type),
		Inputs:    c.Inputs,
		Result:    c.Result,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func newCalculationListResponse(list []*models.Calculation) []calculationResponse {
	out := make([]calculationResponse, 0, len(list))
	for _, c := range list {
		out = append(out, newCalculationResponse(c))
	}
	return out
}
