package request

import (
	"encoding/json"

	"github.com/rs/zerolog"
)

type LoginRequest struct {
	Email    string `validate:"required,email" json:"email"`
	Password string `validate:"required"       json:"password"`
}

func (l LoginRequest) MarshalZerologObject(e *zerolog.Event) {
	e.Str("email", l.Email).Str("password", "***")
}

func (l LoginRequest) MarshalJSON() ([]byte, error) {
	l.Password = "***"
	type L LoginRequest
	return json.Marshal(L(l))
}

type RegisterRequest struct {
	FirstName string `validate:"required"       json:"firstName"`
	LastName  string `validate:"required"       json:"lastName"`
	Email     string `validate:"required,email" json:"email"`
	Password  string `validate:"required,min=8" json:"password"`
	Avatar    string `validate:"omitempty,url"  json:"avatar"`
}

func (r RegisterRequest) MarshalZerologObject(e *zerolog.Event) {
	e.Str("email", r.Email).
		Str("firstName", r.FirstName).
		Str("lastName", r.LastName).
		Str("password", "***")
}

func (r RegisterRequest) MarshalJSON() ([]byte, error) {
	r.Password = "***"
	type R RegisterRequest
	return json.Marshal(R(r))
}
