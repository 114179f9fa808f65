package rest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/go-playground/validator/v10"
)

// maxBodySize caps request bodies. Credentials are tiny.
const maxBodySize = 1 << 20

var validate = newValidator()

// newValidator adds the "maxbytes" tag: the string's length in bytes, not
// runes, must not exceed the parameter. bcrypt limits bytes.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("maxbytes", func(fl validator.FieldLevel) bool {
		limit, err := strconv.Atoi(fl.Param())
		return err == nil && len(fl.Field().String()) <= limit
	})
	return v
}

type CredentialsRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=6,max=72,maxbytes=72"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type MeResponse struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

// decode reads a JSON body into dst and validates it. Any failure wraps
// common.ErrorValidation.
func decode(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: malformed JSON body", common.ErrorValidation)
	}
	if err := validate.Struct(dst); err != nil {
		return fmt.Errorf("%w: %s", common.ErrorValidation, describe(err))
	}
	return nil
}

// describe turns validator output into a message that is safe to return.
func describe(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return "invalid request"
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", jsonName(fe.Field()))
	case "email":
		return "email is not valid"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", jsonName(fe.Field()), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", jsonName(fe.Field()), fe.Param())
	case "maxbytes":
		return fmt.Sprintf("%s must be at most %s bytes", jsonName(fe.Field()), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", jsonName(fe.Field()))
	}
}

func jsonName(field string) string {
	switch field {
	case "Email":
		return "email"
	case "Password":
		return "password"
	case "RefreshToken":
		return "refreshToken"
	}
	return field
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}
