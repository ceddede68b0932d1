package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type loginForm struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

func TestValidate(t *testing.T) {
	assert.Nil(t, Validate(&loginForm{Email: "jane@example.com", Password: "longenough"}))

	errs := Validate(&loginForm{Email: "not-an-email", Password: "short"})
	assert.Equal(t, "must be a valid email address", errs["email"])
	assert.Equal(t, "must be at least 8", errs["password"])

	errs = Validate(&loginForm{})
	assert.Equal(t, "is required", errs["email"])
	assert.Equal(t, "is required", errs["password"])
}
