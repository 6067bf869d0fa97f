package client

import (
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/shopfront/storefront/internal/core/domain"
)

// userRules are the field checks every user record must pass, whether it came
// from the API or from the mock provider.
type userRules struct {
	Email    string `validate:"required_without=Username"`
	Username string
	Role     string `validate:"required,oneof=admin delivery user"`
}

// Validator turns a user payload into the canonical domain.User.
type Validator struct {
	v   *validator.Validate
	now func() time.Time
}

// NewValidator returns a Validator. now is used to synthesize ids for records
// that arrive without one; nil means time.Now.
func NewValidator(now func() time.Time) *Validator {
	if now == nil {
		now = time.Now
	}
	return &Validator{v: validator.New(), now: now}
}

// Validate resolves the payload variant and applies the user rules. Failures
// are always *domain.ValidationError.
func (v *Validator) Validate(p domain.UserPayload) (domain.User, error) {
	if p == nil {
		return domain.User{}, domain.NewValidationError("Invalid user data: No user object found")
	}
	raw := p.Inner()
	if raw == nil {
		return domain.User{}, domain.NewValidationError("Invalid user data: No user object found")
	}

	if err := v.v.Struct(userRules{Email: raw.Email, Username: raw.Username, Role: raw.Role}); err != nil {
		return domain.User{}, ruleError(err, raw.Role)
	}

	id := string(raw.ID)
	if id == "" {
		id = strconv.FormatInt(v.now().UnixMilli(), 10)
	}
	email, username := raw.Email, raw.Username
	if email == "" {
		email = raw.Username
	}
	if username == "" {
		username = raw.Email
	}

	return domain.User{
		ID:        id,
		Role:      domain.Role(raw.Role),
		FirstName: raw.FirstName,
		LastName:  raw.LastName,
		Email:     email,
		Username:  username,
		Name:      domain.DisplayName(raw.FirstName, raw.LastName, raw.Username, raw.Email),
		Phone:     raw.Phone,
		Address:   raw.Address,
	}, nil
}

// ruleError reports the first failed rule in field order, so a record missing
// both identity and role is reported as missing its identity.
func ruleError(err error, role string) error {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return domain.NewValidationError("Invalid user data: " + err.Error())
	}
	fe := ve[0]
	switch {
	case fe.Field() == "Email":
		return domain.NewValidationError("Invalid user data: Missing email or username")
	case fe.Field() == "Role" && fe.Tag() == "required":
		return domain.NewValidationError("Invalid user data: Missing role")
	default:
		return domain.NewValidationError("Invalid user role: " + role)
	}
}

var defaultValidator = NewValidator(nil)

// ValidateUser validates p with the process-wide validator.
func ValidateUser(p domain.UserPayload) (domain.User, error) {
	return defaultValidator.Validate(p)
}
