package auth

import (
	"context"
	"testing"

	"github.com/pkock/brewhub-backend/pkg/config"
	"github.com/pkock/brewhub-backend/pkg/enums"
	pkgerrors "github.com/pkock/brewhub-backend/pkg/errors"
)

func TestRegisterRejectsNonRegisterableRoles(t *testing.T) {
	// role validation runs before any persistence, a bare service suffices
	svc := &registerService{passwordCfg: config.PasswordConfig{}}

	for _, role := range []enums.UserRole{enums.UserRoleModerator, "admin", ""} {
		_, err := svc.Register(context.Background(), RegisterRequest{
			FirstName: "Sam",
			LastName:  "Brewer",
			Email:     "sam@example.com",
			Password:  "supersecret",
			Role:      role,
		})
		typed := pkgerrors.As(err)
		if typed == nil {
			t.Fatalf("expected typed error for role %q", role)
		}
		if typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error for role %q got %s", role, typed.Code())
		}
	}
}
