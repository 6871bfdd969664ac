package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_KindMatching(t *testing.T) {
	wrapped := fmt.Errorf("assign: %w", ErrAlreadyAssigned)

	assert.True(t, errors.Is(wrapped, ErrConflict))
	assert.True(t, IsConflict(wrapped))
	assert.False(t, IsNotFound(wrapped))
	assert.True(t, errors.Is(ErrMentorNotQualified, ErrNotQualified))
}

func TestValidationError(t *testing.T) {
	err := &ValidationError{Op: "Checkout", Message: "diagnostic incomplete", Step: 3, Fields: []string{"Dor principal", "Impacto"}}

	assert.True(t, IsValidation(err))
	assert.Equal(t, "validation.Checkout: diagnostic incomplete (step 3): Dor principal, Impacto", err.Error())

	ve, ok := AsValidation(fmt.Errorf("wrapped: %w", err))
	assert.True(t, ok)
	assert.Equal(t, 3, ve.Step)
}

func TestTransitionError(t *testing.T) {
	err := &TransitionError{Entity: "mentoria", ID: "s1", Current: "DISPONIVEL", Attempted: "checkout"}

	assert.True(t, IsInvalidTransition(err))
	assert.Contains(t, err.Error(), "DISPONIVEL")
	assert.Contains(t, err.Error(), "checkout")
}

func TestActorAuthorization(t *testing.T) {
	admin := Actor{ID: "a1", Role: RoleAdmin}
	mentor := Actor{ID: "m1", Role: RoleMentor}

	assert.NoError(t, admin.RequireAdmin())
	assert.ErrorIs(t, mentor.RequireAdmin(), ErrForbidden)
	assert.NoError(t, mentor.RequireSelfOrAdmin("m1"))
	assert.ErrorIs(t, mentor.RequireSelfOrAdmin("m2"), ErrForbidden)
	assert.NoError(t, admin.RequireSelfOrAdmin("m2"))
	assert.ErrorIs(t, Actor{}.Validate(), ErrUnauthorized)
}
