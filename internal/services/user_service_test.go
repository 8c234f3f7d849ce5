package services

import (
	"context"
	"testing"

	"gifts-backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestChangePasswordRejectsBadInput(t *testing.T) {
	// Validation runs before any user lookup, so a nil repo is fine here.
	svc := NewUserService(nil, nil)

	err := svc.ChangePassword(context.Background(), 1, &models.ChangePasswordRequest{
		CurrentPassword: "", NewPassword: "new-secret",
	})
	assert.EqualError(t, err, "current and new password are required")

	err = svc.ChangePassword(context.Background(), 1, &models.ChangePasswordRequest{
		CurrentPassword: "old-secret", NewPassword: "",
	})
	assert.EqualError(t, err, "current and new password are required")

	err = svc.ChangePassword(context.Background(), 1, &models.ChangePasswordRequest{
		CurrentPassword: "same-secret", NewPassword: "same-secret",
	})
	assert.EqualError(t, err, "new password must differ from the current one")
}
