package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	cases := map[string]string{
		"9876543210":      "9876543210",
		"+91 98765-43210": "9876543210",
		"919876543210":    "9876543210",
		"(080) 2345 6789": "08023456789",
		"abc":             "",
		"":                "",
	}
	for input, want := range cases {
		assert.Equal(t, want, normalizePhone(input), "input %q", input)
	}
}

func TestFindByNameRejectsShortQueries(t *testing.T) {
	svc := NewCustomerService(nil)

	_, err := svc.FindByName(context.Background(), "ab")
	assert.ErrorIs(t, err, ErrCustomerQueryTooShort)

	_, err = svc.FindByName(context.Background(), "  a  ")
	assert.ErrorIs(t, err, ErrCustomerQueryTooShort)
}
