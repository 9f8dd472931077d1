package handlers

import (
	"errors"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	"github.com/nexchat/nexchat-backend/internal/chaterr"
)

func TestStatusFor_TaxonomyMapping(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{chaterr.InvalidArgument("bad"), fiber.StatusBadRequest},
		{chaterr.Unauthenticated("who"), fiber.StatusUnauthorized},
		{chaterr.Forbidden("no"), fiber.StatusForbidden},
		{chaterr.NotFound("gone"), fiber.StatusNotFound},
		{chaterr.Provider("down", nil), fiber.StatusBadGateway},
		{chaterr.Persistence("broken", nil), fiber.StatusInternalServerError},
		{errors.New("unclassified"), fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), "for %v", tt.err)
	}
}
