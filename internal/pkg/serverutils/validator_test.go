package serverutils

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

type sendMessagePayload struct {
	Message string   `json:"message" validate:"required"`
	Goals   []string `json:"goals,omitempty" validate:"max=10"`
}

func TestValidateRequestPassesValidPayload(t *testing.T) {
	err := ValidateRequest(sendMessagePayload{Message: "hello"})
	assert.NoError(t, err)
}

func TestValidateRequestRejectsMissingRequired(t *testing.T) {
	err := ValidateRequest(sendMessagePayload{})
	assert.Error(t, err)

	var fiberErr *fiber.Error
	assert.ErrorAs(t, err, &fiberErr)
	assert.Equal(t, fiber.StatusBadRequest, fiberErr.Code)
	assert.Contains(t, fiberErr.Message, "Message")
}

func TestValidateRequestRejectsTooManyGoals(t *testing.T) {
	goals := make([]string, 11)
	for i := range goals {
		goals[i] = "goal"
	}
	err := ValidateRequest(sendMessagePayload{Message: "hello", Goals: goals})
	assert.Error(t, err)
}
