package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZamarianPatrick/lazypig-care/model"
)

func TestIsHelpers_SeeThroughWrapping(t *testing.T) {
	err := fmt.Errorf("record watering: %w", NewNotFoundOrUnauthorizedError("plant"))

	assert.True(t, IsNotFoundOrUnauthorized(err))
	assert.False(t, IsValidation(err))
	assert.False(t, IsQuotaExceeded(err))
	assert.False(t, IsStoreUnavailable(errors.New("plain")))
}

func TestQuotaExceededError_CarriesCounts(t *testing.T) {
	err := NewQuotaExceededError(QuotaAIGenerations, 5, 5)

	de, ok := AsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, ErrCodeQuotaExceeded, de.Code)
	assert.Equal(t, 5, de.Limit)
	assert.Equal(t, 5, de.Used)
}

func TestStoreUnavailableError_Unwraps(t *testing.T) {
	cause := errors.New("disk I/O error")
	err := NewStoreUnavailableError(cause)

	assert.True(t, IsStoreUnavailable(err))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "disk I/O error")
}

func TestNotFoundOrUnauthorized_SameMessageForBothCauses(t *testing.T) {
	missing := NewNotFoundOrUnauthorizedError("plant")
	foreign := NewNotFoundOrUnauthorizedError("plant")

	assert.Equal(t, missing.Error(), foreign.Error())
}

func TestValidate_PlantInput(t *testing.T) {
	tests := []struct {
		name   string
		input  model.PlantInput
		fields []string
	}{
		{
			name:  "valid",
			input: model.PlantInput{Name: "Monstera", WateringFrequencyDays: 7},
		},
		{
			name:   "missing name",
			input:  model.PlantInput{WateringFrequencyDays: 7},
			fields: []string{"name"},
		},
		{
			name:   "frequency zero",
			input:  model.PlantInput{Name: "Fern", WateringFrequencyDays: 0},
			fields: []string{"wateringFrequencyDays"},
		},
		{
			name:   "frequency above a year",
			input:  model.PlantInput{Name: "Cactus", WateringFrequencyDays: 366},
			fields: []string{"wateringFrequencyDays"},
		},
		{
			name:   "both invalid",
			input:  model.PlantInput{WateringFrequencyDays: -4},
			fields: []string{"name", "wateringFrequencyDays"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.input)
			if len(tt.fields) == 0 {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			de, ok := AsDomainError(err)
			require.True(t, ok)
			assert.Equal(t, ErrCodeValidation, de.Code)
			for _, f := range tt.fields {
				assert.Contains(t, de.Fields, f)
			}
			assert.Len(t, de.Fields, len(tt.fields))
		})
	}
}

func TestValidate_RoomNameLength(t *testing.T) {
	name := make([]byte, model.MaxRoomNameLength+1)
	for i := range name {
		name[i] = 'a'
	}

	err := Validate(model.RoomInput{Name: string(name)})
	require.Error(t, err)
	de, _ := AsDomainError(err)
	assert.Equal(t, "must be at most 50 characters", de.Fields["name"])

	assert.NoError(t, Validate(model.RoomInput{Name: string(name[:model.MaxRoomNameLength])}))
}

func TestAIUnavailableError_KeepsCauseOutOfMessage(t *testing.T) {
	cause := errors.New("openai: 500 internal")
	err := NewAIUnavailableError(cause)

	assert.True(t, IsAIUnavailable(err))
	assert.ErrorIs(t, err, cause)

	de, ok := AsDomainError(err)
	require.True(t, ok)
	assert.NotContains(t, de.Message, "openai")
}
