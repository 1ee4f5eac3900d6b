package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	apperrors "cleanops/internal/errors"
	"cleanops/internal/model"
)

func TestLocationService_Create(t *testing.T) {
	mockRepo := new(MockLocationRepository)
	owner := userProfile()
	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Location")).Return(nil)

	service := NewLocationService(mockRepo)
	l, err := service.Create(context.Background(), owner, LocationInput{Label: "Casa", Address: "Calle Mayor 12", City: "Madrid"})

	assert.NoError(t, err)
	assert.Equal(t, owner.ID, l.ProfileID)
	assert.Equal(t, "Casa", l.Label)
	mockRepo.AssertExpectations(t)
}

func TestLocationService_UpdateOwnership(t *testing.T) {
	owner := userProfile()
	stranger := userProfile()

	tests := []struct {
		name          string
		actor         *model.Profile
		expectedError error
	}{
		{"owner updates own", owner, nil},
		{"admin updates any", adminProfile(), nil},
		{"stranger forbidden", stranger, apperrors.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockLocationRepository)
			loc := &model.Location{ID: uuid.New(), ProfileID: owner.ID, Label: "Casa"}
			mockRepo.On("FindByID", mock.Anything, loc.ID).Return(loc, nil)
			if tt.expectedError == nil {
				mockRepo.On("Update", mock.Anything, loc).Return(nil)
			}

			service := NewLocationService(mockRepo)
			got, err := service.Update(context.Background(), tt.actor, loc.ID, LocationInput{Label: "Oficina", Address: "Gran Vía 1"})

			if tt.expectedError != nil {
				assert.Equal(t, tt.expectedError, err)
				assert.Nil(t, got)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, "Oficina", got.Label)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestLocationService_DeleteNotFound(t *testing.T) {
	mockRepo := new(MockLocationRepository)
	id := uuid.New()
	mockRepo.On("FindByID", mock.Anything, id).Return(nil, gorm.ErrRecordNotFound)

	service := NewLocationService(mockRepo)
	err := service.Delete(context.Background(), userProfile(), id)

	assert.Equal(t, apperrors.ErrLocationNotFound, err)
}

func TestLoyaltyService_Get(t *testing.T) {
	owner := userProfile()
	stranger := userProfile()

	t.Run("owner with record", func(t *testing.T) {
		mockRepo := new(MockLoyaltyRepository)
		mockRepo.On("FindByProfile", mock.Anything, owner.ID).Return(&model.LoyaltyRecord{ProfileID: owner.ID, ServicesCompleted: 7}, nil)

		service := NewLoyaltyService(mockRepo)
		rec, err := service.Get(context.Background(), owner, owner.ID)

		assert.NoError(t, err)
		assert.Equal(t, 7, rec.ServicesCompleted)
	})

	t.Run("missing record becomes zero record", func(t *testing.T) {
		mockRepo := new(MockLoyaltyRepository)
		mockRepo.On("FindByProfile", mock.Anything, owner.ID).Return(nil, gorm.ErrRecordNotFound)

		service := NewLoyaltyService(mockRepo)
		rec, err := service.Get(context.Background(), owner, owner.ID)

		assert.NoError(t, err)
		assert.Equal(t, owner.ID, rec.ProfileID)
		assert.Zero(t, rec.ServicesCompleted)
		assert.True(t, rec.Points.IsZero())
	})

	t.Run("stranger forbidden", func(t *testing.T) {
		service := NewLoyaltyService(new(MockLoyaltyRepository))
		rec, err := service.Get(context.Background(), stranger, owner.ID)

		assert.Equal(t, apperrors.ErrForbidden, err)
		assert.Nil(t, rec)
	})

	t.Run("admin sees any", func(t *testing.T) {
		mockRepo := new(MockLoyaltyRepository)
		mockRepo.On("FindByProfile", mock.Anything, owner.ID).Return(&model.LoyaltyRecord{ProfileID: owner.ID}, nil)

		service := NewLoyaltyService(mockRepo)
		rec, err := service.Get(context.Background(), adminProfile(), owner.ID)

		assert.NoError(t, err)
		assert.NotNil(t, rec)
	})
}
