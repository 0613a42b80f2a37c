package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"video-digest/domain/apperror"
	"video-digest/domain/model"
	"video-digest/usecase"
)

func TestQuotaReflectsFreshCounters(t *testing.T) {
	users := &MockUsers{}
	users.On("GetByID", mock.Anything, uint(4)).Return(&model.User{ID: 4, ExternalID: "user_4", MinutesUsed: 12, MinutesPurchased: 300, SubscriptionStatus: model.SubscriptionNone}, nil)
	usage := &MockUsage{}
	usage.On("ListUsage", mock.Anything, uint(4), 20).Return(nil, nil)

	view, err := usecase.NewUserUsecase(users, usage, 30).Quota(context.Background(), &model.User{ID: 4})

	require.NoError(t, err)
	assert.Equal(t, 318, view.RemainingMinutes)
	assert.NotNil(t, view.RecentUsage)
}

func TestEnsureUserNeedsSubject(t *testing.T) {
	users := &MockUsers{}
	_, err := usecase.NewUserUsecase(users, &MockUsage{}, 30).EnsureUser(context.Background(), "  ", "a@b.c")

	assert.Equal(t, apperror.KindUnauthorized, apperror.KindOf(err))
	users.AssertNotCalled(t, "EnsureUser", mock.Anything, mock.Anything, mock.Anything)
}
