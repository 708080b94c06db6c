package chain

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/bnema/fyp-cli/internal/domain"
	portmocks "github.com/bnema/fyp-cli/internal/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const tokensKey = "fyp/session/tokens"

func notFound(key string) error {
	return fmt.Errorf("entry %q: %w", key, domain.ErrSecretNotFound)
}

func TestStoreGetUsesPrimaryWhenItSucceeds(t *testing.T) {
	t.Parallel()

	primary := portmocks.NewMockSecretStore(t)
	fallback := portmocks.NewMockSecretStore(t)
	store := NewStore(primary, fallback)

	primary.EXPECT().Get(mock.Anything, tokensKey).Return("from-pass", nil).Once()

	value, err := store.Get(context.Background(), tokensKey)
	require.NoError(t, err)
	assert.Equal(t, "from-pass", value)
}

func TestStoreGetFallsBack(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name       string
		primaryErr error
	}{
		{name: "primary unavailable", primaryErr: errors.New("pass command unavailable")},
		{name: "primary missing entry", primaryErr: notFound(tokensKey)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			primary := portmocks.NewMockSecretStore(t)
			fallback := portmocks.NewMockSecretStore(t)
			store := NewStore(primary, fallback)

			primary.EXPECT().Get(mock.Anything, tokensKey).Return("", tc.primaryErr).Once()
			fallback.EXPECT().Get(mock.Anything, tokensKey).Return("from-file", nil).Once()

			value, err := store.Get(context.Background(), tokensKey)
			require.NoError(t, err)
			assert.Equal(t, "from-file", value)
		})
	}
}

func TestStoreGetReportsNotFoundWhenNeitherBackendHasTheKey(t *testing.T) {
	t.Parallel()

	primary := portmocks.NewMockSecretStore(t)
	fallback := portmocks.NewMockSecretStore(t)
	store := NewStore(primary, fallback)

	primary.EXPECT().Get(mock.Anything, tokensKey).Return("", notFound(tokensKey)).Once()
	fallback.EXPECT().Get(mock.Anything, tokensKey).Return("", notFound(tokensKey)).Once()

	_, err := store.Get(context.Background(), tokensKey)
	assert.ErrorIs(t, err, domain.ErrSecretNotFound)
}

func TestStoreGetReturnsCombinedErrorWhenBothBackendsFail(t *testing.T) {
	t.Parallel()

	primary := portmocks.NewMockSecretStore(t)
	fallback := portmocks.NewMockSecretStore(t)
	store := NewStore(primary, fallback)

	primary.EXPECT().Get(mock.Anything, tokensKey).Return("", errors.New("pass failed")).Once()
	fallback.EXPECT().Get(mock.Anything, tokensKey).Return("", errors.New("file failed")).Once()

	_, err := store.Get(context.Background(), tokensKey)
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrSecretNotFound)
	assert.ErrorContains(t, err, "primary backend")
	assert.ErrorContains(t, err, "fallback backend")
	assert.ErrorContains(t, err, "pass failed")
	assert.ErrorContains(t, err, "file failed")
}

func TestStorePutFallsBackWhenPrimaryFails(t *testing.T) {
	t.Parallel()

	primary := portmocks.NewMockSecretStore(t)
	fallback := portmocks.NewMockSecretStore(t)
	store := NewStore(primary, fallback)

	primary.EXPECT().Put(mock.Anything, tokensKey, "secret").Return(errors.New("pass failed")).Once()
	fallback.EXPECT().Put(mock.Anything, tokensKey, "secret").Return(nil).Once()

	require.NoError(t, store.Put(context.Background(), tokensKey, "secret"))
}

func TestStorePutDoesNotCallFallbackWhenPrimarySucceeds(t *testing.T) {
	t.Parallel()

	primary := portmocks.NewMockSecretStore(t)
	fallback := portmocks.NewMockSecretStore(t)
	store := NewStore(primary, fallback)

	primary.EXPECT().Put(mock.Anything, tokensKey, "secret").Return(nil).Once()

	require.NoError(t, store.Put(context.Background(), tokensKey, "secret"))
}

func TestStoreDeleteClearsBothBackends(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name        string
		primaryErr  error
		fallbackErr error
		wantErr     string
	}{
		{name: "both succeed"},
		{name: "primary unavailable", primaryErr: errors.New("pass failed")},
		{name: "fallback fails", fallbackErr: errors.New("read-only file system"), wantErr: "fallback backend delete failed"},
		{name: "both fail", primaryErr: errors.New("pass failed"), fallbackErr: errors.New("read-only file system"), wantErr: "primary backend delete failed"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			primary := portmocks.NewMockSecretStore(t)
			fallback := portmocks.NewMockSecretStore(t)
			store := NewStore(primary, fallback)

			primary.EXPECT().Delete(mock.Anything, tokensKey).Return(tc.primaryErr).Once()
			fallback.EXPECT().Delete(mock.Anything, tokensKey).Return(tc.fallbackErr).Once()

			err := store.Delete(context.Background(), tokensKey)
			if tc.wantErr == "" {
				require.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestStoreDoesNotFallbackOnCanceledContextError(t *testing.T) {
	t.Parallel()

	primary := portmocks.NewMockSecretStore(t)
	fallback := portmocks.NewMockSecretStore(t)
	store := NewStore(primary, fallback)

	primary.EXPECT().Get(mock.Anything, tokensKey).Return("", context.Canceled).Once()
	primary.EXPECT().Delete(mock.Anything, tokensKey).Return(context.DeadlineExceeded).Once()

	_, err := store.Get(context.Background(), tokensKey)
	require.ErrorIs(t, err, context.Canceled)
	require.ErrorIs(t, store.Delete(context.Background(), tokensKey), context.DeadlineExceeded)
}

func TestNewStoreCheckedRejectsNilBackends(t *testing.T) {
	t.Parallel()

	_, err := NewStoreChecked(nil, portmocks.NewMockSecretStore(t))
	assert.ErrorIs(t, err, errNilPrimaryStore)

	_, err = NewStoreChecked(portmocks.NewMockSecretStore(t), nil)
	assert.ErrorIs(t, err, errNilFallbackStore)
}
