// Package mocks provides mock implementations for testing token consumers.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	tokenDomain "github.com/allisson/securetoken/internal/token/domain"
)

// MockTokenUseCase is a mock implementation of TokenUseCase for testing.
type MockTokenUseCase struct {
	mock.Mock
}

// Encrypt mocks the Encrypt method of TokenUseCase.
func (m *MockTokenUseCase) Encrypt(ctx context.Context, value any) (*tokenDomain.Token, error) {
	args := m.Called(ctx, value)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tokenDomain.Token), args.Error(1)
}

// Open mocks the Open method of TokenUseCase.
func (m *MockTokenUseCase) Open(ctx context.Context, token *tokenDomain.Token) (*tokenDomain.Payload, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tokenDomain.Payload), args.Error(1)
}

// Decrypt mocks the Decrypt method of TokenUseCase.
func (m *MockTokenUseCase) Decrypt(ctx context.Context, token *tokenDomain.Token) (any, error) {
	args := m.Called(ctx, token)
	return args.Get(0), args.Error(1)
}

// DecryptInto mocks the DecryptInto method of TokenUseCase.
func (m *MockTokenUseCase) DecryptInto(ctx context.Context, token *tokenDomain.Token, out any) error {
	args := m.Called(ctx, token, out)
	return args.Error(0)
}

// KeyStore mocks the KeyStore method of TokenUseCase.
func (m *MockTokenUseCase) KeyStore() *tokenDomain.KeyStore {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*tokenDomain.KeyStore)
}
