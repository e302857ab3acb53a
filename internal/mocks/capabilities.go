package mocks

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/studydeck/studydeck-server/internal/model"
)

type TokenManager struct {
	mock.Mock
}

var _ model.TokenManager = (*TokenManager)(nil)

func (m *TokenManager) GenerateAccessToken(userID uuid.UUID, email string) (string, error) {
	args := m.Called(userID, email)
	return args.String(0), args.Error(1)
}

func (m *TokenManager) GenerateRefreshToken(userID uuid.UUID, email string) (string, string, error) {
	args := m.Called(userID, email)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *TokenManager) ParseAccessToken(token string) (model.TokenDetails, error) {
	args := m.Called(token)
	return args.Get(0).(model.TokenDetails), args.Error(1)
}

func (m *TokenManager) ParseRefreshToken(token string) (model.TokenDetails, string, error) {
	args := m.Called(token)
	return args.Get(0).(model.TokenDetails), args.String(1), args.Error(2)
}

type Storage struct {
	mock.Mock
}

var _ model.Storage = (*Storage)(nil)

func (m *Storage) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	args := m.Called(ctx, key, reader, size, contentType)
	return args.Error(0)
}

func (m *Storage) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func (m *Storage) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *Storage) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

type StudyAidsGenerator struct {
	mock.Mock
}

var _ model.StudyAidsGenerator = (*StudyAidsGenerator)(nil)

func (m *StudyAidsGenerator) Generate(ctx context.Context, text string) (model.StudyAids, error) {
	args := m.Called(ctx, text)
	return args.Get(0).(model.StudyAids), args.Error(1)
}

type TextExtractor struct {
	mock.Mock
}

var _ model.TextExtractor = (*TextExtractor)(nil)

func (m *TextExtractor) Extract(data []byte) (string, error) {
	args := m.Called(data)
	return args.String(0), args.Error(1)
}

type PaymentProcessor struct {
	mock.Mock
}

var _ model.PaymentProcessor = (*PaymentProcessor)(nil)

func (m *PaymentProcessor) Process(ctx context.Context, req model.PaymentRequest) (model.PaymentResult, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(model.PaymentResult), args.Error(1)
}

type BalanceProvider struct {
	mock.Mock
}

var _ model.BalanceProvider = (*BalanceProvider)(nil)

func (m *BalanceProvider) Balance(ctx context.Context, user model.User) (model.Balance, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(model.Balance), args.Error(1)
}
