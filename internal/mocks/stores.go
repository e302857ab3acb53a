// Package mocks provides hand-rolled testify mocks for the model interfaces.
package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/studydeck/studydeck-server/internal/model"
)

type UserStore struct {
	mock.Mock
}

var _ model.UserStore = (*UserStore)(nil)

func (m *UserStore) GetByEmail(ctx context.Context, email string) (model.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) Create(ctx context.Context, user model.User) (model.User, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) Update(ctx context.Context, user model.User) (model.User, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) HasPurchased(ctx context.Context, userID uuid.UUID, noteID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, noteID)
	return args.Bool(0), args.Error(1)
}

func (m *UserStore) GetPurchasedNoteIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

type NoteStore struct {
	mock.Mock
}

var _ model.NoteStore = (*NoteStore)(nil)

func (m *NoteStore) Create(ctx context.Context, note model.Note) (model.Note, error) {
	args := m.Called(ctx, note)
	return args.Get(0).(model.Note), args.Error(1)
}

func (m *NoteStore) GetByID(ctx context.Context, id uuid.UUID) (model.Note, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Note), args.Error(1)
}

func (m *NoteStore) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Note, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Note), args.Error(1)
}

func (m *NoteStore) GetByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]model.Note, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Note), args.Error(1)
}

func (m *NoteStore) CountByOwnerID(ctx context.Context, ownerID uuid.UUID) (int, error) {
	args := m.Called(ctx, ownerID)
	return args.Int(0), args.Error(1)
}

func (m *NoteStore) Update(ctx context.Context, note model.Note) (model.Note, error) {
	args := m.Called(ctx, note)
	return args.Get(0).(model.Note), args.Error(1)
}

func (m *NoteStore) SoftDelete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *NoteStore) Search(ctx context.Context, filter model.NoteFilter) ([]model.Note, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Note), args.Error(1)
}

type CommentStore struct {
	mock.Mock
}

var _ model.CommentStore = (*CommentStore)(nil)

func (m *CommentStore) Add(ctx context.Context, comment model.Comment) (model.Comment, error) {
	args := m.Called(ctx, comment)
	return args.Get(0).(model.Comment), args.Error(1)
}

func (m *CommentStore) GetByNoteID(ctx context.Context, noteID uuid.UUID) ([]model.Comment, error) {
	args := m.Called(ctx, noteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Comment), args.Error(1)
}

type PaymentStore struct {
	mock.Mock
}

var _ model.PaymentStore = (*PaymentStore)(nil)

func (m *PaymentStore) RecordPurchase(ctx context.Context, payment model.Payment) (model.Payment, error) {
	args := m.Called(ctx, payment)
	return args.Get(0).(model.Payment), args.Error(1)
}

func (m *PaymentStore) GetByBuyerID(ctx context.Context, buyerID uuid.UUID) ([]model.Payment, error) {
	args := m.Called(ctx, buyerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Payment), args.Error(1)
}

type WithdrawalStore struct {
	mock.Mock
}

var _ model.WithdrawalStore = (*WithdrawalStore)(nil)

func (m *WithdrawalStore) Create(ctx context.Context, withdrawal model.Withdrawal) (model.Withdrawal, error) {
	args := m.Called(ctx, withdrawal)
	return args.Get(0).(model.Withdrawal), args.Error(1)
}

func (m *WithdrawalStore) Complete(ctx context.Context, id uuid.UUID, processedAt time.Time) (model.Withdrawal, error) {
	args := m.Called(ctx, id, processedAt)
	return args.Get(0).(model.Withdrawal), args.Error(1)
}

func (m *WithdrawalStore) GetByUserID(ctx context.Context, userID uuid.UUID) ([]model.Withdrawal, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Withdrawal), args.Error(1)
}

func (m *WithdrawalStore) SumCompletedByUserID(ctx context.Context, userID uuid.UUID) (float64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(float64), args.Error(1)
}

type RefreshTokenStore struct {
	mock.Mock
}

var _ model.RefreshTokenStore = (*RefreshTokenStore)(nil)

func (m *RefreshTokenStore) Create(ctx context.Context, token model.RefreshToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *RefreshTokenStore) GetByJTI(ctx context.Context, jti string) (model.RefreshToken, error) {
	args := m.Called(ctx, jti)
	return args.Get(0).(model.RefreshToken), args.Error(1)
}

func (m *RefreshTokenStore) RevokeByJTI(ctx context.Context, jti string) error {
	args := m.Called(ctx, jti)
	return args.Error(0)
}

func (m *RefreshTokenStore) RevokeAllByUser(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}
