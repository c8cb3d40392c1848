package testutil

import "context"

type MockSeniorityCaller struct {
	SynchronizeRolesFunc func(ctx context.Context, guildID string) error
	CleanupRolesFunc     func(ctx context.Context, guildID, botID string) error
	CanModifyFunc        func(ctx context.Context, guildID, botID string) (bool, error)
}

func (m *MockSeniorityCaller) SynchronizeRoles(ctx context.Context, guildID string) error {
	if m.SynchronizeRolesFunc != nil {
		return m.SynchronizeRolesFunc(ctx, guildID)
	}

	return nil
}

func (m *MockSeniorityCaller) CleanupRoles(ctx context.Context, guildID, botID string) error {
	if m.CleanupRolesFunc != nil {
		return m.CleanupRolesFunc(ctx, guildID, botID)
	}

	return nil
}

func (m *MockSeniorityCaller) CanModify(ctx context.Context, guildID, botID string) (bool, error) {
	if m.CanModifyFunc != nil {
		return m.CanModifyFunc(ctx, guildID, botID)
	}

	return true, nil
}
