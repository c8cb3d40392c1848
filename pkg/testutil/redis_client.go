package testutil

import (
	"context"
	"errors"
)

type MockRedisClient struct {
	ExistFunc func(ctx context.Context, key string) (bool, error)
	GetFunc   func(ctx context.Context, key string) (string, error)
	SetFunc   func(ctx context.Context, key, value string) error
	MGetFunc  func(ctx context.Context, keys ...string) ([]any, error)
	MSetFunc  func(ctx context.Context, kv map[string]any) error
	DelFunc   func(ctx context.Context, keys ...string) error
}

func (m *MockRedisClient) Exist(ctx context.Context, key string) (bool, error) {
	if m.ExistFunc != nil {
		return m.ExistFunc(ctx, key)
	}

	return false, nil
}

func (m *MockRedisClient) Get(ctx context.Context, key string) (string, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}

	return "", errors.New("not found")
}

func (m *MockRedisClient) Set(ctx context.Context, key, value string) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value)
	}

	return nil
}

func (m *MockRedisClient) MGet(ctx context.Context, keys ...string) ([]any, error) {
	if m.MGetFunc != nil {
		return m.MGetFunc(ctx, keys...)
	}

	return make([]any, len(keys)), nil
}

func (m *MockRedisClient) MSet(ctx context.Context, kv map[string]any) error {
	if m.MSetFunc != nil {
		return m.MSetFunc(ctx, kv)
	}

	return nil
}

func (m *MockRedisClient) Del(ctx context.Context, keys ...string) error {
	if m.DelFunc != nil {
		return m.DelFunc(ctx, keys...)
	}

	return nil
}
