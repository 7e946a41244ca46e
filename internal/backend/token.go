package backend

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

type tokenCtxKey struct{}

type noStoredTokenCtxKey struct{}

// ContextWithToken кладёт bearer-токен в контекст запроса
func ContextWithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenCtxKey{}, token)
}

// TokenFromContext достаёт токен из контекста
func TokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenCtxKey{}).(string)
	return token, ok && token != ""
}

// WithoutStoredToken запрещает брать токен из локального хранилища:
// запрос выполняется только с токеном из контекста
func WithoutStoredToken(ctx context.Context) context.Context {
	return context.WithValue(ctx, noStoredTokenCtxKey{}, true)
}

// StoredTokenAllowed сообщает, можно ли использовать локальное хранилище токена
func StoredTokenAllowed(ctx context.Context) bool {
	denied, _ := ctx.Value(noStoredTokenCtxKey{}).(bool)
	return !denied
}

// TokenStore - локальное хранилище токена устройства
type TokenStore interface {
	Token(ctx context.Context) (string, error)
}

// FileTokenStore читает токен устройства из файла. Отсутствие файла означает отсутствие токена.
// Файл записывает оператор, сервис его только читает.
type FileTokenStore struct {
	path string
}

// NewFileTokenStore создаёт хранилище токена в файле path
func NewFileTokenStore(path string) *FileTokenStore {
	return &FileTokenStore{path: path}
}

// Token читает токен из файла
func (s *FileTokenStore) Token(_ context.Context) (string, error) {
	if s == nil || s.path == "" {
		return "", nil
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read token file: %w", err)
	}

	return strings.TrimSpace(string(data)), nil
}
