package services

import (
	"context"
	"errors"
	"io"
	"regexp"
	"sync"
	"testing"

	"HealthLife/config/redis"
	"HealthLife/models"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockMailer struct {
	mock.Mock
}

func (m *mockMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	args := m.Called(ctx, to, subject, htmlBody)
	return args.Error(0)
}

var otpPattern = regexp.MustCompile(`<b>(\d{6})</b>`)

// lastCode extracts the code from the most recent mail sent.
func (m *mockMailer) lastCode(t *testing.T) string {
	t.Helper()
	require.NotEmpty(t, m.Calls)
	body := m.Calls[len(m.Calls)-1].Arguments.String(3)
	match := otpPattern.FindStringSubmatch(body)
	require.Len(t, match, 2, "no code in mail body")
	return match[1]
}

type fakeUploader struct {
	err    error
	folder string
}

func (f *fakeUploader) Upload(_ context.Context, file io.Reader, folder, name string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if _, err := io.ReadAll(file); err != nil {
		return "", err
	}
	f.folder = folder
	return "https://img.example.com/" + folder + "/" + name + ".png", nil
}

type memoryCache struct {
	mu   sync.Mutex
	data map[string]interface{}
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: make(map[string]interface{})}
}

func (m *memoryCache) GetCache(_ context.Context, key string, dest interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return redis.ErrCacheMiss
	}
	switch d := dest.(type) {
	case *[]models.PublicDoctor:
		*d = v.([]models.PublicDoctor)
	case *models.PublicDoctor:
		*d = v.(models.PublicDoctor)
	default:
		return errors.New("unsupported cache type")
	}
	return nil
}

func (m *memoryCache) SetCache(_ context.Context, key string, value interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *memoryCache) DeleteCache(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func (m *memoryCache) has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[key]
	return ok
}
