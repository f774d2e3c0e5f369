package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"recipebook/internal/model"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeObjectAPI keeps objects in memory.
type fakeObjectAPI struct {
	objects map[string][]byte
	err     error
}

func newFakeObjectAPI() *fakeObjectAPI {
	return &fakeObjectAPI{objects: make(map[string][]byte)}
}

func (f *fakeObjectAPI) GetObject(_ context.Context, params *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	data, ok := f.objects[aws.ToString(params.Key)]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeObjectAPI) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	data, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(params.Key)] = data
	return &s3.PutObjectOutput{}, nil
}

// mockProvider is a mock implementation of the Provider interface for testing.
type mockProvider struct {
	readFunc  func(ctx context.Context, path string) ([]byte, error)
	writeFunc func(ctx context.Context, path string, data []byte) error
}

func (m *mockProvider) Read(ctx context.Context, path string) ([]byte, error) {
	if m.readFunc != nil {
		return m.readFunc(ctx, path)
	}
	return nil, errors.New("not implemented")
}

func (m *mockProvider) Write(ctx context.Context, path string, data []byte) error {
	if m.writeFunc != nil {
		return m.writeFunc(ctx, path, data)
	}
	return errors.New("not implemented")
}

func TestS3Provider_WriteThenRead(t *testing.T) {
	client := newFakeObjectAPI()
	provider := newS3Provider(client, "catalog", zerolog.Nop())
	ctx := context.Background()

	data := []byte(`[{"name":"Салат"}]`)
	require.NoError(t, provider.Write(ctx, "exports/dish_types.json", data))
	assert.Equal(t, data, client.objects["exports/dish_types.json"])

	got, err := provider.Read(ctx, "exports/dish_types.json")
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestS3Provider_GzipKeys(t *testing.T) {
	client := newFakeObjectAPI()
	provider := newS3Provider(client, "catalog", zerolog.Nop())
	ctx := context.Background()

	data := []byte(`[]`)
	require.NoError(t, provider.Write(ctx, "recipes.json.gz", data))
	assert.NotEqual(t, data, client.objects["recipes.json.gz"])

	got, err := provider.Read(ctx, "recipes.json.gz")
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestS3Provider_Errors(t *testing.T) {
	client := newFakeObjectAPI()
	client.err = errors.New("access denied")
	provider := newS3Provider(client, "catalog", zerolog.Nop())
	ctx := context.Background()

	_, err := provider.Read(ctx, "recipes.json")
	var readErr *model.ReadError
	require.ErrorAs(t, err, &readErr)
	assert.Equal(t, "recipes.json", readErr.Path)
	assert.Contains(t, err.Error(), "access denied")

	err = provider.Write(ctx, "recipes.json", []byte("[]"))
	var writeErr *model.WriteError
	require.ErrorAs(t, err, &writeErr)
	assert.Equal(t, "recipes.json", writeErr.Path)
}

func TestFallbackProvider_S3Success(t *testing.T) {
	s3Mock := &mockProvider{
		readFunc: func(ctx context.Context, path string) ([]byte, error) {
			assert.Equal(t, "catalog/recipes.json", path, "S3 key should have prefix")
			return []byte("from s3"), nil
		},
	}
	local := &mockProvider{
		readFunc: func(ctx context.Context, path string) ([]byte, error) {
			t.Error("file provider should not be called when S3 succeeds")
			return nil, errors.New("should not be called")
		},
	}

	provider := NewFallbackProvider(s3Mock, local, "catalog/", true, zerolog.Nop())

	data, err := provider.Read(context.Background(), "recipes.json")
	require.NoError(t, err)
	assert.Equal(t, "from s3", string(data))
}

func TestFallbackProvider_S3FailsFallsBackToLocal(t *testing.T) {
	s3Mock := &mockProvider{
		readFunc: func(ctx context.Context, path string) ([]byte, error) {
			return nil, errors.New("S3 connection failed")
		},
		writeFunc: func(ctx context.Context, path string, data []byte) error {
			return errors.New("S3 connection failed")
		},
	}
	var written string
	local := &mockProvider{
		readFunc: func(ctx context.Context, path string) ([]byte, error) {
			assert.Equal(t, "recipes.json", path, "local path should not have prefix")
			return []byte("from disk"), nil
		},
		writeFunc: func(ctx context.Context, path string, data []byte) error {
			written = path
			return nil
		},
	}

	provider := NewFallbackProvider(s3Mock, local, "catalog/", true, zerolog.Nop())

	data, err := provider.Read(context.Background(), "recipes.json")
	require.NoError(t, err)
	assert.Equal(t, "from disk", string(data))

	require.NoError(t, provider.Write(context.Background(), "recipes.json", []byte("[]")))
	assert.Equal(t, "recipes.json", written)
}

func TestFallbackProvider_S3Disabled(t *testing.T) {
	s3Mock := &mockProvider{
		readFunc: func(ctx context.Context, path string) ([]byte, error) {
			t.Error("S3 provider should not be called when S3 is disabled")
			return nil, errors.New("should not be called")
		},
		writeFunc: func(ctx context.Context, path string, data []byte) error {
			t.Error("S3 provider should not be called when S3 is disabled")
			return errors.New("should not be called")
		},
	}
	local := &mockProvider{
		readFunc: func(ctx context.Context, path string) ([]byte, error) {
			return []byte("from disk"), nil
		},
		writeFunc: func(ctx context.Context, path string, data []byte) error {
			return nil
		},
	}

	provider := NewFallbackProvider(s3Mock, local, "catalog/", false, zerolog.Nop())

	data, err := provider.Read(context.Background(), "recipes.json")
	require.NoError(t, err)
	assert.Equal(t, "from disk", string(data))
	assert.NoError(t, provider.Write(context.Background(), "recipes.json", []byte("[]")))
}

func TestFallbackProvider_S3ProviderNil(t *testing.T) {
	local := &mockProvider{
		readFunc: func(ctx context.Context, path string) ([]byte, error) {
			return []byte("from disk"), nil
		},
	}

	provider := NewFallbackProvider(nil, local, "catalog/", true, zerolog.Nop())

	data, err := provider.Read(context.Background(), "recipes.json")
	require.NoError(t, err)
	assert.Equal(t, "from disk", string(data))
}

func TestFallbackProvider_BothFail(t *testing.T) {
	s3Mock := &mockProvider{
		readFunc: func(ctx context.Context, path string) ([]byte, error) {
			return nil, errors.New("S3 error")
		},
	}
	local := &mockProvider{
		readFunc: func(ctx context.Context, path string) ([]byte, error) {
			return nil, &model.ReadError{Path: path, Err: errors.New("file not found")}
		},
	}

	provider := NewFallbackProvider(s3Mock, local, "catalog/", true, zerolog.Nop())

	data, err := provider.Read(context.Background(), "recipes.json")
	assert.Nil(t, data)
	var readErr *model.ReadError
	require.ErrorAs(t, err, &readErr)
	assert.Contains(t, err.Error(), "file not found")
}

func TestFallbackProvider_PrefixHandling(t *testing.T) {
	tests := []struct {
		name       string
		s3Prefix   string
		path       string
		expectedS3 string
	}{
		{name: "prefix with trailing slash", s3Prefix: "catalog/", path: "recipes.json", expectedS3: "catalog/recipes.json"},
		{name: "empty prefix", s3Prefix: "", path: "recipes.json", expectedS3: "recipes.json"},
		{name: "nested prefix", s3Prefix: "data/catalog/prod/", path: "dish_types.json", expectedS3: "data/catalog/prod/dish_types.json"},
		{name: "absolute path", s3Prefix: "catalog/", path: "/tmp/recipes.json", expectedS3: "catalog/tmp/recipes.json"},
		{name: "prefix without trailing slash", s3Prefix: "catalog", path: "export/recipes.json", expectedS3: "catalog/export/recipes.json"},
		{name: "dot segments", s3Prefix: "catalog/", path: "./export//recipes.json.gz", expectedS3: "catalog/export/recipes.json.gz"},
		{name: "absolute path without prefix", s3Prefix: "", path: "/tmp/recipes.json", expectedS3: "tmp/recipes.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			s3Mock := &mockProvider{
				writeFunc: func(ctx context.Context, path string, data []byte) error {
					got = path
					return nil
				},
			}
			provider := NewFallbackProvider(s3Mock, &mockProvider{}, tt.s3Prefix, true, zerolog.Nop())

			require.NoError(t, provider.Write(context.Background(), tt.path, []byte("[]")))
			assert.Equal(t, tt.expectedS3, got)
		})
	}
}
