package testutil

import (
	"context"
	"fmt"

	"github.com/cameronsaddress/snapchef-social/pkg/storage"
)

type MockStorage struct {
	UploadFunc func(context.Context, *storage.UploadObject) (*storage.UploadResponse, error)
}

func (m *MockStorage) Upload(
	ctx context.Context, obj *storage.UploadObject,
) (*storage.UploadResponse, error) {
	if m.UploadFunc != nil {
		return m.UploadFunc(ctx, obj)
	}

	return &storage.UploadResponse{
		Url:      fmt.Sprintf("https://storage.example.com/%s/%s", obj.Prefix, obj.FileName),
		FileName: obj.FileName,
	}, nil
}
