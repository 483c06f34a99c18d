package hub

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/starford/rasoi/internal/apperr"
	"github.com/starford/rasoi/internal/imagestore"
)

// DatasetFileName is the fixed logical path of the CSV inside the remote repo.
const DatasetFileName = "recipes.csv"

// ImagePathPrefix namespaces uploaded images inside the remote repo.
const ImagePathPrefix = "images/"

// NewClientFunc builds a Client for a credential. Swappable for tests.
type NewClientFunc func(token string) Client

// Uploader pushes the backing CSV file and, optionally, every stored image
// to a remote dataset repository, sequentially, file by file.
type Uploader struct {
	datasetPath string
	images      *imagestore.Store
	newClient   NewClientFunc
}

// NewUploader creates an Uploader reading from the CSV at datasetPath and
// the given image store.
func NewUploader(datasetPath string, images *imagestore.Store, newClient NewClientFunc) *Uploader {
	return &Uploader{datasetPath: datasetPath, images: images, newClient: newClient}
}

// NewDefaultUploader wires an Uploader to the real Hub endpoint.
func NewDefaultUploader(datasetPath string, images *imagestore.Store, endpoint string, timeout time.Duration) *Uploader {
	return NewUploader(datasetPath, images, func(token string) Client {
		return NewHTTPClient(endpoint, token, timeout)
	})
}

// Upload transmits the dataset to repoID. Preconditions short-circuit in
// order: the backing file must exist locally, then the credential must
// authenticate; no transmission is attempted until both hold. The first
// transmission error fails the whole upload — there is no partial-success
// bookkeeping and no retry, which is safe because every step overwrites the
// same destination path on re-invocation.
func (u *Uploader) Upload(ctx context.Context, repoID, token string, includeImages bool) (string, error) {
	data, err := os.ReadFile(u.datasetPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", apperr.ErrNoData
		}
		return "", fmt.Errorf("read dataset: %w", err)
	}

	client := u.newClient(token)
	if _, err := client.Whoami(ctx); err != nil {
		return "", fmt.Errorf("%w: %v", apperr.ErrAuth, err)
	}

	if err := client.UploadFile(ctx, repoID, DatasetFileName, data); err != nil {
		return "", fmt.Errorf("%w: %s: %v", apperr.ErrTransmission, DatasetFileName, err)
	}

	if includeImages {
		names, err := u.images.List()
		if err != nil {
			return "", err
		}
		for _, name := range names {
			img, err := os.ReadFile(filepath.Join(u.images.Dir(), name))
			if err != nil {
				return "", fmt.Errorf("%w: read %s: %v", apperr.ErrTransmission, name, err)
			}
			if err := client.UploadFile(ctx, repoID, ImagePathPrefix+name, img); err != nil {
				return "", fmt.Errorf("%w: %s: %v", apperr.ErrTransmission, name, err)
			}
		}
	}

	return fmt.Sprintf("Dataset uploaded successfully to: https://huggingface.co/datasets/%s", repoID), nil
}
