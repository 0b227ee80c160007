package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/Azure/azure-storage-blob-go/azblob"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/vulntrend/pkg/domain/interfaces"
	"github.com/secmon-lab/vulntrend/pkg/domain/model"
)

// AzureBlob reads snapshots from a public Azure blob container
type AzureBlob struct {
	container azblob.ContainerURL
	prefix    string
}

// NewAzureBlob creates a reader for the container of account. An empty endpoint
// means https://<account>.blob.core.windows.net.
func NewAzureBlob(account, container, prefix, endpoint string) (*AzureBlob, error) {
	if endpoint == "" {
		endpoint = fmt.Sprintf("https://%s.blob.core.windows.net", account)
	}

	u, err := url.Parse(strings.TrimRight(endpoint, "/") + "/" + container)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse Azure container URL",
			goerr.V("account", account), goerr.V("container", container))
	}

	pipeline := azblob.NewPipeline(azblob.NewAnonymousCredential(), azblob.PipelineOptions{})
	return &AzureBlob{
		container: azblob.NewContainerURL(*u, pipeline),
		prefix:    prefix,
	}, nil
}

// Read downloads <container>/<prefix>/<key>
func (a *AzureBlob) Read(ctx context.Context, key string) ([]byte, error) {
	blobName := objectKey(a.prefix, key)
	blobURL := a.container.NewBlobURL(blobName)

	response, err := blobURL.Download(ctx, 0, azblob.CountToEnd, azblob.BlobAccessConditions{}, false, azblob.ClientProvidedKeyOptions{})
	if err != nil {
		var stgErr azblob.StorageError
		if errors.As(err, &stgErr) && stgErr.ServiceCode() == azblob.ServiceCodeBlobNotFound {
			return nil, goerr.Wrap(model.ErrSnapshotNotFound, "Azure blob does not exist", goerr.V("blob", blobName))
		}
		return nil, goerr.Wrap(err, "failed to download Azure blob", goerr.V("blob", blobName))
	}

	body := response.Body(azblob.RetryReaderOptions{})
	defer func() { _ = body.Close() }()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read Azure blob", goerr.V("blob", blobName))
	}

	return data, nil
}

var _ interfaces.SnapshotReader = (*AzureBlob)(nil)
