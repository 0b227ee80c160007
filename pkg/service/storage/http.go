package storage

import (
	"context"
	"io"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/vulntrend/pkg/domain/interfaces"
	"github.com/secmon-lab/vulntrend/pkg/domain/model"
)

// HTTP reads snapshots with GET requests under a base URL
type HTTP struct {
	baseURL string
	client  *http.Client
}

// NewHTTP creates a reader for baseURL. The client has no timeout of its own.
func NewHTTP(baseURL string) *HTTP {
	return &HTTP{
		baseURL: baseURL,
		client:  &http.Client{},
	}
}

// Read fetches <baseURL>/<key>. 404 is reported as a missing snapshot, other non-2xx as errors.
func (h *HTTP) Read(ctx context.Context, key string) ([]byte, error) {
	target := h.baseURL + "/" + key

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create snapshot request", goerr.V("url", target))
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to request snapshot", goerr.V("url", target))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, goerr.Wrap(model.ErrSnapshotNotFound, "snapshot URL returned 404", goerr.V("url", target))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, goerr.New("unexpected snapshot response status",
			goerr.V("url", target),
			goerr.V("status", resp.StatusCode))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read snapshot response", goerr.V("url", target))
	}

	return data, nil
}

var _ interfaces.SnapshotReader = (*HTTP)(nil)
