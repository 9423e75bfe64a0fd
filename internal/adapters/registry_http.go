package adapters

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/haseebmalik18/switchr/internal/shared"
)

const registryTimeout = 10 * time.Second

func newRegistryClient() *http.Client {
	return &http.Client{Timeout: registryTimeout}
}

// fetchJSON issues a GET and decodes the JSON body into out. A 404
// becomes a package-not-found error; any other failure is reported as
// the ecosystem's registry being unavailable.
func fetchJSON(ctx context.Context, client *http.Client, ecosystem string, name string, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return shared.RegistryUnavailableError(ecosystem, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return shared.RegistryUnavailableError(ecosystem, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return shared.PackageNotFoundError(ecosystem, name)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return shared.RegistryUnavailableError(ecosystem, shared.HTTPStatusError(resp.StatusCode, url))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return shared.RegistryUnavailableError(ecosystem, err)
	}
	return nil
}
