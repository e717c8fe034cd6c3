// Package oauth implements the per-provider OAuth connectors. Each connector
// translates an authorization-code grant into the normalized ports.Identity
// shape; the account service depends only on that interface.
package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// fetchTimeout bounds both outbound calls of a callback (token exchange and
// profile fetch); upstream providers must not hang a login indefinitely.
const fetchTimeout = 10 * time.Second

func getJSON(ctx context.Context, client *http.Client, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch %s: unexpected status %d", url, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}
