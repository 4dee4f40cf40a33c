package studio

import (
	"context"
	"net/http"
	"net/url"
)

// ListAssets returns generated video assets. The service lists assets across
// all profiles; a non-empty profileID filters the result locally.
func (c *Client) ListAssets(ctx context.Context, profileID string) ([]Asset, error) {
	var assets []Asset
	if err := c.doJSON(ctx, http.MethodGet, "/videos", nil, &assets); err != nil {
		return nil, err
	}
	if profileID == "" {
		return assets, nil
	}

	filtered := assets[:0]
	for _, asset := range assets {
		if asset.ProfileID == profileID {
			filtered = append(filtered, asset)
		}
	}
	return filtered, nil
}

// AssetFileURL returns the absolute URL of an asset's video file, suitable
// for handing to a player or browser.
func (c *Client) AssetFileURL(assetID string) string {
	return c.baseURL + "/videos/" + url.PathEscape(assetID) + "/file"
}
