package studio

import (
	"context"
	"net/http"
	"net/url"

	"reel/internal/lockcfg"
	"reel/internal/refset"
)

// ListProfiles returns every profile known to the service.
func (c *Client) ListProfiles(ctx context.Context) ([]Profile, error) {
	var profiles []Profile
	if err := c.doJSON(ctx, http.MethodGet, "/video_profiles", nil, &profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}

// GetProfile fetches a single profile by id.
func (c *Client) GetProfile(ctx context.Context, id string) (*Profile, error) {
	var profile Profile
	if err := c.doJSON(ctx, http.MethodGet, "/video_profiles/"+url.PathEscape(id), nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// CreateProfile creates a profile. A real_identity profile without consent
// is rejected before the network; the service enforces the same rule.
func (c *Client) CreateProfile(ctx context.Context, req ProfileCreate) (*Profile, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if req.Mode == ModeRealIdentity && !req.ConsentChecked {
		return nil, &ValidationError{Problems: []string{"real_identity profiles require consent_checked"}}
	}

	var profile Profile
	if err := c.doJSON(ctx, http.MethodPost, "/video_profiles", req, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateProfile applies a partial update. Nil fields are left unchanged by
// the service.
func (c *Client) UpdateProfile(ctx context.Context, id string, req ProfileUpdate) (*Profile, error) {
	if req.Mode != nil && *req.Mode == ModeRealIdentity {
		if req.ConsentChecked == nil || !*req.ConsentChecked {
			return nil, &ValidationError{Problems: []string{"switching to real_identity requires consent_checked"}}
		}
	}

	var profile Profile
	if err := c.doJSON(ctx, http.MethodPut, "/video_profiles/"+url.PathEscape(id), req, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// DeleteProfile removes a profile and its server-side assets.
func (c *Client) DeleteProfile(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/video_profiles/"+url.PathEscape(id), nil, nil)
}

// AttachReferences replaces a profile's reference list wholesale. Names are
// sanitized and de-duplicated preserving first-seen order before the call.
func (c *Client) AttachReferences(ctx context.Context, id string, names []string) (*Profile, error) {
	body := struct {
		ImageNames []string `json:"image_names"`
	}{ImageNames: refset.New(names...).Names()}

	var profile Profile
	if err := c.doJSON(ctx, http.MethodPost, "/video_profiles/"+url.PathEscape(id)+"/references", body, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateLock replaces a profile's generation lock through a partial update.
func (c *Client) UpdateLock(ctx context.Context, id string, lock lockcfg.LockConfig) (*Profile, error) {
	return c.UpdateProfile(ctx, id, ProfileUpdate{Lock: &lock})
}

// ResetLock restores a profile's generation lock to the service defaults.
func (c *Client) ResetLock(ctx context.Context, id string) (*Profile, error) {
	lock := lockcfg.LockConfig{ReferenceWeight: 1.0, StrictLock: true}
	return c.UpdateProfile(ctx, id, ProfileUpdate{Lock: &lock})
}
