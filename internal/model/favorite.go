package model

type FavoriteToggleRequest struct {
	UserFingerprint string `json:"user_fingerprint"`
}

func (r FavoriteToggleRequest) Validate() error {
	return validateFingerprint(r.UserFingerprint)
}

type FavoriteToggleResponse struct {
	Favorited bool `json:"favorited"`
}
