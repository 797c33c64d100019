package model

type TokenResponse struct {
	AccessToken          string `json:"accessToken"`
	AccessTokenExpiresIn int    `json:"accessTokenExpiresIn"`
	TokenType            string `json:"tokenType"`
}

type AdminLoginRequest struct {
	Password string `json:"password"`
}

func (r AdminLoginRequest) Validate() error {
	if r.Password == "" {
		return invalid("password", "Password is required")
	}

	return nil
}
