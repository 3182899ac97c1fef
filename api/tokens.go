package api

import (
	"fmt"

	"devlink/connect-api/internal/model"
)

// issueTokenPair mints a fresh access/refresh pair and persists the
// refresh token on the user row. Replacing the stored value is what
// invalidates the previous session credential, there is no revocation
// list
func (a *API) issueTokenPair(user *model.User) (access, refresh string, err error) {
	access, err = a.Tokens.AccessToken(user.ID, user.Email)
	if err != nil {
		return "", "", fmt.Errorf("failed to sign access token, %w", err)
	}

	refresh, err = a.Tokens.RefreshToken(user.ID)
	if err != nil {
		return "", "", fmt.Errorf("failed to sign refresh token, %w", err)
	}

	err = a.DB.Model(user).Update("refresh_token", refresh).Error
	if err != nil {
		return "", "", fmt.Errorf("failed to store refresh token, %w", err)
	}

	return access, refresh, nil
}
