// ABOUTME: Authentication endpoints: login, register, profile, sign-out
// ABOUTME: Successful logins persist the session for later runs
package api

import (
	"context"
	"net/http"

	"github.com/harperreed/kith/models"
)

// AuthResponse is the server's reply to login, register, and refresh.
type AuthResponse struct {
	User         models.User `json:"user"`
	Token        string      `json:"token"`
	RefreshToken string      `json:"refreshToken"`
}

// Session converts the wire response into a persistable session.
func (a *AuthResponse) Session() *Session {
	return &Session{
		User:  a.User,
		Token: tokenFromStrings(a.Token, a.RefreshToken),
	}
}

// Login signs in with email and password and stores the session.
func (c *Client) Login(ctx context.Context, email, password string) (*models.User, error) {
	var auth AuthResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &auth)
	if err != nil {
		return nil, err
	}
	if err := c.setSession(auth.Session()); err != nil {
		return nil, err
	}
	return &auth.User, nil
}

// Register creates an account, signs in, and stores the session.
func (c *Client) Register(ctx context.Context, email, password, name string) (*models.User, error) {
	var auth AuthResponse
	err := c.do(ctx, http.MethodPost, "/auth/register", map[string]string{
		"email":    email,
		"password": password,
		"name":     name,
	}, &auth)
	if err != nil {
		return nil, err
	}
	if err := c.setSession(auth.Session()); err != nil {
		return nil, err
	}
	return &auth.User, nil
}

// Logout discards the local session. The server keeps no session state
// beyond the token pair, so nothing is sent.
func (c *Client) Logout() error {
	return c.setSession(nil)
}

// Profile fetches the signed-in user's profile.
func (c *Client) Profile(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodGet, "/auth/profile", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile updates name, timezone, or settings on the server and
// refreshes the stored session's user.
func (c *Client) UpdateProfile(ctx context.Context, changes map[string]any) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodPut, "/auth/profile", changes, &user); err != nil {
		return nil, err
	}
	c.mu.Lock()
	if c.session != nil {
		c.session.User = user
		session := *c.session
		c.mu.Unlock()
		if err := SaveSession(&session); err != nil {
			return nil, err
		}
	} else {
		c.mu.Unlock()
	}
	return &user, nil
}

// ChangePassword rotates the account password.
func (c *Client) ChangePassword(ctx context.Context, current, next string) error {
	return c.do(ctx, http.MethodPost, "/auth/change-password", map[string]string{
		"currentPassword": current,
		"newPassword":     next,
	}, nil)
}

// ForgotPassword asks the server to send a reset email.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, "/auth/forgot-password", map[string]string{"email": email}, nil)
}

// ResetPassword completes a password reset with the emailed token.
func (c *Client) ResetPassword(ctx context.Context, token, password string) error {
	return c.do(ctx, http.MethodPost, "/auth/reset-password", map[string]string{
		"token":    token,
		"password": password,
	}, nil)
}

// DeleteAccount removes the account server-side and discards the session.
func (c *Client) DeleteAccount(ctx context.Context) error {
	if err := c.do(ctx, http.MethodDelete, "/auth/account", nil, nil); err != nil {
		return err
	}
	return c.setSession(nil)
}
