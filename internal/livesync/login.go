package livesync

import (
	"context"
	"os"
	"path/filepath"

	"skyperious/internal/skypeid"
)

// TokenPath derives the cache-file path a username's login token is
// stored under, reusing skypeid's safe-slug-plus-hash derivation so two
// usernames differing only in characters stripped by the filesystem-safe
// transform don't collide.
func TokenPath(cacheDir, username string) string {
	return filepath.Join(cacheDir, skypeid.MakeDBPath(username)+".token")
}

// Login tries the cached token first, if one exists, falling back to a
// password login and persisting the returned token for next time. The
// original engine's SOAP fallback for legacy Microsoft-account-linked
// logins has no home here: Client is opaque by design (spec.md §1), and
// an opaque interface cannot expose a second, protocol-specific login
// path without breaking that abstraction.
func Login(ctx context.Context, client Client, cacheDir, username, password string) error {
	tokenPath := TokenPath(cacheDir, username)
	if token, err := os.ReadFile(tokenPath); err == nil {
		if loginErr := client.LoginWithToken(ctx, username, string(token)); loginErr == nil {
			return nil
		}
	}

	token, err := client.LoginWithPassword(ctx, username, password)
	if err != nil {
		return err
	}
	if token != "" {
		_ = os.MkdirAll(cacheDir, 0o700)
		_ = os.WriteFile(tokenPath, []byte(token), 0o600)
	}
	return nil
}
