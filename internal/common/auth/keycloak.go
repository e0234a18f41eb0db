package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"estimate-workers/internal/common/errors"
	"estimate-workers/internal/models"
)

// IdentityResolver turns a caller's access token into a server-verified identity.
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, accessToken string) (models.Identity, error)
}

// KeycloakClient resolves identities through Keycloak token introspection.
type KeycloakClient struct {
	baseURL      string
	realm        string
	clientID     string
	clientSecret string
	httpClient   *http.Client
}

// NewKeycloakClient creates a new instance of KeycloakClient.
func NewKeycloakClient(baseURL, realm, clientID, clientSecret string, timeout time.Duration) *KeycloakClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &KeycloakClient{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		realm:        realm,
		clientID:     clientID,
		clientSecret: clientSecret,
		httpClient:   &http.Client{Timeout: timeout},
	}
}

// TokenInfo holds the information returned by the token introspection endpoint.
type TokenInfo struct {
	Active            bool   `json:"active"`
	Scope             string `json:"scope,omitempty"`
	ClientID          string `json:"client_id,omitempty"`
	Username          string `json:"username,omitempty"`
	PreferredUsername string `json:"preferred_username,omitempty"`
	TokenType         string `json:"token_type,omitempty"`
	Exp               int64  `json:"exp,omitempty"`
	Sub               string `json:"sub,omitempty"` // user ID
	RealmAccess       struct {
		Roles []string `json:"roles"`
	} `json:"realm_access"`
}

// ValidateToken checks if an access token is valid and active.
func (k *KeycloakClient) ValidateToken(ctx context.Context, token string) (*TokenInfo, error) {
	if strings.TrimSpace(token) == "" {
		return nil, errors.NewAuthenticationError("access token is required")
	}

	introspectURL := fmt.Sprintf("%s/realms/%s/protocol/openid-connect/token/introspect", k.baseURL, k.realm)

	data := url.Values{}
	data.Set("token", token)
	data.Set("token_type_hint", "access_token")
	data.Set("client_id", k.clientID)
	data.Set("client_secret", k.clientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, introspectURL, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, errors.NewInternalError(fmt.Errorf("create introspection request: %w", err))
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := k.httpClient.Do(req)
	if err != nil {
		return nil, errors.NewIdentityUnavailableError(fmt.Errorf("send introspection request: %w", err))
	}
	defer resp.Body.Close()

	// Introspection answers 200 for any caller token, so every other status is
	// a provider or worker-credential fault. The body is not echoed back.
	if resp.StatusCode != http.StatusOK {
		stdErr := errors.NewIdentityUnavailableError(fmt.Errorf("introspection returned status %d", resp.StatusCode))
		stdErr.Retryable = isTransientHTTPError(resp.StatusCode)
		return nil, stdErr
	}

	var tokenInfo TokenInfo
	if err := json.NewDecoder(resp.Body).Decode(&tokenInfo); err != nil {
		return nil, errors.NewIdentityUnavailableError(fmt.Errorf("decode introspection response: %w", err))
	}

	if !tokenInfo.Active {
		return nil, errors.NewAuthenticationError("token is expired, revoked or malformed")
	}
	if tokenInfo.Sub == "" {
		return nil, errors.NewAuthenticationError("token carries no subject")
	}

	return &tokenInfo, nil
}

// ResolveIdentity introspects the token and maps realm roles onto an Identity.
func (k *KeycloakClient) ResolveIdentity(ctx context.Context, accessToken string) (models.Identity, error) {
	info, err := k.ValidateToken(ctx, accessToken)
	if err != nil {
		return models.Identity{}, err
	}
	username := info.PreferredUsername
	if username == "" {
		username = info.Username
	}
	return models.Identity{
		UserID:   info.Sub,
		Username: username,
		Roles:    info.RealmAccess.Roles,
	}, nil
}

func isTransientHTTPError(statusCode int) bool {
	switch statusCode {
	case http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}
