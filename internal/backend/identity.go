package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/toastmobile/ordering/internal/models"
	"github.com/toastmobile/ordering/internal/remote"
)

const identityContentType = "application/x-amz-json-1.1"

// IdentityClient talks to a Cognito-style user pool over its JSON target
// protocol. Each operation is a POST to the regional endpoint with the
// action in the X-Amz-Target header.
type IdentityClient struct {
	endpoint   string
	clientID   string
	httpClient *http.Client
}

// NewIdentityClient creates an identity client for the given region and
// app client id.
func NewIdentityClient(region, clientID string, timeout time.Duration) *IdentityClient {
	return &IdentityClient{
		endpoint:   fmt.Sprintf("https://cognito-idp.%s.amazonaws.com/", region),
		clientID:   clientID,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// NewIdentityClientWithEndpoint creates an identity client against an
// explicit endpoint. Used by tests and local stacks.
func NewIdentityClientWithEndpoint(endpoint, clientID string, timeout time.Duration) *IdentityClient {
	return &IdentityClient{
		endpoint:   endpoint,
		clientID:   clientID,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *IdentityClient) call(ctx context.Context, target string, in, out interface{}) error {
	h := http.Header{}
	h.Set("Content-Type", identityContentType)
	h.Set("X-Amz-Target", "AWSCognitoIdentityProviderService."+target)
	return remote.DoJSON(ctx, c.httpClient, http.MethodPost, c.endpoint, h, in, out)
}

type userAttribute struct {
	Name  string `json:"Name"`
	Value string `json:"Value"`
}

// SignUp registers a new user with the given credentials and email.
func (c *IdentityClient) SignUp(ctx context.Context, username, password, email string) error {
	req := struct {
		ClientID       string          `json:"ClientId"`
		Username       string          `json:"Username"`
		Password       string          `json:"Password"`
		UserAttributes []userAttribute `json:"UserAttributes"`
	}{
		ClientID: c.clientID,
		Username: username,
		Password: password,
		UserAttributes: []userAttribute{
			{Name: "email", Value: email},
		},
	}
	return c.call(ctx, "SignUp", req, nil)
}

type authResult struct {
	AuthenticationResult struct {
		AccessToken  string `json:"AccessToken"`
		IDToken      string `json:"IdToken"`
		RefreshToken string `json:"RefreshToken"`
	} `json:"AuthenticationResult"`
}

// SignIn authenticates a user and returns the session holding the issued
// tokens.
func (c *IdentityClient) SignIn(ctx context.Context, username, password string) (*models.Session, error) {
	req := struct {
		AuthFlow       string            `json:"AuthFlow"`
		ClientID       string            `json:"ClientId"`
		AuthParameters map[string]string `json:"AuthParameters"`
	}{
		AuthFlow: "USER_PASSWORD_AUTH",
		ClientID: c.clientID,
		AuthParameters: map[string]string{
			"USERNAME": username,
			"PASSWORD": password,
		},
	}

	var resp authResult
	if err := c.call(ctx, "InitiateAuth", req, &resp); err != nil {
		return nil, err
	}
	if resp.AuthenticationResult.AccessToken == "" {
		return nil, fmt.Errorf("identity provider returned no access token")
	}

	return &models.Session{
		Username:     username,
		AccessToken:  resp.AuthenticationResult.AccessToken,
		IDToken:      resp.AuthenticationResult.IDToken,
		RefreshToken: resp.AuthenticationResult.RefreshToken,
	}, nil
}

// SignOut revokes the session's tokens.
func (c *IdentityClient) SignOut(ctx context.Context, accessToken string) error {
	req := struct {
		AccessToken string `json:"AccessToken"`
	}{AccessToken: accessToken}
	return c.call(ctx, "GlobalSignOut", req, nil)
}

// CurrentUser resolves the session behind an access token. It returns
// (nil, nil) when there is no session: an empty token, or one the
// provider rejects. Callers branch on guest vs. authenticated flow
// without error handling. Transport failures still surface as errors.
func (c *IdentityClient) CurrentUser(ctx context.Context, accessToken string) (*models.Session, error) {
	if accessToken == "" {
		return nil, nil
	}

	req := struct {
		AccessToken string `json:"AccessToken"`
	}{AccessToken: accessToken}

	var resp struct {
		Username string `json:"Username"`
	}

	if err := c.call(ctx, "GetUser", req, &resp); err != nil {
		var terr *remote.TransportError
		if errors.As(err, &terr) && terr.Status >= 400 && terr.Status < 500 {
			// Expired or revoked token: not an error, just no session.
			return nil, nil
		}
		return nil, err
	}

	return &models.Session{
		Username:    resp.Username,
		AccessToken: accessToken,
	}, nil
}
