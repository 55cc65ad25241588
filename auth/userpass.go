// Copyright 2026 Contributors to the fritz-go project.
// SPDX-License-Identifier: Apache-2.0

package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/mitchellh/mapstructure"

	fritz "github.com/ShortDevelopment/fritz-go"
)

const (
	loginPath = "/login_sid.lua?version=2"

	// emptySID is what the router reports while unauthenticated.
	emptySID = "0000000000000000"
)

var (
	challengeEndpoint = fritz.Endpoint{Method: http.MethodGet, Path: loginPath, Shape: newSessionDocument}
	loginEndpoint     = fritz.Endpoint{Method: http.MethodPost, Path: loginPath, Shape: newSessionDocument}
	logoutEndpoint    = fritz.Endpoint{Method: http.MethodPost, Path: loginPath, Shape: newSessionDocument}
)

// sessionDocument models the XML document served by login_sid.lua.
type sessionDocument struct {
	SessionInfo sessionInfo `mapstructure:"SessionInfo" validate:"required"`
}

type sessionInfo struct {
	SID       string      `mapstructure:"SID" validate:"required"`
	Challenge string      `mapstructure:"Challenge"`
	BlockTime int         `mapstructure:"BlockTime"`
	Users     interface{} `mapstructure:"Users"`
}

func newSessionDocument() interface{} { return &sessionDocument{} }

// UserPass authenticates with a router account via the challenge-response
// login. Username may stay empty for boxes configured for password-only
// login; the password is always required.
type UserPass struct {
	Username string
	Password string
}

// Configure populates the strategy from a generic configuration mapping.
func (o *UserPass) Configure(cfg map[string]interface{}) error {
	decoded := struct {
		Username string                 `mapstructure:"username"`
		Password string                 `mapstructure:"password"`
		Rest     map[string]interface{} `mapstructure:",remain"`
	}{}

	if err := mapstructure.Decode(cfg, &decoded); err != nil {
		return err
	}

	o.Username = decoded.Username
	o.Password = decoded.Password

	if err := o.validate(); err != nil {
		return err
	}

	if len(decoded.Rest) > 0 {
		var unexpected []string
		for k := range decoded.Rest {
			unexpected = append(unexpected, k)
		}
		return fmt.Errorf("unexpected fields in config: %s",
			strings.Join(unexpected, ", "))
	}

	return nil
}

func (o *UserPass) validate() error {
	if o.Password == "" {
		return errors.New("missing password")
	}

	return nil
}

// Login fetches the current challenge, solves it and trades the solution for
// a session ID.
func (o *UserPass) Login(ctx context.Context, c *fritz.Client) (*Session, error) {
	if err := o.validate(); err != nil {
		return nil, err
	}

	info, err := fetchChallenge(ctx, c)
	if err != nil {
		return nil, err
	}

	if validSID(info.SID) {
		// Already authenticated, e.g. a host on the trusted network.
		return &Session{SID: info.SID}, nil
	}

	response, err := ComputeResponse(info.Challenge, o.Password)
	if err != nil {
		return nil, err
	}

	payload := url.Values{}
	payload.Set("username", o.Username)
	payload.Set("response", response)

	res, err := c.Call(ctx, loginEndpoint, payload)
	if err != nil {
		return nil, fmt.Errorf("login request failed: %w", err)
	}
	defer res.Close()

	granted, err := sessionFromResponse(res)
	if err != nil {
		return nil, err
	}

	if !validSID(granted.SID) {
		if granted.BlockTime > 0 {
			return nil, fmt.Errorf("login rejected for user %q, retry blocked for %d seconds",
				o.Username, granted.BlockTime)
		}
		return nil, fmt.Errorf("login rejected for user %q", o.Username)
	}

	return &Session{SID: granted.SID}, nil
}

// Logout invalidates the session at the router.
func (o *UserPass) Logout(ctx context.Context, c *fritz.Client, s *Session) error {
	payload := url.Values{}
	payload.Set("logout", "1")
	payload.Set("sid", s.SID)

	res, err := c.Call(ctx, logoutEndpoint, payload)
	if err != nil {
		return fmt.Errorf("logout request failed: %w", err)
	}
	defer res.Close()

	return res.EnsureOK()
}

func validSID(sid string) bool {
	return sid != "" && sid != emptySID
}

func fetchChallenge(ctx context.Context, c *fritz.Client) (*sessionInfo, error) {
	res, err := c.Call(ctx, challengeEndpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("fetching login challenge: %w", err)
	}
	defer res.Close()

	return sessionFromResponse(res)
}

func sessionFromResponse(res *fritz.Response) (*sessionInfo, error) {
	data, err := res.Data()
	if err != nil {
		return nil, err
	}

	doc, ok := data.(*sessionDocument)
	if !ok {
		return nil, fmt.Errorf("unexpected session document type %T", data)
	}

	return &doc.SessionInfo, nil
}

// User is one router account advertised in the login challenge document.
type User struct {
	Name string

	// Last marks the account used for the most recent login.
	Last bool
}

// ListUsers fetches the router accounts from the challenge document. No
// authentication is required.
func ListUsers(ctx context.Context, c *fritz.Client) ([]User, error) {
	info, err := fetchChallenge(ctx, c)
	if err != nil {
		return nil, err
	}

	return parseUsers(info.Users), nil
}

// parseUsers normalizes the <Users> subtree, which holds either a single
// <User> or a list, each either plain text or text plus a "last" attribute.
func parseUsers(v interface{}) []User {
	tree, ok := v.(map[string]interface{})
	if !ok {
		return nil
	}

	var out []User
	switch entries := tree["User"].(type) {
	case []interface{}:
		for _, e := range entries {
			if u, ok := parseUser(e); ok {
				out = append(out, u)
			}
		}
	default:
		if u, ok := parseUser(entries); ok {
			out = append(out, u)
		}
	}

	return out
}

func parseUser(v interface{}) (User, bool) {
	switch u := v.(type) {
	case string:
		return User{Name: u}, u != ""
	case map[string]interface{}:
		name, _ := u["#text"].(string)
		last, _ := u["last"].(string)
		return User{Name: name, Last: last == "1"}, name != ""
	}

	return User{}, false
}
