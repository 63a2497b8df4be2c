package userdirectory

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"talentbridge/marketplace-api/internal/domain/user"
)

// RemoteDirectory resolves display information from an external user service.
type RemoteDirectory struct {
	httpClient *resty.Client
}

var _ user.Directory = (*RemoteDirectory)(nil)

// NewRemoteDirectory constructs the client for baseURL.
func NewRemoteDirectory(baseURL string, timeout time.Duration) *RemoteDirectory {
	return &RemoteDirectory{
		httpClient: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(timeout).
			SetHeader("Accept", "application/json"),
	}
}

type remoteProfile struct {
	FullName     string `json:"fullName"`
	ProfileImage string `json:"profileImage"`
}

// FindByID fetches GET /v1/users/{id}. A 404 means the user does not exist.
func (d *RemoteDirectory) FindByID(ctx context.Context, id string) (*user.DisplayInfo, error) {
	var payload remoteProfile
	resp, err := d.httpClient.R().
		SetContext(ctx).
		SetPathParam("id", id).
		SetResult(&payload).
		Get("/v1/users/{id}")
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, nil
	}
	if resp.IsError() {
		return nil, fmt.Errorf("user directory lookup %s: status %d", id, resp.StatusCode())
	}
	return &user.DisplayInfo{FullName: payload.FullName, ProfileImage: payload.ProfileImage}, nil
}
