package member

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/appetiteclub/apt"
)

const (
	registerPath = "/do/d1"
	checkPath    = "/do/check"
	membersPath  = "/members"
)

// Registration is the booking payload accepted by the member API.
type Registration struct {
	Name         string `json:"name"`
	ContactPhone string `json:"contactPhone"`
	Province     string `json:"province,omitempty"`
	TableID      string `json:"table_id,omitempty"`
	TableLabel   string `json:"table_label,omitempty"`
	Time         string `json:"time,omitempty"`
	Note         string `json:"note,omitempty"`
	LineID       string `json:"lineid,omitempty"`
}

// Member is the profile record kept by the member API.
type Member struct {
	LineID       string `json:"lineid"`
	Name         string `json:"name"`
	ContactPhone string `json:"contactPhone,omitempty"`
	Province     string `json:"province,omitempty"`
}

type checkRequest struct {
	LineID string `json:"lineid"`
}

type checkResult struct {
	Registered bool `json:"registered"`
}

// Client talks to the external member and booking API.
type Client struct {
	client *apt.ServiceClient
}

func NewClient(client *apt.ServiceClient) *Client {
	return &Client{client: client}
}

// NewClientFromConfig builds a client for services.member.url.
func NewClientFromConfig(config *apt.Config) (*Client, error) {
	url, _ := config.GetString("services.member.url")
	if url == "" {
		return nil, fmt.Errorf("services.member.url is required")
	}

	client := apt.NewServiceClient(url)
	if client == nil {
		return nil, fmt.Errorf("failed to create member service client")
	}
	return NewClient(client), nil
}

// Register submits a booking registration.
func (c *Client) Register(ctx context.Context, reg Registration) error {
	if c == nil || c.client == nil {
		return fmt.Errorf("member client not configured")
	}
	if strings.TrimSpace(reg.Name) == "" || strings.TrimSpace(reg.ContactPhone) == "" {
		return fmt.Errorf("name and contact phone are required")
	}

	if _, err := c.client.Request(ctx, "POST", registerPath, reg); err != nil {
		return fmt.Errorf("cannot register booking: %w", err)
	}
	return nil
}

// CreateMember stores a member profile.
func (c *Client) CreateMember(ctx context.Context, m Member) error {
	if c == nil || c.client == nil {
		return fmt.Errorf("member client not configured")
	}
	if m.LineID == "" {
		return fmt.Errorf("missing line id")
	}

	if _, err := c.client.Request(ctx, "POST", membersPath, m); err != nil {
		return fmt.Errorf("cannot create member: %w", err)
	}
	return nil
}

// CheckLineID reports whether a member with the given line id is known.
func (c *Client) CheckLineID(ctx context.Context, lineID string) (bool, error) {
	if c == nil || c.client == nil {
		return false, fmt.Errorf("member client not configured")
	}
	if lineID == "" {
		return false, fmt.Errorf("missing line id")
	}

	resp, err := c.client.Request(ctx, "POST", checkPath, checkRequest{LineID: lineID})
	if err != nil {
		return false, fmt.Errorf("cannot check line id: %w", err)
	}

	var result checkResult
	if err := decodeSuccessResponse(resp, &result); err != nil {
		return false, fmt.Errorf("cannot decode line id check: %w", err)
	}
	return result.Registered, nil
}

func decodeSuccessResponse(resp *apt.SuccessResponse, target interface{}) error {
	if resp == nil {
		return fmt.Errorf("nil success response")
	}

	raw, err := json.Marshal(resp.Data)
	if err != nil {
		return err
	}

	return json.Unmarshal(raw, target)
}
