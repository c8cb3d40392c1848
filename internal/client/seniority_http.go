package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rolewarden/backend/pkg/api"
)

type seniorityCaller struct {
	url          string
	apiGenerator api.Generator
}

// NewSeniorityCaller returns a caller backed by the seniority service HTTP
// API at url.
func NewSeniorityCaller(url string, apiGenerator api.Generator) *seniorityCaller {
	return &seniorityCaller{url: url, apiGenerator: apiGenerator}
}

func (c *seniorityCaller) SynchronizeRoles(ctx context.Context, guildID string) error {
	resp, err := c.apiGenerator.New(c.url, "/guilds/%s/seniority/sync", guildID).
		POST(ctx)
	if err != nil {
		return err
	}

	if resp.Code >= http.StatusBadRequest {
		return fmt.Errorf("cannot synchronize seniority roles of guild %s: status %d", guildID, resp.Code)
	}

	return nil
}

func (c *seniorityCaller) CleanupRoles(ctx context.Context, guildID, botID string) error {
	resp, err := c.apiGenerator.New(c.url, "/guilds/%s/seniority", guildID).
		Query(api.Parameter{"bot_id": botID}).
		DELETE(ctx)
	if err != nil {
		return err
	}

	if resp.Code >= http.StatusBadRequest {
		return fmt.Errorf("cannot cleanup seniority roles of guild %s: status %d", guildID, resp.Code)
	}

	return nil
}

func (c *seniorityCaller) CanModify(ctx context.Context, guildID, botID string) (bool, error) {
	resp, err := c.apiGenerator.New(c.url, "/guilds/%s/seniority/permission", guildID).
		Query(api.Parameter{"bot_id": botID}).
		GET(ctx)
	if err != nil {
		return false, err
	}

	if resp.Code >= http.StatusBadRequest {
		return false, fmt.Errorf("cannot check seniority permission of guild %s: status %d", guildID, resp.Code)
	}

	body, ok := resp.Body.(api.JSON)
	if !ok {
		return false, fmt.Errorf("invalid seniority permission response of guild %s", guildID)
	}

	return body.GetBool("allowed")
}
