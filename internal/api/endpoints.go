package api

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/fleetsync/fleetsync/internal/domain/entity"
)

func (c *Client) GetHosts(ctx context.Context) ([]entity.Host, error) {
	ret := []entity.Host{}

	err := c.get(ctx, "/api/hosts", nil, &ret)
	if err != nil {
		return nil, fmt.Errorf("failed to get hosts: %w", err)
	}

	return ret, nil
}

func (c *Client) GetClusters(ctx context.Context) ([]entity.Cluster, error) {
	ret := []entity.Cluster{}

	err := c.get(ctx, "/api/clusters", nil, &ret)
	if err != nil {
		return nil, fmt.Errorf("failed to get clusters: %w", err)
	}

	return ret, nil
}

func (c *Client) GetSAPSystems(ctx context.Context) ([]entity.SAPSystem, error) {
	ret := []entity.SAPSystem{}

	err := c.get(ctx, "/api/sap_systems", nil, &ret)
	if err != nil {
		return nil, fmt.Errorf("failed to get sap systems: %w", err)
	}

	return ret, nil
}

func (c *Client) GetDatabases(ctx context.Context) ([]entity.Database, error) {
	ret := []entity.Database{}

	err := c.get(ctx, "/api/databases", nil, &ret)
	if err != nil {
		return nil, fmt.Errorf("failed to get databases: %w", err)
	}

	return ret, nil
}

func (c *Client) GetHealthSummary(ctx context.Context) ([]entity.SAPSystemHealth, error) {
	ret := []entity.SAPSystemHealth{}

	err := c.get(ctx, "/api/sap_systems/health", nil, &ret)
	if err != nil {
		return nil, fmt.Errorf("failed to get health summary: %w", err)
	}

	return ret, nil
}

func (c *Client) GetSettings(ctx context.Context) (entity.Settings, error) {
	ret := entity.Settings{}

	err := c.get(ctx, "/api/settings", nil, &ret)
	if err != nil {
		return entity.Settings{}, fmt.Errorf("failed to get settings: %w", err)
	}

	return ret, nil
}

// GetCatalog fetches the checks matching query. Empty query fields are not sent.
func (c *Client) GetCatalog(ctx context.Context, query entity.CatalogQuery) ([]entity.Check, error) {
	params := url.Values{}

	for key, value := range map[string]string{
		"provider":     query.Provider,
		"target_type":  query.TargetType,
		"cluster_type": query.ClusterType,
		"arch":         query.Arch,
	} {
		if value != "" {
			params.Set(key, value)
		}
	}

	ret := struct {
		Items []entity.Check `json:"items"`
	}{}

	err := c.get(ctx, "/api/checks/catalog", params, &ret)
	if err != nil {
		return nil, fmt.Errorf("failed to get catalog: %w", err)
	}

	if ret.Items == nil {
		ret.Items = []entity.Check{}
	}

	return ret.Items, nil
}

// GetLastExecution returns the last execution of a group. A group without execution yields (nil, nil).
func (c *Client) GetLastExecution(ctx context.Context, groupID string) (*entity.Execution, error) {
	ret := entity.Execution{}

	err := c.get(ctx, "/api/v2/checks/groups/"+url.PathEscape(groupID)+"/executions/last", nil, &ret)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get last execution of %s: %w", groupID, err)
	}

	return &ret, nil
}

// SaveChecksSelection persists the checks selected for a cluster or a host.
func (c *Client) SaveChecksSelection(ctx context.Context, targetType entity.TargetType, targetID string, checks []string) error {
	body := struct {
		Checks []string `json:"checks"`
	}{Checks: checks}

	if body.Checks == nil {
		body.Checks = []string{}
	}

	path, err := targetPath(targetType, targetID, "/checks")
	if err != nil {
		return err
	}

	err = c.post(ctx, path, body, nil)
	if err != nil {
		return fmt.Errorf("failed to save checks selection of %s %s: %w", targetType, targetID, err)
	}

	return nil
}

// RequestExecution asks the server to run the selected checks of a cluster or a host.
func (c *Client) RequestExecution(ctx context.Context, targetType entity.TargetType, targetID string) error {
	path, err := targetPath(targetType, targetID, "/checks/request_execution")
	if err != nil {
		return err
	}

	err = c.post(ctx, path, struct{}{}, nil)
	if err != nil {
		return fmt.Errorf("failed to request execution of %s %s: %w", targetType, targetID, err)
	}

	return nil
}

func targetPath(targetType entity.TargetType, targetID, suffix string) (string, error) {
	switch targetType {
	case entity.TargetTypeCluster:
		return "/api/clusters/" + url.PathEscape(targetID) + suffix, nil
	case entity.TargetTypeHost:
		return "/api/hosts/" + url.PathEscape(targetID) + suffix, nil
	default:
		return "", fmt.Errorf("unexpected target type %q", targetType)
	}
}
