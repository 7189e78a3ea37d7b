package gus

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/ternarybob/rogo/internal/models"
)

const (
	workItemObjectType = "ADM_Work__c"
	epicObjectType     = "ADM_Epic__c"
)

// CreateWorkItemRequest carries the writable fields for a new work item.
type CreateWorkItemRequest struct {
	Subject      string
	Description  string
	Status       string
	AssigneeID   string
	ProductTagID string
	EpicID       string
}

// createResponse is the wire shape of the sobjects creation endpoint.
type createResponse struct {
	ID      string `json:"id"`
	Success bool   `json:"success"`
	Errors  []struct {
		Message   string `json:"message"`
		ErrorCode string `json:"errorCode"`
	} `json:"errors"`
}

// CreateRecord POSTs a JSON payload to the creation endpoint for the given
// object type. The response carries only an id; callers needing the record's
// display name must fetch it with a follow-up query.
func (c *Client) CreateRecord(ctx context.Context, objectType string, payload map[string]interface{}) (*models.CreatedRecord, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter interrupted: %w", err)
	}

	host := strings.TrimSuffix(c.credential.InstanceHost, "/")
	endpoint := fmt.Sprintf("%s/services/data/%s/sobjects/%s", host, c.apiVersion, objectType)

	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s payload: %w", objectType, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute create request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	var result createResponse
	decodeLoose(body, &result)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !result.Success {
		message := fmt.Sprintf("HTTP %d", resp.StatusCode)
		if len(result.Errors) > 0 && result.Errors[0].Message != "" {
			message = result.Errors[0].Message
		}
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    message,
			Endpoint:   "sobjects/" + objectType,
		}
	}

	c.logger.Info().
		Str("object_type", objectType).
		Str("id", result.ID).
		Msg("Created record")

	return &models.CreatedRecord{
		ID:  result.ID,
		URL: host + "/" + result.ID,
	}, nil
}

// CreateWorkItem creates a work item and then fetches its server-assigned
// name by id. The two-step create-then-refetch sequence matches the remote
// API's response shape: the creation endpoint does not echo the name.
func (c *Client) CreateWorkItem(ctx context.Context, req CreateWorkItemRequest) (*models.WorkItem, error) {
	payload := map[string]interface{}{
		"Subject__c": req.Subject,
	}
	if req.Description != "" {
		payload["Description__c"] = req.Description
	}
	if req.Status != "" {
		payload["Status__c"] = req.Status
	}
	if req.AssigneeID != "" {
		payload["Assignee__c"] = req.AssigneeID
	}
	if req.ProductTagID != "" {
		payload["Product_Tag__c"] = req.ProductTagID
	}
	if req.EpicID != "" {
		payload["Epic__c"] = req.EpicID
	}

	created, err := c.CreateRecord(ctx, workItemObjectType, payload)
	if err != nil {
		return nil, err
	}

	items, err := c.Query(ctx, fmt.Sprintf(
		"SELECT %s FROM %s WHERE Id = '%s'",
		workItemFields, workItemObjectType, EscapeSOQL(created.ID)))
	if err != nil {
		return nil, fmt.Errorf("work item %s was created but could not be read back: %w", created.ID, err)
	}
	if len(items) == 0 {
		// The record exists; only the name lookup came back empty.
		return &models.WorkItem{ID: created.ID, Subject: req.Subject}, nil
	}

	return &items[0], nil
}

// CreateEpic creates an epic and reads back its name by id.
func (c *Client) CreateEpic(ctx context.Context, name string) (*models.Epic, error) {
	created, err := c.CreateRecord(ctx, epicObjectType, map[string]interface{}{
		"Name": name,
	})
	if err != nil {
		return nil, err
	}

	items, err := c.Query(ctx, fmt.Sprintf(
		"SELECT Id, Name FROM %s WHERE Id = '%s'",
		epicObjectType, EscapeSOQL(created.ID)))
	if err != nil {
		return nil, fmt.Errorf("epic %s was created but could not be read back: %w", created.ID, err)
	}

	epic := &models.Epic{ID: created.ID, Name: name}
	if len(items) > 0 {
		epic.Name = items[0].Name
	}

	return epic, nil
}
