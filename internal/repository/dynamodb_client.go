package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"portfolio-backend/internal/domain"
)

const (
	pkContact          = "CONTACT"
	skPrefixSubmission = "SUB#"
	ttlDuration        = 90 * 24 * time.Hour // 90-day retention
)

// dynamodbAPI is the minimal DynamoDB interface required by Client.
// Defined here for testability.
type dynamodbAPI interface {
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// Client wraps a DynamoDB table holding the contact-submission audit log.
type Client struct {
	api       dynamodbAPI
	tableName string
}

// New creates a new repository Client.
func New(api dynamodbAPI, tableName string) (*Client, error) {
	if api == nil {
		return nil, errors.New("repository: api must not be nil")
	}
	if strings.TrimSpace(tableName) == "" {
		return nil, errors.New("repository: table name must not be empty")
	}
	return &Client{api: api, tableName: tableName}, nil
}

// submissionSK returns the sort key for a submission: timestamp first so the
// partition scans chronologically, submission id for uniqueness.
func submissionSK(ts time.Time, submissionID string) string {
	return skPrefixSubmission + ts.UTC().Format(time.RFC3339Nano) + "#" + submissionID
}

// SaveSubmission persists one contact submission. The conditional put means a
// replayed write can never overwrite an existing record.
func (c *Client) SaveSubmission(ctx context.Context, sub domain.ContactSubmission, submissionID string) error {
	if strings.TrimSpace(submissionID) == "" {
		return errors.New("repository: SaveSubmission: submission id is required")
	}

	rec := NewContactRecord(sub, submissionID)
	_, err := c.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(c.tableName),
		Item:                contactItem(rec),
		ConditionExpression: aws.String("attribute_not_exists(PK) AND attribute_not_exists(SK)"),
	})
	if err != nil {
		return fmt.Errorf("repository: SaveSubmission: %w", err)
	}
	return nil
}

// NewContactRecord stamps PK/SK/TTL for a submission at the current time.
func NewContactRecord(sub domain.ContactSubmission, submissionID string) domain.ContactRecord {
	now := time.Now().UTC()
	return domain.ContactRecord{
		PK:           pkContact,
		SK:           submissionSK(now, submissionID),
		SubmissionID: submissionID,
		Name:         sub.Name,
		Email:        sub.Email,
		Subject:      sub.Subject,
		Message:      sub.Message,
		ReceivedAt:   now.Format(time.RFC3339),
		TTL:          now.Add(ttlDuration).Unix(),
	}
}

func contactItem(rec domain.ContactRecord) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK":           &types.AttributeValueMemberS{Value: rec.PK},
		"SK":           &types.AttributeValueMemberS{Value: rec.SK},
		"submissionId": &types.AttributeValueMemberS{Value: rec.SubmissionID},
		"name":         &types.AttributeValueMemberS{Value: rec.Name},
		"email":        &types.AttributeValueMemberS{Value: rec.Email},
		"subject":      &types.AttributeValueMemberS{Value: rec.Subject},
		"message":      &types.AttributeValueMemberS{Value: rec.Message},
		"receivedAt":   &types.AttributeValueMemberS{Value: rec.ReceivedAt},
		"ttl":          &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", rec.TTL)},
	}
}
