package service

import (
	"context"

	"github.com/poseidon-tools/farmer/internal/domain"
)

// Gateway is the remote service surface the pipeline drives. The
// poseidon platform package provides the production implementation;
// tests substitute a mock.
// Version: 1.0
type Gateway interface {
	// Profile fetches the account record. On failure the sentinel
	// unknown profile is returned alongside the error.
	Profile(ctx context.Context) (domain.Profile, error)

	// Campaigns lists the eligible campaigns for the account. A
	// failure aborts further processing of the account.
	Campaigns(ctx context.Context) ([]domain.Campaign, error)

	// Quota fetches the authoritative remaining/cap pair for one
	// campaign. On failure the returned quota is exhausted.
	Quota(ctx context.Context, campaignID string) (domain.Quota, error)

	// NextScript fetches one fresh script assignment; nil means no
	// work is available this attempt.
	NextScript(ctx context.Context, languageCode, campaignID string) (*domain.ScriptAssignment, error)

	// PresignUpload requests an upload slot; nil means the attempt
	// failed.
	PresignUpload(ctx context.Context, campaignID, fileName, assignmentID string) (*domain.PresignedSlot, error)

	// UploadBinary PUTs the audio payload to the presigned URL.
	UploadBinary(ctx context.Context, presignedURL string, payload []byte) error

	// ConfirmUpload finalizes the upload; nil means the attempt must
	// be counted failed even though the PUT succeeded.
	ConfirmUpload(ctx context.Context, confirmation domain.UploadConfirmation) (*domain.UploadReceipt, error)

	// PublicIP resolves the egress address through the account's
	// proxy. Diagnostic only.
	PublicIP(ctx context.Context) (string, error)
}

// GatewayFactory binds a bearer token and proxy URI into an
// account-scoped Gateway. An empty proxy URI means direct connection.
type GatewayFactory func(token, proxyURI string) (Gateway, error)
