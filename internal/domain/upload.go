package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// AudioContentType is the content type the remote service expects for
// voice submissions.
const AudioContentType = "audio/webm"

// PresignedSlot is the server-issued destination for one direct upload:
// a temporary URL, the object key under which the bytes land, and the
// file identifier used by the confirmation call.
type PresignedSlot struct {
	URL       string `json:"presigned_url"`
	ObjectKey string `json:"object_key"`
	FileID    string `json:"file_id"`
}

// UploadArtifact is the audio payload for a single attempt together
// with its generated file name. It exists only for the duration of one
// attempt and is discarded after the confirm step settles.
type UploadArtifact struct {
	FileName string
	Payload  []byte
}

// NewUploadArtifact builds an artifact with a time-based
// collision-resistant file name.
func NewUploadArtifact(payload []byte, now time.Time) UploadArtifact {
	return UploadArtifact{
		FileName: fmt.Sprintf("audio_recording_%d.webm", now.UnixMilli()),
		Payload:  payload,
	}
}

// SHA256Hex returns the hex digest of the payload, used by the remote
// service for integrity confirmation.
func (a UploadArtifact) SHA256Hex() string {
	sum := sha256.Sum256(a.Payload)
	return hex.EncodeToString(sum[:])
}

// Size returns the payload length in bytes.
func (a UploadArtifact) Size() int {
	return len(a.Payload)
}

// UploadConfirmation is the metadata finalizing a presigned upload
// server-side. Both the binary PUT and this confirmation must succeed
// before an upload counts as completed.
type UploadConfirmation struct {
	ContentType string `json:"content_type"`
	ObjectKey   string `json:"object_key"`
	SHA256Hash  string `json:"sha256_hash"`
	Filesize    int    `json:"filesize"`
	FileName    string `json:"file_name"`
	FileID      string `json:"virtual_id"`
	CampaignID  string `json:"campaign_id"`
}

// UploadReceipt is the remote confirmation record returned when an
// upload is finalized. Its presence is what marks an attempt completed;
// a successful binary PUT alone does not.
type UploadReceipt struct {
	ID        string `json:"virtual_id"`
	ObjectKey string `json:"object_key"`
}

// NewUploadConfirmation assembles the confirmation payload for an
// artifact uploaded into the given slot.
func NewUploadConfirmation(artifact UploadArtifact, slot PresignedSlot, campaignID string) UploadConfirmation {
	return UploadConfirmation{
		ContentType: AudioContentType,
		ObjectKey:   slot.ObjectKey,
		SHA256Hash:  artifact.SHA256Hex(),
		Filesize:    artifact.Size(),
		FileName:    artifact.FileName,
		FileID:      slot.FileID,
		CampaignID:  campaignID,
	}
}
