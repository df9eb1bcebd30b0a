package poseidon

import "github.com/poseidon-tools/farmer/internal/domain"

// Wire types for responses whose shape differs from the domain
// entities. Fields mirror the remote service's JSON exactly.

// campaignPage is the paginated campaign listing response.
type campaignPage struct {
	Items []domain.Campaign `json:"items"`
}

// scriptResponse is the next-script response: the assignment identifier
// plus a nested script record.
type scriptResponse struct {
	AssignmentID string `json:"assignment_id"`
	Script       struct {
		Content string `json:"content"`
	} `json:"script"`
}

// presignRequest is the body of the presigned-upload request.
type presignRequest struct {
	ContentType        string `json:"content_type"`
	FileName           string `json:"file_name"`
	ScriptAssignmentID string `json:"script_assignment_id"`
}

// ipResponse is the IP-echo service payload.
type ipResponse struct {
	IP string `json:"ip"`
}
