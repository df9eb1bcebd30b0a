package domain

// Profile is the remote account record returned by the profile
// endpoint. UnknownProfile is returned when the fetch fails so callers
// always have something to render.
type Profile struct {
	Name   string `json:"name"`
	Points int    `json:"points"`
	Wallet string `json:"dynamic_wallet"`
}

// UnknownProfile is the sentinel record used when the profile fetch
// fails. It never aborts account processing by itself; the caller
// decides based on the accompanying error.
func UnknownProfile() Profile {
	return Profile{Name: "Unknown", Wallet: "N/A"}
}

// AttemptCounters accumulates upload attempt accounting for one
// account. Counters reset at the start of each account's processing and
// are never persisted.
type AttemptCounters struct {
	Attempted int `json:"attempted"`
	Completed int `json:"completed"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
}

// Add merges another set of counters into this one.
func (c *AttemptCounters) Add(other AttemptCounters) {
	c.Attempted += other.Attempted
	c.Completed += other.Completed
	c.Skipped += other.Skipped
	c.Failed += other.Failed
}

// AccountSummary is the per-account processing outcome emitted at the
// end of each account's run and exposed on the status endpoint.
type AccountSummary struct {
	Index         int             `json:"index"`
	Authenticated bool            `json:"authenticated"`
	AuthError     string          `json:"auth_error,omitempty"`
	ProfileName   string          `json:"profile_name"`
	Points        int             `json:"points"`
	PublicIP      string          `json:"public_ip,omitempty"`
	Campaigns     int             `json:"campaigns_scanned"`
	Counters      AttemptCounters `json:"counters"`
}
