// Package domain defines the core business entities used across the
// application: campaigns, quotas, script assignments, upload artifacts,
// and per-account attempt accounting. Entities here carry no transport
// concerns; the platform packages map wire formats onto them.
package domain
