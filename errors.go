package linkgate

import "errors"

var (
	// ErrTokenNotFound is returned by token stores when no record exists
	// for the given id.
	ErrTokenNotFound = errors.New("token not found")

	// ErrCampaignRequired is returned when token issuance is attempted
	// without a campaign label.
	ErrCampaignRequired = errors.New("campaign name is required")

	// ErrMalformedRecord is returned by store boundaries for rows that
	// fail schema validation.
	ErrMalformedRecord = errors.New("malformed record")
)
