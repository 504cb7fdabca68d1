package linkgate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTokenValidate(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name  string
		token *Token
		ok    bool
	}{
		{"well formed", &Token{ID: "Ab3dEf9h", Campaign: "Launch", CreatedAt: now, ExpiresAt: now.AddDate(0, 0, 30)}, true},
		{"nil", nil, false},
		{"missing id", &Token{Campaign: "Launch", CreatedAt: now, ExpiresAt: now.AddDate(0, 0, 30)}, false},
		{"missing campaign", &Token{ID: "Ab3dEf9h", CreatedAt: now, ExpiresAt: now.AddDate(0, 0, 30)}, false},
		{"expiry before creation", &Token{ID: "Ab3dEf9h", Campaign: "Launch", CreatedAt: now, ExpiresAt: now.Add(-time.Hour)}, false},
		{"no expiry set", &Token{ID: "Ab3dEf9h", Campaign: "Launch", CreatedAt: now}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.token.Validate()
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrMalformedRecord)
			}
		})
	}
}

func TestEventValidate(t *testing.T) {
	good := &Event{ID: "evt-1", Token: "Ab3dEf9h", TS: time.Now(), Type: EventOpen}
	assert.NoError(t, good.Validate())

	assert.ErrorIs(t, (&Event{Token: "x", Type: EventOpen}).Validate(), ErrMalformedRecord)
	assert.ErrorIs(t, (&Event{ID: "e", Type: EventOpen}).Validate(), ErrMalformedRecord)
	assert.ErrorIs(t, (&Event{ID: "e", Token: "x", Type: "click"}).Validate(), ErrMalformedRecord)
}
