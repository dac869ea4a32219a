package lifecycle

import (
	"testing"

	"portal_orcamentos/internal/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, PolicyPermissive, p)

	p, err = ParsePolicy(" STRICT ")
	require.NoError(t, err)
	assert.Equal(t, PolicyStrict, p)

	_, err = ParsePolicy("whatever")
	assert.Error(t, err)
}

func TestPermissivePolicy(t *testing.T) {
	p := PolicyPermissive
	assert.NoError(t, p.Check(entities.StatusFinalized, entities.StatusUnderReview))
	assert.NoError(t, p.Check(entities.StatusUnderReview, entities.StatusReadyForPickup))
	assert.ErrorIs(t, p.Check(entities.StatusUnderReview, "Enviado"), ErrUnknownStatus)
}

func TestStrictPolicy(t *testing.T) {
	p := PolicyStrict
	cases := []struct {
		name    string
		from    entities.QuoteStatus
		to      entities.QuoteStatus
		wantErr error
	}{
		{"next step", entities.StatusConfirmed, entities.StatusAwaitingPayment, nil},
		{"review loop forward", entities.StatusUnderReview, entities.StatusQuoteUpdated, nil},
		{"review loop back", entities.StatusQuoteUpdated, entities.StatusUnderReview, nil},
		{"skip ahead", entities.StatusUnderReview, entities.StatusFinalized, ErrTransitionBlocked},
		{"backwards", entities.StatusOrderPicked, entities.StatusConfirmed, ErrTransitionBlocked},
		{"out of terminal", entities.StatusFinalized, entities.StatusReadyForPickup, ErrTransitionBlocked},
		{"cancel via transition", entities.StatusConfirmed, entities.StatusCancelled, ErrTransitionBlocked},
		{"unknown target", entities.StatusConfirmed, "Enviado", ErrUnknownStatus},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := p.Check(tc.from, tc.to)
			if tc.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}
