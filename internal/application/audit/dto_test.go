package audit

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/occtelecom/backend/internal/domain/audit"
)

func TestCommunicationResponseEmbedsMetadataAsJSON(t *testing.T) {
	// Metadata from a template the decoder does not know must still
	// reach clients as structured JSON with its keys intact, not as an
	// escaped string
	comm := &audit.Communication{
		CustomerID: uuid.New(),
		Kind:       audit.CommunicationKindEmail,
		Status:     audit.CommunicationStatusSent,
		Metadata:   `{"template":"winback-2024","offer_code":"WB15","channel_hint":"promo"}`,
	}

	body, err := json.Marshal(ToCommunicationResponse(comm))
	require.NoError(t, err)

	assert.Contains(t, string(body), `"metadata":{"template":"winback-2024"`)
	assert.NotContains(t, string(body), `\"template\"`)

	var decoded struct {
		Metadata map[string]any `json:"metadata"`
	}
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Equal(t, "WB15", decoded.Metadata["offer_code"])
	assert.Equal(t, "promo", decoded.Metadata["channel_hint"])
}

func TestEntryResponseEmbedsDetailAsJSON(t *testing.T) {
	entry, err := audit.NewSystemEntry(audit.ActionLateFeeApplied, "invoice", uuid.New(),
		audit.MarshalDetail(map[string]string{"reason": "grace period elapsed"}))
	require.NoError(t, err)

	body, err := json.Marshal(ToEntryResponse(entry))
	require.NoError(t, err)

	assert.Contains(t, string(body), `"detail":{"reason":"grace period elapsed"}`)
}
