package webhook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientNameFromSubject(t *testing.T) {
	tests := []struct {
		name    string
		subject string
		want    string
		ok      bool
	}{
		{"scheduled report form", "Scheduled Report -> Acme Retail Daily Sales Orders", "Acme Retail", true},
		{"extra whitespace", "Scheduled Report ->   Acme Retail   Daily Sales Orders", "Acme Retail", true},
		{"bare form", "Acme Retail Daily Sales Orders", "Acme Retail", true},
		{"colon form", "Sales Orders: Acme Retail", "Acme Retail", true},
		{"unrelated subject", "Weekly inventory report", "", false},
		{"empty subject", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ClientNameFromSubject(tt.subject)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMissivePayload_Normalize(t *testing.T) {
	t.Run("prefers latest_message", func(t *testing.T) {
		p := &MissivePayload{
			Subject: "outer",
			LatestMessage: &message{
				Subject:     "inner",
				Attachments: []Attachment{{FileName: "orders.csv", URL: "https://x/y"}},
			},
		}
		subject, attachments := p.Normalize()
		assert.Equal(t, "inner", subject)
		require.Len(t, attachments, 1)
		assert.Equal(t, "orders.csv", attachments[0].FileName)
	})

	t.Run("falls back to root fields", func(t *testing.T) {
		p := &MissivePayload{
			Subject:     "root subject",
			Attachments: []Attachment{{FileName: "a.csv"}},
		}
		subject, attachments := p.Normalize()
		assert.Equal(t, "root subject", subject)
		assert.Len(t, attachments, 1)
	})
}

func TestFirstCSV(t *testing.T) {
	t.Run("selects by extension, subtype, or media type", func(t *testing.T) {
		attachments := []Attachment{
			{FileName: "report.pdf", URL: "https://x/1", SubType: "pdf"},
			{FileName: "orders.csv", URL: "https://x/2", SubType: "plain"},
		}
		got, ok := FirstCSV(attachments)
		require.True(t, ok)
		assert.Equal(t, "orders.csv", got.FileName)

		bySubType := []Attachment{{FileName: "data.txt", URL: "https://x/3", SubType: "csv"}}
		got, ok = FirstCSV(bySubType)
		require.True(t, ok)
		assert.Equal(t, "data.txt", got.FileName)

		byMedia := []Attachment{{FileName: "data.bin", URL: "https://x/4", MediaType: "text/csv"}}
		_, ok = FirstCSV(byMedia)
		assert.True(t, ok)
	})

	t.Run("skips attachments without a URL", func(t *testing.T) {
		_, ok := FirstCSV([]Attachment{{FileName: "orders.csv"}})
		assert.False(t, ok)
	})

	t.Run("no csv present", func(t *testing.T) {
		_, ok := FirstCSV([]Attachment{{FileName: "report.pdf", URL: "https://x/1"}})
		assert.False(t, ok)
	})
}
