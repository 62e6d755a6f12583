package webhook

import (
	"regexp"
	"strings"
)

// Attachment is one file attached to an inbound email.
type Attachment struct {
	FileName  string `json:"filename"`
	URL       string `json:"url"`
	MediaType string `json:"media_type"`
	SubType   string `json:"sub_type"`
	Size      int64  `json:"size"`
}

// message is the nested message shape Missive sends.
type message struct {
	Subject     string       `json:"subject"`
	Attachments []Attachment `json:"attachments"`
}

// MissivePayload is the inbound webhook body. Missive nests the mail
// under latest_message; older rule shapes put subject and attachments
// at the root. Normalize() irons out both.
type MissivePayload struct {
	Subject       string       `json:"subject"`
	Attachments   []Attachment `json:"attachments"`
	LatestMessage *message     `json:"latest_message"`
}

// Normalize returns the effective subject and attachment list,
// preferring the nested latest_message.
func (p *MissivePayload) Normalize() (string, []Attachment) {
	subject := strings.TrimSpace(p.Subject)
	attachments := p.Attachments
	if p.LatestMessage != nil {
		if s := strings.TrimSpace(p.LatestMessage.Subject); s != "" {
			subject = s
		}
		if len(p.LatestMessage.Attachments) > 0 {
			attachments = p.LatestMessage.Attachments
		}
	}
	return subject, attachments
}

// IsCSV reports whether the attachment looks like a CSV file.
func (a Attachment) IsCSV() bool {
	if strings.EqualFold(a.SubType, "csv") {
		return true
	}
	if strings.Contains(strings.ToLower(a.MediaType), "csv") {
		return true
	}
	return strings.HasSuffix(strings.ToLower(a.FileName), ".csv")
}

// FirstCSV picks the first CSV attachment.
func FirstCSV(attachments []Attachment) (Attachment, bool) {
	for _, a := range attachments {
		if a.IsCSV() && a.URL != "" {
			return a, true
		}
	}
	return Attachment{}, false
}

var subjectPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Scheduled Report\s*->\s*(.+?)\s*Daily Sales Orders`),
	regexp.MustCompile(`(?i)^(.+?)\s+Daily Sales Orders`),
	regexp.MustCompile(`(?i)Sales Orders?\s*[-:]\s*(.+)$`),
}

// ClientNameFromSubject extracts the client name from a report email
// subject. The scheduled-report form is tried first, then looser
// fallbacks.
func ClientNameFromSubject(subject string) (string, bool) {
	for _, pattern := range subjectPatterns {
		if m := pattern.FindStringSubmatch(subject); m != nil {
			name := strings.TrimSpace(m[1])
			if name != "" {
				return name, true
			}
		}
	}
	return "", false
}
