package webhook

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/dangreenberg93/cin7-uploader/internal/application/ingest"
	"github.com/dangreenberg93/cin7-uploader/internal/domain/client"
	"github.com/dangreenberg93/cin7-uploader/internal/domain/matching"
	"github.com/dangreenberg93/cin7-uploader/internal/domain/order"
	"github.com/dangreenberg93/cin7-uploader/internal/domain/shared"
	"github.com/dangreenberg93/cin7-uploader/internal/infrastructure/config"
)

// ProcessReport is the outcome of one webhook delivery.
type ProcessReport struct {
	ClientName string                `json:"client_name"`
	Filename   string                `json:"filename"`
	Upload     ingest.UploadResponse `json:"upload"`
	Submit     *ingest.SubmitReport  `json:"submit,omitempty"`
}

// QueueEntry is one webhook upload with its per-order results.
type QueueEntry struct {
	Upload  ingest.UploadResponse   `json:"upload"`
	Results []ingest.ResultResponse `json:"results"`
}

// Service turns inbound report emails into submitted uploads. The
// subject names the client; the CSV attachment is downloaded and runs
// the full parse, validate, submit pipeline.
type Service struct {
	clientRepo     client.ClientRepository
	credentialRepo client.CredentialRepository
	uploadRepo     order.UploadRepository
	uploads        *ingest.UploadService
	httpClient     *http.Client
	cfg            config.WebhookConfig
	logger         *zap.Logger
}

// NewService creates a webhook Service
func NewService(
	clientRepo client.ClientRepository,
	credentialRepo client.CredentialRepository,
	uploadRepo order.UploadRepository,
	uploads *ingest.UploadService,
	cfg config.WebhookConfig,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		clientRepo:     clientRepo,
		credentialRepo: credentialRepo,
		uploadRepo:     uploadRepo,
		uploads:        uploads,
		httpClient:     &http.Client{Timeout: cfg.DownloadTimeout},
		cfg:            cfg,
		logger:         logger,
	}
}

// Process handles one webhook delivery end to end.
func (s *Service) Process(ctx context.Context, payload *MissivePayload) (*ProcessReport, error) {
	subject, attachments := payload.Normalize()
	if subject == "" {
		return nil, shared.NewDomainError("INVALID_WEBHOOK", "Webhook payload has no subject")
	}

	clientName, ok := ClientNameFromSubject(subject)
	if !ok {
		return nil, shared.NewDomainError("UNKNOWN_CLIENT",
			fmt.Sprintf("Cannot extract a client name from subject %q", subject))
	}

	c, err := s.findClient(ctx, clientName)
	if err != nil {
		return nil, err
	}
	if !c.Active {
		return nil, shared.NewDomainError("CLIENT_INACTIVE",
			fmt.Sprintf("Client %s is inactive", c.Name))
	}

	cred, err := s.credentialRepo.FindDefaultForClient(ctx, c.ID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NO_CREDENTIAL",
				fmt.Sprintf("Client %s has no ERP credential", c.Name))
		}
		return nil, err
	}

	attachment, ok := FirstCSV(attachments)
	if !ok {
		return nil, shared.NewDomainError("NO_CSV_ATTACHMENT", "Webhook payload has no CSV attachment")
	}

	content, err := s.download(ctx, attachment)
	if err != nil {
		return nil, err
	}

	uploadResp, err := s.uploads.Create(ctx, ingest.CreateUploadRequest{
		CredentialID: cred.ID,
		Filename:     attachment.FileName,
		Content:      content,
		Source:       order.SourceWebhook,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("webhook upload created",
		zap.String("client", c.Name),
		zap.String("upload_id", uploadResp.ID.String()),
		zap.String("filename", attachment.FileName))

	report := &ProcessReport{
		ClientName: c.Name,
		Filename:   attachment.FileName,
		Upload:     *uploadResp,
	}

	submit, err := s.uploads.Submit(ctx, uploadResp.ID, nil)
	if err != nil {
		return nil, err
	}
	report.Submit = submit

	if refreshed, err := s.uploads.Get(ctx, uploadResp.ID); err == nil {
		report.Upload = *refreshed
	}
	return report, nil
}

// Queue returns recent webhook uploads with their results.
func (s *Service) Queue(ctx context.Context, limit int) ([]QueueEntry, error) {
	uploads, err := s.uploadRepo.FindRecentBySource(ctx, order.SourceWebhook, limit)
	if err != nil {
		return nil, err
	}

	entries := make([]QueueEntry, len(uploads))
	for i := range uploads {
		results, err := s.uploads.Results(ctx, uploads[i].ID)
		if err != nil {
			return nil, err
		}
		entries[i] = QueueEntry{
			Upload:  ingest.ToUploadResponse(&uploads[i]),
			Results: results,
		}
	}
	return entries, nil
}

// findClient matches the extracted name: exact, then casefolded scan,
// then fuzzy at the customer threshold.
func (s *Service) findClient(ctx context.Context, name string) (*client.Client, error) {
	c, err := s.clientRepo.FindByName(ctx, name)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	active, err := s.clientRepo.FindActive(ctx)
	if err != nil {
		return nil, err
	}
	for i := range active {
		if strings.EqualFold(active[i].Name, name) {
			return &active[i], nil
		}
	}

	names := make([]string, len(active))
	for i := range active {
		names[i] = active[i].Name
	}
	if match, ok := matching.BestMatch(name, names, matching.CustomerThreshold); ok {
		s.logger.Info("client matched fuzzily",
			zap.String("subject_name", name),
			zap.String("client", active[match.Index].Name))
		return &active[match.Index], nil
	}

	return nil, shared.NewDomainError("UNKNOWN_CLIENT",
		fmt.Sprintf("No client registered for %q", name))
}

func (s *Service) download(ctx context.Context, attachment Attachment) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, attachment.URL, nil)
	if err != nil {
		return nil, shared.NewDomainError("DOWNLOAD_FAILED", err.Error())
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, shared.NewDomainError("DOWNLOAD_FAILED", err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, shared.NewDomainError("DOWNLOAD_FAILED",
			fmt.Sprintf("Attachment download returned status %d", resp.StatusCode))
	}

	maxBytes := s.cfg.MaxAttachmentMB * 1024 * 1024
	if maxBytes <= 0 {
		maxBytes = 20 * 1024 * 1024
	}
	content, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes+1))
	if err != nil {
		return nil, shared.NewDomainError("DOWNLOAD_FAILED", err.Error())
	}
	if int64(len(content)) > maxBytes {
		return nil, shared.NewDomainError("ATTACHMENT_TOO_LARGE",
			fmt.Sprintf("Attachment exceeds %d MB", s.cfg.MaxAttachmentMB))
	}
	return content, nil
}
