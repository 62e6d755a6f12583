package ingest

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dangreenberg93/cin7-uploader/internal/application/erpdata"
	"github.com/dangreenberg93/cin7-uploader/internal/domain/client"
	"github.com/dangreenberg93/cin7-uploader/internal/domain/mapping"
	"github.com/dangreenberg93/cin7-uploader/internal/domain/order"
	"github.com/dangreenberg93/cin7-uploader/internal/domain/shared"
	"github.com/dangreenberg93/cin7-uploader/internal/infrastructure/csvimport"
)

// UploadService drives the CSV ingestion flow: store an upload,
// validate it against ERP reference data, submit it, and work failed
// results afterwards.
type UploadService struct {
	uploadRepo   order.UploadRepository
	resultRepo   order.ResultRepository
	settingsRepo client.SettingsRepository
	templateRepo mapping.TemplateRepository
	erp          *erpdata.Service
	processor    *Processor
	logger       *zap.Logger
}

// NewUploadService creates a new UploadService
func NewUploadService(
	uploadRepo order.UploadRepository,
	resultRepo order.ResultRepository,
	settingsRepo client.SettingsRepository,
	templateRepo mapping.TemplateRepository,
	erp *erpdata.Service,
	processor *Processor,
	logger *zap.Logger,
) *UploadService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UploadService{
		uploadRepo:   uploadRepo,
		resultRepo:   resultRepo,
		settingsRepo: settingsRepo,
		templateRepo: templateRepo,
		erp:          erp,
		processor:    processor,
		logger:       logger,
	}
}

// Create stores a new upload after checking the CSV parses at all.
func (s *UploadService) Create(ctx context.Context, req CreateUploadRequest) (*UploadResponse, error) {
	if _, _, err := parseCSV(string(req.Content)); err != nil {
		return nil, shared.NewDomainError("INVALID_CSV", err.Error())
	}

	source := req.Source
	if source == "" {
		source = order.SourceManual
	}
	upload, err := order.NewUpload(req.CredentialID, req.Filename, source, string(req.Content))
	if err != nil {
		return nil, err
	}
	if err := s.uploadRepo.Save(ctx, upload); err != nil {
		return nil, err
	}

	s.logger.Info("upload created",
		zap.String("upload_id", upload.ID.String()),
		zap.String("filename", upload.Filename),
		zap.String("source", string(source)))

	resp := ToUploadResponse(upload)
	return &resp, nil
}

// Get returns one upload.
func (s *UploadService) Get(ctx context.Context, id uuid.UUID) (*UploadResponse, error) {
	upload, err := s.uploadRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToUploadResponse(upload)
	return &resp, nil
}

// List returns uploads for a credential.
func (s *UploadService) List(ctx context.Context, credentialID uuid.UUID, filter shared.Filter) (shared.Paginated[UploadResponse], error) {
	uploads, err := s.uploadRepo.FindAllForCredential(ctx, credentialID, filter)
	if err != nil {
		return shared.Paginated[UploadResponse]{}, err
	}
	total, err := s.uploadRepo.Count(ctx, credentialID)
	if err != nil {
		return shared.Paginated[UploadResponse]{}, err
	}

	items := make([]UploadResponse, len(uploads))
	for i := range uploads {
		items[i] = ToUploadResponse(&uploads[i])
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

// Results returns the per-order results of an upload.
func (s *UploadService) Results(ctx context.Context, uploadID uuid.UUID) ([]ResultResponse, error) {
	results, err := s.resultRepo.FindByUpload(ctx, uploadID)
	if err != nil {
		return nil, err
	}
	out := make([]ResultResponse, len(results))
	for i := range results {
		out[i] = ToResultResponse(&results[i])
	}
	return out, nil
}

// Validate parses and validates an upload without submitting anything.
func (s *UploadService) Validate(ctx context.Context, uploadID uuid.UUID, templateID *uuid.UUID) (*ValidationReport, error) {
	upload, err := s.uploadRepo.FindByID(ctx, uploadID)
	if err != nil {
		return nil, err
	}
	orders, rowCount, err := s.validateUpload(ctx, upload, templateID)
	if err != nil {
		return nil, err
	}
	return buildValidationReport(upload.ID, rowCount, orders), nil
}

// Submit validates and submits an upload. Completed uploads are
// rejected; failed ones may run again.
func (s *UploadService) Submit(ctx context.Context, uploadID uuid.UUID, templateID *uuid.UUID) (*SubmitReport, error) {
	upload, err := s.uploadRepo.FindByID(ctx, uploadID)
	if err != nil {
		return nil, err
	}
	if upload.Status == order.UploadStatusCompleted || upload.Status == order.UploadStatusProcessing {
		return nil, shared.NewDomainError("INVALID_UPLOAD_STATE",
			fmt.Sprintf("Upload in status %s cannot be submitted", upload.Status))
	}

	orders, _, err := s.validateUpload(ctx, upload, templateID)
	if err != nil {
		return nil, err
	}
	settings, err := s.settingsFor(ctx, upload.CredentialID)
	if err != nil {
		return nil, err
	}
	gw, err := s.erp.GatewayFor(ctx, upload.CredentialID)
	if err != nil {
		return nil, err
	}

	report, err := s.processor.Submit(ctx, upload, orders, settings, gw)
	if err != nil {
		return nil, err
	}

	// New customers invalidate the cached customer list.
	for _, o := range orders {
		if o.NeedsCustomerCreation {
			s.erp.InvalidateHot(ctx, upload.CredentialID)
			break
		}
	}
	return report, nil
}

// RetryResult re-validates and re-submits one failed order.
func (s *UploadService) RetryResult(ctx context.Context, resultID uuid.UUID) (*ResultResponse, error) {
	result, err := s.resultRepo.FindByID(ctx, resultID)
	if err != nil {
		return nil, err
	}
	if err := result.MarkRetried(); err != nil {
		return nil, err
	}

	upload, err := s.uploadRepo.FindByID(ctx, result.UploadID)
	if err != nil {
		return nil, err
	}
	orders, _, err := s.validateUpload(ctx, upload, nil)
	if err != nil {
		return nil, err
	}

	var target *order.LogicalOrder
	for _, o := range orders {
		if o.Key == result.OrderKey {
			target = o
			break
		}
	}
	if target == nil {
		return nil, shared.NewDomainError("ORDER_NOT_FOUND",
			fmt.Sprintf("Order %s no longer present in the upload", result.OrderKey))
	}

	settings, err := s.settingsFor(ctx, upload.CredentialID)
	if err != nil {
		return nil, err
	}
	gw, err := s.erp.GatewayFor(ctx, upload.CredentialID)
	if err != nil {
		return nil, err
	}

	if !target.IsSubmittable() {
		result.MarkFailed(order.ErrorTypeValidation, blockingSummary(target))
	} else if err := s.processor.submitOrder(ctx, target, settings, gw, result); err != nil {
		s.logger.Warn("retry failed",
			zap.String("result_id", result.ID.String()),
			zap.Error(err))
	}

	if err := s.resultRepo.Save(ctx, result); err != nil {
		return nil, err
	}
	resp := ToResultResponse(result)
	return &resp, nil
}

// ResolveResult marks a failed result resolved by hand.
func (s *UploadService) ResolveResult(ctx context.Context, resultID uuid.UUID, resolvedBy string) (*ResultResponse, error) {
	result, err := s.resultRepo.FindByID(ctx, resultID)
	if err != nil {
		return nil, err
	}
	if err := result.Resolve(resolvedBy); err != nil {
		return nil, err
	}
	if err := s.resultRepo.Save(ctx, result); err != nil {
		return nil, err
	}
	resp := ToResultResponse(result)
	return &resp, nil
}

// ReviewResult flags a failed result as reviewed.
func (s *UploadService) ReviewResult(ctx context.Context, resultID uuid.UUID) (*ResultResponse, error) {
	result, err := s.resultRepo.FindByID(ctx, resultID)
	if err != nil {
		return nil, err
	}
	result.MarkReviewed()
	if err := s.resultRepo.Save(ctx, result); err != nil {
		return nil, err
	}
	resp := ToResultResponse(result)
	return &resp, nil
}

// ListFailedResults returns failed results, optionally unresolved only.
func (s *UploadService) ListFailedResults(ctx context.Context, filter shared.Filter, unresolvedOnly bool) ([]ResultResponse, error) {
	var (
		results []order.Result
		err     error
	)
	if unresolvedOnly {
		results, err = s.resultRepo.FindUnresolvedFailed(ctx, filter)
	} else {
		results, err = s.resultRepo.FindFailed(ctx, filter)
	}
	if err != nil {
		return nil, err
	}

	out := make([]ResultResponse, len(results))
	for i := range results {
		out[i] = ToResultResponse(&results[i])
	}
	return out, nil
}

// validateUpload parses the stored CSV, picks a column mapping, and
// runs validation against the cached ERP data.
func (s *UploadService) validateUpload(ctx context.Context, upload *order.Upload, templateID *uuid.UUID) ([]*order.LogicalOrder, int, error) {
	rows, headers, err := parseCSV(upload.CSVContent)
	if err != nil {
		return nil, 0, shared.NewDomainError("INVALID_CSV", err.Error())
	}

	settings, err := s.settingsFor(ctx, upload.CredentialID)
	if err != nil {
		return nil, 0, err
	}
	columnMapping, err := s.mappingFor(ctx, upload.CredentialID, templateID, headers)
	if err != nil {
		return nil, 0, err
	}
	if missing := mapping.MissingRequired(columnMapping, settings.RequireCustomerReference); len(missing) > 0 {
		names := make([]string, len(missing))
		for i, f := range missing {
			names[i] = string(f)
		}
		return nil, 0, shared.NewDomainError("UNMAPPED_FIELDS",
			"No column mapped for: "+strings.Join(names, ", "))
	}

	customers, err := s.erp.Customers(ctx, upload.CredentialID)
	if err != nil {
		return nil, 0, err
	}
	products, err := s.erp.Products(ctx, upload.CredentialID)
	if err != nil {
		return nil, 0, err
	}

	validator := NewValidator(NewLookups(customers, products), settings)
	return validator.Validate(rows, columnMapping), len(rows), nil
}

// mappingFor picks the column mapping: explicit template, then the
// credential default, then header auto-detection.
func (s *UploadService) mappingFor(ctx context.Context, credentialID uuid.UUID, templateID *uuid.UUID, headers []string) (map[string]mapping.Field, error) {
	if templateID != nil {
		tmpl, err := s.templateRepo.FindByID(ctx, *templateID)
		if err != nil {
			return nil, err
		}
		return tmpl.ColumnMapping, nil
	}
	tmpl, err := s.templateRepo.FindDefault(ctx, credentialID)
	if err == nil {
		return tmpl.ColumnMapping, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	return mapping.AutoDetect(headers), nil
}

func (s *UploadService) settingsFor(ctx context.Context, credentialID uuid.UUID) (*client.Settings, error) {
	settings, err := s.settingsRepo.FindByCredential(ctx, credentialID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return client.DefaultSettings(credentialID), nil
		}
		return nil, err
	}
	return settings, nil
}

func parseCSV(content string) ([]*csvimport.Row, []string, error) {
	parser, err := csvimport.ParseFromBytes([]byte(content))
	if err != nil {
		return nil, nil, err
	}
	if err := parser.ParseHeader(); err != nil {
		return nil, nil, err
	}
	rows, err := parser.ReadAllRows()
	if err != nil {
		return nil, nil, err
	}
	return rows, parser.Headers(), nil
}

func buildValidationReport(uploadID uuid.UUID, rowCount int, orders []*order.LogicalOrder) *ValidationReport {
	report := &ValidationReport{
		UploadID:    uploadID,
		TotalRows:   rowCount,
		TotalOrders: len(orders),
		Orders:      make([]OrderReport, len(orders)),
	}
	for i, o := range orders {
		submittable := o.IsSubmittable()
		if submittable {
			report.ReadyOrders++
		} else {
			report.BlockedOrders++
		}
		if o.NeedsCustomerCreation {
			report.NewCustomers++
		}
		if o.NeedsAddressCreation {
			report.NewAddresses++
		}
		report.Orders[i] = OrderReport{
			OrderKey:              o.Key,
			RowNumbers:            o.RowNumbers,
			CustomerName:          o.CustomerName,
			LineCount:             len(o.Lines),
			Total:                 o.Total().String(),
			FieldStatuses:         o.FieldStatuses,
			Warnings:              o.Warnings,
			ResolvedCustomerID:    o.ResolvedCustomerID,
			ResolvedAddressID:     o.ResolvedAddressID,
			NeedsCustomerCreation: o.NeedsCustomerCreation,
			NeedsAddressCreation:  o.NeedsAddressCreation,
			Submittable:           submittable,
		}
	}
	return report
}
