package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dangreenberg93/cin7-uploader/internal/application/erpdata"
	"github.com/dangreenberg93/cin7-uploader/internal/domain/client"
	"github.com/dangreenberg93/cin7-uploader/internal/domain/order"
)

// Processor submits validated logical orders to the ERP one at a time,
// recording a Result row per order. A created Sale is never rolled
// back; a failure after it leaves the SaleID on the result.
type Processor struct {
	uploadRepo order.UploadRepository
	resultRepo order.ResultRepository
	logger     *zap.Logger

	// sleep is swapped out in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewProcessor creates a Processor
func NewProcessor(uploadRepo order.UploadRepository, resultRepo order.ResultRepository, logger *zap.Logger) *Processor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Processor{
		uploadRepo: uploadRepo,
		resultRepo: resultRepo,
		logger:     logger,
		sleep:      sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Submit runs the pipeline for one upload. Orders that failed
// validation produce failed results without touching the ERP.
func (p *Processor) Submit(
	ctx context.Context,
	upload *order.Upload,
	orders []*order.LogicalOrder,
	settings *client.Settings,
	gw erpdata.ERPGateway,
) (*SubmitReport, error) {
	if err := upload.Start(len(orders)); err != nil {
		return nil, err
	}
	if err := p.uploadRepo.Save(ctx, upload); err != nil {
		return nil, err
	}

	report := &SubmitReport{
		UploadID:    upload.ID,
		TotalOrders: len(orders),
	}

	for i, o := range orders {
		result, err := p.newResult(upload, o)
		if err != nil {
			return nil, err
		}

		if !o.IsSubmittable() {
			result.MarkFailed(order.ErrorTypeValidation, blockingSummary(o))
			report.FailureCount++
			report.SkippedCount++
			upload.AppendError(fmt.Sprintf("%s: %s", o.Key, result.ErrorMessage))
		} else if err := p.submitOrder(ctx, o, settings, gw, result); err != nil {
			report.FailureCount++
			upload.AppendError(fmt.Sprintf("%s: %s", o.Key, result.ErrorMessage))
			p.logger.Warn("order submission failed",
				zap.String("upload_id", upload.ID.String()),
				zap.String("order_key", o.Key),
				zap.String("error_type", string(result.ErrorType)),
				zap.Error(err))
		} else {
			report.SuccessCount++
		}

		if err := p.resultRepo.Save(ctx, result); err != nil {
			return nil, err
		}
		report.Results = append(report.Results, ToResultResponse(result))

		if i < len(orders)-1 {
			if err := p.sleep(ctx, settings.OrderDelay); err != nil {
				upload.Fail("submission interrupted")
				if saveErr := p.uploadRepo.Save(ctx, upload); saveErr != nil {
					p.logger.Error("upload save failed after interrupt", zap.Error(saveErr))
				}
				return report, err
			}
		}
	}

	if err := upload.Complete(report.SuccessCount, report.FailureCount); err != nil {
		return nil, err
	}
	if err := p.uploadRepo.Save(ctx, upload); err != nil {
		return nil, err
	}

	p.logger.Info("upload submitted",
		zap.String("upload_id", upload.ID.String()),
		zap.Int("success", report.SuccessCount),
		zap.Int("failure", report.FailureCount))
	return report, nil
}

// submitOrder runs the four submission steps for one order. The result
// is mutated in place; the returned error mirrors the recorded one.
func (p *Processor) submitOrder(
	ctx context.Context,
	o *order.LogicalOrder,
	settings *client.Settings,
	gw erpdata.ERPGateway,
	result *order.Result,
) error {
	if o.NeedsCustomerCreation {
		created, err := gw.CreateCustomer(ctx, BuildCustomer(o, settings))
		if err != nil {
			result.MarkFailed(order.ErrorTypeCustomerCreation, err.Error())
			return err
		}
		o.ResolvedCustomerID = created.ID
	} else if o.NeedsAddressCreation && o.ResolvedCustomerID != "" {
		if addr := BuildCustomerAddress(o); addr != nil {
			created, err := gw.CreateCustomerAddress(ctx, o.ResolvedCustomerID, addr)
			if err != nil {
				result.MarkFailed(order.ErrorTypeAddressCreation, err.Error())
				return err
			}
			o.ResolvedAddressID = created.ID
		}
	}

	sale, err := gw.CreateSale(ctx, BuildSale(o, settings))
	if err != nil {
		result.MarkFailed(order.ErrorTypeSaleCreation, err.Error())
		return err
	}
	result.RecordSale(sale.ID)

	saleOrder, err := gw.CreateSaleOrder(ctx, BuildSaleOrder(sale.ID, o, settings))
	if err != nil {
		result.MarkFailed(order.ErrorTypeOrderCreation, err.Error())
		return err
	}

	saleOrderID := saleOrder.ID
	if saleOrderID == "" {
		saleOrderID = saleOrder.SaleID
	}
	result.MarkSuccess(sale.ID, saleOrderID)
	return nil
}

func (p *Processor) newResult(upload *order.Upload, o *order.LogicalOrder) (*order.Result, error) {
	orderData := map[string]interface{}{
		"customer_name":      o.CustomerName,
		"customer_reference": o.CustomerReference,
		"line_count":         len(o.Lines),
		"total":              o.Total().String(),
	}
	if raw, err := json.Marshal(o.FieldStatuses); err == nil {
		var statuses map[string]interface{}
		if json.Unmarshal(raw, &statuses) == nil {
			orderData["field_statuses"] = statuses
		}
	}
	return order.NewResult(upload.ID, o.Key, o.RowNumbers, orderData)
}

func blockingSummary(o *order.LogicalOrder) string {
	var parts []string
	for field, fs := range o.FieldStatuses {
		if fs.Blocking() {
			msg := fs.Message
			if msg == "" {
				msg = string(fs.State)
			}
			parts = append(parts, fmt.Sprintf("%s: %s", field, msg))
		}
	}
	if len(parts) == 0 {
		return "validation failed"
	}
	return strings.Join(parts, "; ")
}
