package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/Pavithran-Vijayalakshmi/FOODDELIVERY/entity"
	"github.com/Pavithran-Vijayalakshmi/FOODDELIVERY/pkg/apperr"
	"github.com/Pavithran-Vijayalakshmi/FOODDELIVERY/pkg/gateway"
	"github.com/Pavithran-Vijayalakshmi/FOODDELIVERY/pkg/notify"
	"github.com/Pavithran-Vijayalakshmi/FOODDELIVERY/repository"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PaymentService struct {
	DB          *gorm.DB
	OrderRepo   *repository.OrderRepository
	WebhookRepo *repository.WebhookRepository
	Gateway     gateway.Gateway
	Cfg         gateway.Config
	Notify      notify.Dispatcher
	Log         zerolog.Logger
}

func NewPaymentService(
	db *gorm.DB,
	orderRepo *repository.OrderRepository,
	webhookRepo *repository.WebhookRepository,
	gw gateway.Gateway,
	cfg gateway.Config,
	dispatcher notify.Dispatcher,
	log zerolog.Logger,
) *PaymentService {
	return &PaymentService{
		DB:          db,
		OrderRepo:   orderRepo,
		WebhookRepo: webhookRepo,
		Gateway:     gw,
		Cfg:         cfg,
		Notify:      dispatcher,
		Log:         log,
	}
}

// AuthorizeCOD marks a cash order authorized immediately; cash is collected
// at handoff, never at checkout.
func (s *PaymentService) AuthorizeCOD(o *entity.Order) error {
	now := time.Now()
	o.Payment.Status = entity.PaymentAuthorized
	o.Payment.AuthorizedAt = &now
	return s.OrderRepo.UpdatePaymentFields(s.DB, o.ID, map[string]any{
		"payment_status": entity.PaymentAuthorized,
		"authorized_at":  now,
	})
}

// Initiate creates the external gateway order. The merchant reference id was
// generated once at order creation and is reused on every retry, so the
// gateway can deduplicate. A rejection is recorded on the order and returned,
// not thrown; a timeout stays pending and surfaces indeterminate.
func (s *PaymentService) Initiate(o *entity.Order) (*PaymentContext, error) {
	if o.Payment.MethodType != entity.PaymentGateway {
		return nil, apperr.WithMessage(apperr.ErrPaymentInitiationFailed, "order is not a gateway payment")
	}
	if o.Payment.IsSettled() {
		return nil, apperr.WithMessage(apperr.ErrAlreadyFinalized, "payment is already settled")
	}

	o.Payment.Attempts++
	_ = s.OrderRepo.UpdatePaymentFields(s.DB, o.ID, map[string]any{
		"payment_attempts": o.Payment.Attempts,
	})

	ctx, cancel := context.WithTimeout(context.Background(), s.Cfg.Timeout)
	defer cancel()

	res, err := s.Gateway.CreateOrder(ctx, gateway.ToMinorUnits(o.TotalAmount), s.Cfg.Currency, o.Payment.MerchantReferenceID.String())
	if err != nil {
		if errors.Is(err, apperr.ErrPaymentIndeterminate) {
			// Do not assume success or failure; leave pending for
			// reconciliation.
			s.Log.Warn().Uint("order_id", o.ID).Msg("gateway initiation timed out; payment indeterminate")
			return nil, err
		}
		s.recordFailure(o, "gateway_rejected", err)
		return nil, apperr.Wrap(apperr.ErrPaymentInitiationFailed, err)
	}

	now := time.Now()
	o.Payment.GatewayOrderID = res.GatewayOrderID
	o.Payment.GatewayReferenceID = res.GatewayOrderID
	o.Payment.Status = entity.PaymentAuthorized
	o.Payment.AuthorizedAt = &now
	if err := s.OrderRepo.UpdatePaymentFields(s.DB, o.ID, map[string]any{
		"gateway_order_id":     res.GatewayOrderID,
		"gateway_reference_id": res.GatewayOrderID,
		"payment_status":       entity.PaymentAuthorized,
		"authorized_at":        now,
	}); err != nil {
		return nil, err
	}

	return &PaymentContext{
		OrderID:        o.ID,
		GatewayOrderID: res.GatewayOrderID,
		Amount:         o.TotalAmount,
		Currency:       s.Cfg.Currency,
		KeyID:          s.Cfg.KeyID,
	}, nil
}

func (s *PaymentService) recordFailure(o *entity.Order, code string, cause error) {
	o.Payment.LastError = &entity.PaymentError{
		Code:      code,
		Message:   cause.Error(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	o.Payment.Status = entity.PaymentFailed
	// Map-style updates bypass GORM serializers, so the error blob is
	// marshalled here.
	blob, _ := json.Marshal(o.Payment.LastError)
	if err := s.OrderRepo.UpdatePaymentFields(s.DB, o.ID, map[string]any{
		"payment_status": entity.PaymentFailed,
		"last_error":     string(blob),
	}); err != nil {
		s.Log.Error().Err(err).Uint("order_id", o.ID).Msg("failed to persist payment failure")
	}
}

// clampCapture caps a reported capture at the authorized amount. The gateway
// cannot settle more than was authorized; a larger figure in an event or a
// fetch is provider noise, not a bigger debt.
func (s *PaymentService) clampCapture(o *entity.Order, amount decimal.Decimal) decimal.Decimal {
	if amount.GreaterThan(o.Payment.AmountAuthorized) {
		s.Log.Warn().Uint("order_id", o.ID).
			Str("reported", amount.String()).
			Str("authorized", o.Payment.AmountAuthorized.String()).
			Msg("capture exceeds authorized amount, clamping")
		return o.Payment.AmountAuthorized
	}
	return amount
}

// Context rebuilds the client payment context for an existing gateway order.
func (s *PaymentService) Context(p entity.Principal, orderID uint) (*PaymentContext, error) {
	o, err := s.OrderRepo.GetOrderForUser(s.DB, p.UserID, orderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	if o.Payment.MethodType != entity.PaymentGateway || o.Payment.GatewayOrderID == "" {
		return nil, apperr.WithMessage(apperr.ErrPaymentInitiationFailed, "order has no gateway payment context")
	}
	return &PaymentContext{
		OrderID:        o.ID,
		GatewayOrderID: o.Payment.GatewayOrderID,
		Amount:         o.TotalAmount,
		Currency:       s.Cfg.Currency,
		KeyID:          s.Cfg.KeyID,
	}, nil
}

// webhookEnvelope is the provider's event shape as far as the core cares.
type webhookEnvelope struct {
	EventID string `json:"event_id"`
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID          string `json:"id"`
				OrderID     string `json:"order_id"`
				AmountMinor int64  `json:"amount"`
				Status      string `json:"status"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// ProcessWebhook ingests a signed provider event. The signature check comes
// first, before any write; re-delivery of a processed event id is a no-op.
func (s *PaymentService) ProcessWebhook(payload []byte, signature string) error {
	if !s.Gateway.VerifySignature(payload, signature) {
		return apperr.ErrBadSignature
	}

	var ev webhookEnvelope
	if err := json.Unmarshal(payload, &ev); err != nil {
		return apperr.Wrap(apperr.ErrMalformedPayload, err)
	}
	if ev.EventID == "" || ev.Payload.Payment.Entity.OrderID == "" {
		return apperr.ErrMalformedPayload
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.WebhookRepo.MarkProcessed(tx, ev.EventID, ev.Event); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				s.Log.Debug().Str("event_id", ev.EventID).Msg("webhook replay ignored")
				return nil
			}
			return err
		}

		o, err := s.OrderRepo.GetOrderByGatewayOrderID(tx, ev.Payload.Payment.Entity.OrderID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.ErrOrderNotFound
		}
		if err != nil {
			return err
		}

		now := time.Now()
		switch ev.Event {
		case "payment.authorized":
			return s.OrderRepo.UpdatePaymentFields(tx, o.ID, map[string]any{
				"payment_status": entity.PaymentAuthorized,
				"authorized_at":  now,
			})
		case "payment.captured":
			amount := s.clampCapture(o, gateway.FromMinorUnits(ev.Payload.Payment.Entity.AmountMinor))
			if err := s.OrderRepo.UpdatePaymentFields(tx, o.ID, map[string]any{
				"payment_status":     entity.PaymentCaptured,
				"captured_at":        now,
				"amount_captured":    amount,
				"gateway_payment_id": ev.Payload.Payment.Entity.ID,
			}); err != nil {
				return err
			}
			s.Notify.Notify(o.UserID, "Payment received",
				"Your payment was captured.", notify.KindPayment,
				map[string]string{"order_code": o.OrderCode.String()})
			return nil
		default:
			// Unknown events are acknowledged without state change so the
			// provider stops retrying them.
			s.Log.Info().Str("event", ev.Event).Msg("ignoring unhandled webhook event")
			return nil
		}
	})
}

// Reconcile resolves an indeterminate or stale payment by asking the gateway
// for its view and applying the capture if it happened.
func (s *PaymentService) Reconcile(p entity.Principal, orderID uint) (*entity.Order, error) {
	o, err := s.OrderRepo.GetOrderForUser(s.DB, p.UserID, orderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	if o.Payment.GatewayPaymentID == "" {
		return o, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.Cfg.Timeout)
	defer cancel()
	res, err := s.Gateway.FetchPayment(ctx, o.Payment.GatewayPaymentID)
	if err != nil {
		return nil, err
	}

	if res.Status == "captured" && !o.Payment.IsSettled() {
		now := time.Now()
		amount := s.clampCapture(o, gateway.FromMinorUnits(res.AmountMinor))
		if err := s.OrderRepo.UpdatePaymentFields(s.DB, o.ID, map[string]any{
			"payment_status":  entity.PaymentCaptured,
			"captured_at":     now,
			"amount_captured": amount,
		}); err != nil {
			return nil, err
		}
		o.Payment.Status = entity.PaymentCaptured
		o.Payment.CapturedAt = &now
		o.Payment.AmountCaptured = amount
	}
	return o, nil
}
