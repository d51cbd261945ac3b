package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"shuttleclub/internal/models"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
)

var (
	ErrPaymentAlreadyMade = errors.New("payment already made")
	ErrAmountMismatch     = errors.New("callback gross amount does not match payment session")
	ErrBadSignature       = errors.New("callback signature verification failed")
)

type PaymentService struct {
	db             *gorm.DB
	midtransClient *MidtransService
	roster         *RosterService
}

func NewPaymentService(db *gorm.DB, midtransClient *MidtransService, roster *RosterService) *PaymentService {
	return &PaymentService{db: db, midtransClient: midtransClient, roster: roster}
}

// CheckActiveSession returns the active payment session for a member's
// session share, or nil when there is none.
func (s *PaymentService) CheckActiveSession(ctx context.Context, sessionID, memberID uint) (*models.PaymentSession, error) {
	var existing models.PaymentSession
	err := s.db.WithContext(ctx).
		Where("session_id = ? AND member_id = ? AND is_active = ?", sessionID, memberID, true).
		Order("created_at desc").
		First(&existing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // No active session
		}
		return nil, err
	}
	return &existing, nil
}

// InitiatePaymentResult holds the result of an initiation attempt
type InitiatePaymentResult struct {
	OrderID     string
	Token       string
	RedirectURL string
	IsExisting  bool
}

// InitiatePayment starts or resumes a gateway payment for a member's
// share of a session. The amount is the allocator's net owed value,
// passed in by the caller; gateway amounts are whole rupiah.
func (s *PaymentService) InitiatePayment(ctx context.Context, session *models.Session, member *models.Member, amount float64, forceNew bool, callbackURL string) (*InitiatePaymentResult, error) {
	// 1. Check for existing active payment session
	existing, err := s.CheckActiveSession(ctx, session.ID, member.ID)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		statusResp, err := s.midtransClient.CheckTransaction(existing.OrderID)
		if err == nil {
			switch statusResp.TransactionStatus {
			case "settlement", "capture":
				return nil, ErrPaymentAlreadyMade
			case "deny", "expire", "cancel", "failure":
				existing.IsActive = false
				s.db.WithContext(ctx).Save(existing)
				// Proceed to create new
			default: // pending
				if forceNew {
					_ = s.midtransClient.CancelTransaction(existing.OrderID)
					existing.IsActive = false
					s.db.WithContext(ctx).Save(existing)
					// Proceed to create new
				} else {
					var midtransResp snap.Response
					if err := json.Unmarshal(existing.ResponseMetadata, &midtransResp); err == nil {
						return &InitiatePaymentResult{
							OrderID:     existing.OrderID,
							Token:       midtransResp.Token,
							RedirectURL: midtransResp.RedirectURL,
							IsExisting:  true,
						}, nil
					}
					// Stored response is broken; start over
					existing.IsActive = false
					s.db.WithContext(ctx).Save(existing)
				}
			}
		} else {
			// Status check failed, assume the session is broken locally
			existing.IsActive = false
			s.db.WithContext(ctx).Save(existing)
		}
	}

	// 2. Create new transaction
	orderID := fmt.Sprintf("session-%d-member-%d-%d", session.ID, member.ID, time.Now().Unix())
	grossAmt := int64(amount)

	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  orderID,
			GrossAmt: grossAmt,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: member.Name,
			Email: member.Email,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:    fmt.Sprintf("session-%d", session.ID),
				Name:  fmt.Sprintf("Court fee %s", session.Date.Format("2006-01-02")),
				Price: grossAmt,
				Qty:   1,
			},
		},
		Callbacks: &snap.Callbacks{
			Finish: callbackURL,
		},
	}

	resp, err := s.midtransClient.CreateTransaction(orderID, grossAmt, req)
	if err != nil {
		return nil, err
	}

	// 3. Record the payment session
	reqBytes, _ := json.Marshal(req)
	respBytes, _ := json.Marshal(resp)

	record := models.PaymentSession{
		SessionID:        session.ID,
		MemberID:         member.ID,
		PaymentGateway:   models.PaymentGatewayMidtrans,
		OrderID:          orderID,
		Amount:           float64(grossAmt),
		IsActive:         true,
		RequestMetadata:  reqBytes,
		ResponseMetadata: respBytes,
	}
	s.db.WithContext(ctx).Create(&record)

	return &InitiatePaymentResult{
		OrderID:     orderID,
		Token:       resp.Token,
		RedirectURL: resp.RedirectURL,
		IsExisting:  false,
	}, nil
}

// ApplyGatewayStatus maps a transaction status onto the payment session
// and the member's paid flag. Returns true once the order is resolved
// (paid or failed) and needs no further polling.
func (s *PaymentService) ApplyGatewayStatus(ctx context.Context, record *models.PaymentSession, transactionStatus string) (bool, error) {
	switch transactionStatus {
	case "settlement", "capture":
		// Explicit-override path: the gateway confirmed the money.
		if err := s.roster.SetPaid(ctx, record.SessionID, record.MemberID, true); err != nil {
			return false, err
		}
		record.IsActive = false
		return true, s.db.WithContext(ctx).Save(record).Error
	case "deny", "expire", "cancel", "failure":
		record.IsActive = false
		return true, s.db.WithContext(ctx).Save(record).Error
	default:
		// Still pending
		return false, nil
	}
}

// chargedGross renders an amount the way the gateway echoes it back:
// whole rupiah are charged, and the callback carries two decimals.
// A fractional share like 86666.67 is charged as 86666 and comes back
// as "86666.00".
func chargedGross(amount float64) string {
	return fmt.Sprintf("%d.00", int64(amount))
}

// GatewayNotification is the subset of the Midtrans callback payload the
// reconciliation needs.
type GatewayNotification struct {
	OrderID           string `json:"order_id"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
	TransactionStatus string `json:"transaction_status"`
}

// HandleCallback verifies and applies one gateway notification. Every
// callback is recorded for audit before verification. Signature and
// amount failures change no paid flag; the amount mismatch is a
// distinct, logged, non-retryable failure.
func (s *PaymentService) HandleCallback(ctx context.Context, raw json.RawMessage, notif GatewayNotification) error {
	history := models.PaymentCallbackHistory{
		PaymentGateway: models.PaymentGatewayMidtrans,
		OrderID:        notif.OrderID,
		Metadata:       raw,
	}
	s.db.WithContext(ctx).Create(&history)

	if !s.midtransClient.VerifySignature(notif.OrderID, notif.StatusCode, notif.GrossAmount, notif.SignatureKey) {
		return ErrBadSignature
	}

	var record models.PaymentSession
	if err := s.db.WithContext(ctx).Where("order_id = ?", notif.OrderID).First(&record).Error; err != nil {
		return fmt.Errorf("unknown order %s: %w", notif.OrderID, err)
	}

	if chargedGross(record.Amount) != notif.GrossAmount {
		log.Printf("Amount mismatch on order %s: recorded %s, callback %s", notif.OrderID, chargedGross(record.Amount), notif.GrossAmount)
		record.IsActive = false
		s.db.WithContext(ctx).Save(&record)
		return ErrAmountMismatch
	}

	_, err := s.ApplyGatewayStatus(ctx, &record, notif.TransactionStatus)
	return err
}

// PollOrder checks an order's status at the gateway and applies it.
// Returns true once resolved.
func (s *PaymentService) PollOrder(ctx context.Context, orderID string) (bool, error) {
	var record models.PaymentSession
	if err := s.db.WithContext(ctx).Where("order_id = ?", orderID).First(&record).Error; err != nil {
		return false, fmt.Errorf("unknown order %s: %w", orderID, err)
	}
	if !record.IsActive {
		return true, nil
	}

	statusResp, err := s.midtransClient.CheckTransaction(orderID)
	if err != nil {
		return false, err
	}

	return s.ApplyGatewayStatus(ctx, &record, statusResp.TransactionStatus)
}
