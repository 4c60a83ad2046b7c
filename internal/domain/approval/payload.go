package approval

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/estatekit/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RequestType enumerates the policy-sensitive mutations gated by approval
type RequestType string

const (
	RequestTypeBankAccountCreate    RequestType = "bank_account_create"
	RequestTypeBankAccountUpdate    RequestType = "bank_account_update"
	RequestTypeBankAccountDelete    RequestType = "bank_account_delete"
	RequestTypeProfileEffectiveDate RequestType = "billing_profile_effective_date"
	RequestTypePlotCountChange      RequestType = "house_plot_count"
	RequestTypePaymentVerification  RequestType = "manual_payment_verification"
)

// IsValid checks if the request type is a known type
func (t RequestType) IsValid() bool {
	switch t {
	case RequestTypeBankAccountCreate, RequestTypeBankAccountUpdate, RequestTypeBankAccountDelete,
		RequestTypeProfileEffectiveDate, RequestTypePlotCountChange, RequestTypePaymentVerification:
		return true
	}
	return false
}

// ChangePayload is the closed set of requested-change variants, one shape per
// request type. Payloads are validated at the boundary before being persisted
// as serialized data for audit immutability.
type ChangePayload interface {
	RequestType() RequestType
	Validate() error
}

// BankAccountCreatePayload requests the creation of an estate bank account
type BankAccountCreatePayload struct {
	BankName      string `json:"bank_name"`
	AccountName   string `json:"account_name"`
	AccountNumber string `json:"account_number"`
}

// RequestType implements ChangePayload
func (p BankAccountCreatePayload) RequestType() RequestType { return RequestTypeBankAccountCreate }

// Validate implements ChangePayload
func (p BankAccountCreatePayload) Validate() error {
	if strings.TrimSpace(p.BankName) == "" || strings.TrimSpace(p.AccountName) == "" {
		return shared.NewDomainError("INVALID_PAYLOAD", "Bank name and account name are required")
	}
	if len(strings.TrimSpace(p.AccountNumber)) < 10 {
		return shared.NewDomainError("INVALID_PAYLOAD", "Account number must be at least 10 digits")
	}
	return nil
}

// BankAccountUpdatePayload requests changes to an existing bank account
type BankAccountUpdatePayload struct {
	AccountID     uuid.UUID `json:"account_id"`
	BankName      string    `json:"bank_name"`
	AccountName   string    `json:"account_name"`
	AccountNumber string    `json:"account_number"`
}

// RequestType implements ChangePayload
func (p BankAccountUpdatePayload) RequestType() RequestType { return RequestTypeBankAccountUpdate }

// Validate implements ChangePayload
func (p BankAccountUpdatePayload) Validate() error {
	if p.AccountID == uuid.Nil {
		return shared.NewDomainError("INVALID_PAYLOAD", "Account ID is required")
	}
	return BankAccountCreatePayload{
		BankName:      p.BankName,
		AccountName:   p.AccountName,
		AccountNumber: p.AccountNumber,
	}.Validate()
}

// BankAccountDeletePayload requests the removal of a bank account
type BankAccountDeletePayload struct {
	AccountID uuid.UUID `json:"account_id"`
}

// RequestType implements ChangePayload
func (p BankAccountDeletePayload) RequestType() RequestType { return RequestTypeBankAccountDelete }

// Validate implements ChangePayload
func (p BankAccountDeletePayload) Validate() error {
	if p.AccountID == uuid.Nil {
		return shared.NewDomainError("INVALID_PAYLOAD", "Account ID is required")
	}
	return nil
}

// ProfileEffectiveDatePayload requests moving a billing profile's effective date
type ProfileEffectiveDatePayload struct {
	ProfileID     uuid.UUID `json:"profile_id"`
	EffectiveDate time.Time `json:"effective_date"`
}

// RequestType implements ChangePayload
func (p ProfileEffectiveDatePayload) RequestType() RequestType { return RequestTypeProfileEffectiveDate }

// Validate implements ChangePayload
func (p ProfileEffectiveDatePayload) Validate() error {
	if p.ProfileID == uuid.Nil {
		return shared.NewDomainError("INVALID_PAYLOAD", "Profile ID is required")
	}
	if p.EffectiveDate.IsZero() {
		return shared.NewDomainError("INVALID_PAYLOAD", "Effective date is required")
	}
	return nil
}

// PlotCountChangePayload requests a change to a house's plot count
type PlotCountChangePayload struct {
	HouseID   uuid.UUID `json:"house_id"`
	PlotCount int       `json:"plot_count"`
}

// RequestType implements ChangePayload
func (p PlotCountChangePayload) RequestType() RequestType { return RequestTypePlotCountChange }

// Validate implements ChangePayload
func (p PlotCountChangePayload) Validate() error {
	if p.HouseID == uuid.Nil {
		return shared.NewDomainError("INVALID_PAYLOAD", "House ID is required")
	}
	if p.PlotCount < 1 {
		return shared.NewDomainError("INVALID_PAYLOAD", "Plot count must be at least 1")
	}
	return nil
}

// PaymentVerificationPayload requests verification of a manually reported
// payment. On approval the amount is credited to the resident's wallet and
// swept against outstanding invoices.
type PaymentVerificationPayload struct {
	ResidentID       uuid.UUID       `json:"resident_id"`
	HouseID          uuid.UUID       `json:"house_id"`
	Amount           decimal.Decimal `json:"amount"`
	PaymentReference string          `json:"payment_reference"`
	PaymentDate      time.Time       `json:"payment_date"`
}

// RequestType implements ChangePayload
func (p PaymentVerificationPayload) RequestType() RequestType { return RequestTypePaymentVerification }

// Validate implements ChangePayload
func (p PaymentVerificationPayload) Validate() error {
	if p.ResidentID == uuid.Nil || p.HouseID == uuid.Nil {
		return shared.NewDomainError("INVALID_PAYLOAD", "Resident and house IDs are required")
	}
	if p.Amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_PAYLOAD", "Payment amount must be positive")
	}
	if strings.TrimSpace(p.PaymentReference) == "" {
		return shared.NewDomainError("INVALID_PAYLOAD", "Payment reference is required")
	}
	return nil
}

// DecodePayload unmarshals serialized requested changes into the concrete
// variant for the given request type.
func DecodePayload(requestType RequestType, data []byte) (ChangePayload, error) {
	var payload ChangePayload
	switch requestType {
	case RequestTypeBankAccountCreate:
		var p BankAccountCreatePayload
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("decode %s payload: %w", requestType, err)
		}
		payload = p
	case RequestTypeBankAccountUpdate:
		var p BankAccountUpdatePayload
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("decode %s payload: %w", requestType, err)
		}
		payload = p
	case RequestTypeBankAccountDelete:
		var p BankAccountDeletePayload
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("decode %s payload: %w", requestType, err)
		}
		payload = p
	case RequestTypeProfileEffectiveDate:
		var p ProfileEffectiveDatePayload
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("decode %s payload: %w", requestType, err)
		}
		payload = p
	case RequestTypePlotCountChange:
		var p PlotCountChangePayload
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("decode %s payload: %w", requestType, err)
		}
		payload = p
	case RequestTypePaymentVerification:
		var p PaymentVerificationPayload
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("decode %s payload: %w", requestType, err)
		}
		payload = p
	default:
		return nil, shared.NewDomainError("INVALID_REQUEST_TYPE", fmt.Sprintf("Unknown request type %q", requestType))
	}

	if err := payload.Validate(); err != nil {
		return nil, err
	}
	return payload, nil
}
