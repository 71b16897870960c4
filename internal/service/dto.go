package service

import (
	"github.com/go-playground/validator/v10"

	"github.com/splitproof/splitproof/internal/models"
	"github.com/splitproof/splitproof/internal/money"
)

// validate holds the shared request validator. Structural checks (required
// fields, shapes) live here; domain invariants are enforced by the models
// and the engine.
var validate = validator.New(validator.WithRequiredStructEnabled())

// ReceiptRequest is the wire shape of a receipt before validation. It is
// converted into a models.Receipt, which enforces the arithmetic
// invariants.
type ReceiptRequest struct {
	Lines      []models.ReceiptLine `json:"lines" validate:"required,min=1"`
	Charges    []models.ChargeLine  `json:"charges"`
	GrandTotal money.Money          `json:"grand_total"`
}

// ToReceipt validates the receipt invariants and returns the domain model.
func (r *ReceiptRequest) ToReceipt() (*models.Receipt, error) {
	return models.NewReceipt(r.Lines, r.Charges, r.GrandTotal)
}

// SettleRequest is the payload for settlement computation endpoints.
type SettleRequest struct {
	Receipt    ReceiptRequest     `json:"receipt" validate:"required"`
	Allocation *models.Allocation `json:"allocation" validate:"required"`
}

// SettleResponse carries the full settlement result: the per-participant
// entries, the reasoning trace, the validation verdict, any reconciliation
// warnings, and a plain-text rendering.
type SettleResponse struct {
	RunID      string                         `json:"run_id,omitempty"`
	Settlement *models.Settlement             `json:"settlement"`
	Trace      []models.ReasoningStep         `json:"trace"`
	Verdict    models.ValidationResult        `json:"verdict"`
	Warnings   []models.ReconciliationWarning `json:"warnings,omitempty"`
	Summary    string                         `json:"summary"`
}

// RegisterRequest is the payload for account creation.
type RegisterRequest struct {
	Email       string `json:"email" validate:"required,email"`
	DisplayName string `json:"display_name" validate:"required"`
	Password    string `json:"password" validate:"required"`
}

// LoginRequest is the payload for authentication.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserResponse is the public shape of a user account.
type UserResponse struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	CreatedAt   int64  `json:"created_at"`
}

// AuthResponse pairs a user with a freshly issued session token.
type AuthResponse struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token"`
}

func toUserResponse(user *models.User) UserResponse {
	return UserResponse{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		CreatedAt:   user.CreatedAt,
	}
}
