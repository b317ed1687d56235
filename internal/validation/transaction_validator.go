package validation

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "ledgersynth/internal/errors"
	"ledgersynth/pkg/contracts/domain"
)

var (
	transactionIDPattern = regexp.MustCompile(`^TX\d{5,}$`)
	customerIDPattern    = regexp.MustCompile(`^CUST[1-4]\d{2}$`)
)

// TransactionValidator checks individual ledger rows against the schema domains
type TransactionValidator struct {
	validate *validator.Validate
}

// NewTransactionValidator creates a validator with the ledger rules registered
func NewTransactionValidator() (*TransactionValidator, error) {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := RegisterLedgerRules(v); err != nil {
		return nil, err
	}

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("csv"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	return &TransactionValidator{validate: v}, nil
}

// MustNewTransactionValidator is like NewTransactionValidator but panics on error
func MustNewTransactionValidator() *TransactionValidator {
	tv, err := NewTransactionValidator()
	if err != nil {
		panic(err)
	}
	return tv
}

// RegisterLedgerRules registers the txid, custid, category, location and source tags on v
func RegisterLedgerRules(v *validator.Validate) error {
	return registerRules(v, map[string]validator.Func{
		"txid":     isTransactionID,
		"custid":   isCustomerID,
		"category": isCategory,
		"location": isLocation,
		"source":   isSource,
	})
}

func registerRules(v *validator.Validate, rules map[string]validator.Func) error {
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("register %s: %w", tag, err)
		}
	}
	return nil
}

// Validate checks one transaction. Failures are validation AppErrors naming every bad field.
func (tv *TransactionValidator) Validate(tx domain.Transaction) error {
	var problems []string

	if err := tv.validate.Struct(tx); err != nil {
		if fieldErrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range fieldErrs {
				problems = append(problems, formatFieldError(fe))
			}
		} else {
			return apperrors.NewAppError(apperrors.ErrTypeValidation, "transaction could not be validated", err)
		}
	}

	if tx.Amount.IsNegative() {
		problems = append(problems, "Amount must not be negative")
	}
	if !tx.Amount.Equal(tx.Amount.Round(2)) {
		problems = append(problems, "Amount must have at most 2 decimal places")
	}

	if len(problems) == 0 {
		return nil
	}

	return apperrors.NewAppValidationError(
		fmt.Sprintf("transaction %q is invalid: %s", tx.TransactionID, strings.Join(problems, "; ")),
	).WithContext("transaction_id", tx.TransactionID).WithContext("problems", problems)
}

// ValidateRows validates every row and reports the first failure with its 1-based data row number
func (tv *TransactionValidator) ValidateRows(rows []domain.Transaction) error {
	for i, tx := range rows {
		if err := tv.Validate(tx); err != nil {
			if appErr, ok := err.(*apperrors.AppError); ok {
				return appErr.WithContext("row", i+1)
			}
			return err
		}
	}
	return nil
}

func formatFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "txid":
		return fmt.Sprintf("%s %q is not a TX-prefixed sequence id", fe.Field(), fe.Value())
	case "custid":
		return fmt.Sprintf("%s %q is outside CUST100..CUST499", fe.Field(), fe.Value())
	case "category", "location", "source":
		return fmt.Sprintf("%s %q is not a known %s", fe.Field(), fe.Value(), fe.Tag())
	case "min", "max":
		return fmt.Sprintf("%s must be within 0..23, got %v", fe.Field(), fe.Value())
	default:
		return fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
	}
}

func isTransactionID(fl validator.FieldLevel) bool {
	return transactionIDPattern.MatchString(fl.Field().String())
}

func isCustomerID(fl validator.FieldLevel) bool {
	return customerIDPattern.MatchString(fl.Field().String())
}

func isCategory(fl validator.FieldLevel) bool {
	return domain.IsKnownCategory(domain.Category(fl.Field().String()))
}

func isLocation(fl validator.FieldLevel) bool {
	return domain.IsKnownLocation(domain.Location(fl.Field().String()))
}

func isSource(fl validator.FieldLevel) bool {
	return domain.IsKnownSource(domain.Source(fl.Field().String()))
}
