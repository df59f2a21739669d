package validator

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"frontoffice/constants"
	"frontoffice/errors"

	playground "github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

const DateLayout = "2006-01-02"

var (
	once     sync.Once
	validate *playground.Validate

	phoneRegex = regexp.MustCompile(`^\+?[0-9]{7,15}$`)
)

func engine() *playground.Validate {
	once.Do(func() {
		validate = playground.New()
	})
	return validate
}

// Struct chạy các tag `validate` của struct và trả về VALIDATION_ERROR đầu tiên
func Struct(v interface{}) error {
	err := engine().Struct(v)
	if err == nil {
		return nil
	}
	if fieldErrs, ok := err.(playground.ValidationErrors); ok && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return errors.Validation("field %s failed on '%s'", fe.Field(), fe.Tag())
	}
	return errors.NewAppError(errors.ErrCodeValidation, "invalid input", err)
}

// Stay is a normalized date range. Nights is always derived from the dates.
type Stay struct {
	CheckIn  time.Time
	CheckOut time.Time
	Nights   int
	// Adjusted is set when the caller supplied a nights value that disagreed with the dates.
	Adjusted bool
}

// ParseDate đọc ngày dạng YYYY-MM-DD, trả về 00:00 UTC
func ParseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, errors.NewAppError(errors.ErrCodeValidation, fmt.Sprintf("%s must be a date in %s format", field, DateLayout), err)
	}
	return t, nil
}

// NormalizeStay validates checkOut > checkIn and recomputes nights from the dates.
func NormalizeStay(checkIn, checkOut string, nights int) (Stay, error) {
	in, err := ParseDate("checkIn", checkIn)
	if err != nil {
		return Stay{}, err
	}
	out, err := ParseDate("checkOut", checkOut)
	if err != nil {
		return Stay{}, err
	}
	if !out.After(in) {
		return Stay{}, errors.Validation("checkOut must be after checkIn")
	}
	if nights < 0 {
		return Stay{}, errors.Validation("nights must not be negative")
	}

	computed := NightsBetween(in, out)
	return Stay{
		CheckIn:  in,
		CheckOut: out,
		Nights:   computed,
		Adjusted: nights != 0 && nights != computed,
	}, nil
}

func NightsBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}

// ValidateAmount validate số tiền phải dương sau khi làm tròn về 2 chữ số thập phân
func ValidateAmount(field string, amount decimal.Decimal) error {
	if !amount.Round(2).IsPositive() {
		return errors.Validation("%s must be at least 0.01", field)
	}
	return nil
}

func ValidateNonNegative(field string, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return errors.Validation("%s must not be negative", field)
	}
	return nil
}

func ValidatePaymentMode(mode string) error {
	for _, m := range constants.PaymentModes {
		if m == mode {
			return nil
		}
	}
	return errors.Validation("unknown payment mode %q", mode)
}

func ValidateSector(sector string) error {
	for _, s := range constants.Sectors {
		if s == sector {
			return nil
		}
	}
	return errors.Validation("unknown sector %q", sector)
}

// ValidatePhone kiểm tra số điện thoại hợp lệ
func ValidatePhone(phone string) error {
	if !phoneRegex.MatchString(phone) {
		return errors.Validation("invalid phone number %q", phone)
	}
	return nil
}
