package discounts

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Kind classifies how a discount applies to a fare.
type Kind string

const (
	KindPercent   Kind = "percent"
	KindExemption Kind = "exemption"
	KindFixed     Kind = "fixed"
)

// ParseKind validates a discount kind string.
func ParseKind(value string) (Kind, error) {
	switch Kind(value) {
	case KindPercent, KindExemption, KindFixed:
		return Kind(value), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidKind, value)
	}
}

// Discount is one entry of the statutory fare-discount registry. Value is
// free text: percent kinds carry a number, fixed kinds may carry a phrase.
type Discount struct {
	Code        string `json:"code" bson:"code"`
	Name        string `json:"name" bson:"name"`
	Kind        Kind   `json:"kind" bson:"kind"`
	Value       string `json:"value" bson:"value"`
	Description string `json:"description" bson:"description"`
}

// Validate checks the fields a stored discount must carry.
func (d Discount) Validate() error {
	if strings.TrimSpace(d.Code) == "" {
		return ErrEmptyCode
	}
	if _, err := ParseKind(string(d.Kind)); err != nil {
		return err
	}
	return nil
}

var (
	// ErrDiscountNotFound indicates no discount exists under the code.
	ErrDiscountNotFound = errors.New("discounts: not found")
	// ErrEmptyCode indicates a discount without a code.
	ErrEmptyCode = errors.New("discounts: empty code")
	// ErrInvalidKind indicates an unknown discount kind.
	ErrInvalidKind = errors.New("discounts: invalid kind")
)

// Store is the pluggable persistence port for the registry.
type Store interface {
	List(ctx context.Context) ([]Discount, error)
	Get(ctx context.Context, code string) (Discount, error)
	Upsert(ctx context.Context, discount Discount) error
	Replace(ctx context.Context, entries []Discount) error
	Reset(ctx context.Context) ([]Discount, error)
}

// Seed returns the default statutory registry contents.
func Seed() []Discount {
	return []Discount{
		{Code: "U50", Name: "Ulgowy 50% (senior/uczestnik)", Kind: KindPercent, Value: "50", Description: "Zniżka 50% na bilety krajowe (wybrane grupy)"},
		{Code: "U37", Name: "Ulgowy 37% (student)", Kind: KindPercent, Value: "37", Description: "Zniżka 37% dla studentów i uczniów"},
		{Code: "D95", Name: "Dzieci 95% (dziecięca)", Kind: KindPercent, Value: "95", Description: "Zniżka 95% dla dzieci (wg przepisów)"},
		{Code: "EXEMPT", Name: "Zwolnienie 100% (osoby niepełnosprawne)", Kind: KindExemption, Value: "100", Description: "Pełne zwolnienie dla uprawnionych osób"},
		{Code: "FAM", Name: "Rodzinny (stała)", Kind: KindFixed, Value: "bezpłatny/obniżony", Description: "Zniżki rodzinne i specjalne"},
	}
}
