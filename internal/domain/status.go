package domain

import (
	"fmt"
	"strings"

	"github.com/jmallet/catql/internal/query"
)

// Status is the publication lifecycle of a product, stored as text.
type Status string

const (
	StatusDraft        Status = "DRAFT"
	StatusActive       Status = "ACTIVE"
	StatusDiscontinued Status = "DISCONTINUED"
)

// Visibility controls where a product is listed, stored as an integer.
type Visibility int

const (
	VisibilityHidden   Visibility = 0
	VisibilityInternal Visibility = 1
	VisibilityPublic   Visibility = 2
)

// ParseStatus accepts the status name in any casing.
func ParseStatus(raw string) (Status, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case string(StatusDraft):
		return StatusDraft, nil
	case string(StatusActive):
		return StatusActive, nil
	case string(StatusDiscontinued):
		return StatusDiscontinued, nil
	default:
		return "", fmt.Errorf("invalid status %q", raw)
	}
}

// ParseVisibility accepts either the name or the stored integer.
func ParseVisibility(raw string) (Visibility, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "hidden", "0":
		return VisibilityHidden, nil
	case "internal", "1":
		return VisibilityInternal, nil
	case "public", "2":
		return VisibilityPublic, nil
	default:
		return 0, fmt.Errorf("invalid visibility %q", raw)
	}
}

func init() {
	query.RegisterEnum(map[string]Status{
		"Draft":        StatusDraft,
		"Active":       StatusActive,
		"Discontinued": StatusDiscontinued,
	})
	query.RegisterEnum(map[string]Visibility{
		"Hidden":   VisibilityHidden,
		"Internal": VisibilityInternal,
		"Public":   VisibilityPublic,
	})
}
