package members

import (
	"strconv"
	"strings"

	"github.com/ariefcatur/barbershop-dashboard/internal/apperr"
)

// legacyStatus maps every vocabulary the members table has carried to the
// canonical three values.
var legacyStatus = map[string]Status{
	"pago":      StatusPaid,
	"paid":      StatusPaid,
	"active":    StatusPaid,
	"cancelado": StatusCancelled,
	"cancelled": StatusCancelled,
	"canceled":  StatusCancelled,
	"inactive":  StatusCancelled,
	"pendente":  StatusPending,
	"pending":   StatusPending,
}

// ClassifyStatus maps raw to a canonical status and reports whether raw was
// a known value. Unknown values map to StatusPending.
func ClassifyStatus(raw string) (Status, bool) {
	s, ok := legacyStatus[strings.ToLower(strings.TrimSpace(raw))]
	if !ok {
		return StatusPending, false
	}
	return s, true
}

// NormalizeStatus is total: it always returns one of the canonical values.
// It exists for rows written before the vocabulary was fixed; new input goes
// through ParseStatus.
func NormalizeStatus(raw string) Status {
	s, _ := ClassifyStatus(raw)
	return s
}

// ParseStatus is the strict variant used for writes. Empty input means
// pending.
func ParseStatus(raw string) (Status, error) {
	if strings.TrimSpace(raw) == "" {
		return StatusPending, nil
	}
	s, ok := ClassifyStatus(raw)
	if !ok {
		return "", apperr.Invalid("status", "unknown status "+strconv.Quote(raw))
	}
	return s, nil
}
