package services

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/kavindus/autoparts_pos_app/internal/apperrors"
	"github.com/kavindus/autoparts_pos_app/internal/core/domain"
	portsrepo "github.com/kavindus/autoparts_pos_app/internal/core/ports/repositories"
	portssvc "github.com/kavindus/autoparts_pos_app/internal/core/ports/services"
)

// referencePrefixes maps the transaction types that use structured reference
// numbers to their prefix. Disputes and transfers use a timestamp+random
// scheme instead; see dispute_service.go.
var referencePrefixes = map[domain.TransactionType]string{
	domain.Sale:    "A",
	domain.Battery: "B",
	domain.OnHold:  "OH",
	domain.Credit:  "CR",
}

var prefixTypes = map[string]domain.TransactionType{
	"A":  domain.Sale,
	"B":  domain.Battery,
	"OH": domain.OnHold,
	"CR": domain.Credit,
}

// referencePattern is the strict fixed grammar of a structured reference:
// prefix, 3-digit sequence, 2-digit month, 2-digit year.
var referencePattern = regexp.MustCompile(`^(OH|CR|A|B)(\d{3})(\d{2})(\d{2})$`)

type sequenceService struct{}

// NewSequenceService creates the structured reference number generator.
func NewSequenceService() portssvc.SequenceSvcFacade {
	return &sequenceService{}
}

var _ portssvc.SequenceSvcFacade = (*sequenceService)(nil)

// NextReferenceNumber fetches-or-creates the bill sequence row for the
// (type, month, year, location) key, increments it, and formats the result.
// The increment runs on the caller's unit of work so two concurrent
// checkouts can never be issued the same sequence.
func (s *sequenceService) NextReferenceNumber(ctx context.Context, uow portsrepo.UnitOfWork, locationID string, txnType domain.TransactionType, now time.Time) (string, error) {
	prefix, ok := referencePrefixes[txnType]
	if !ok {
		return "", fmt.Errorf("%w: transaction type %s has no structured reference prefix", apperrors.ErrValidation, txnType)
	}

	month := int(now.Month())
	year := now.Year()

	seq, err := uow.Sequences().NextSequence(ctx, locationID, txnType, month, year)
	if err != nil {
		return "", fmt.Errorf("failed to obtain next sequence for %s/%s: %w", locationID, txnType, err)
	}

	return fmt.Sprintf("%s%03d%02d%02d", prefix, seq, month, year%100), nil
}

// Parse inverts the structured format. It fails rather than guessing on
// malformed input.
func (s *sequenceService) Parse(referenceNumber string) (domain.ParsedReference, error) {
	m := referencePattern.FindStringSubmatch(referenceNumber)
	if m == nil {
		return domain.ParsedReference{}, fmt.Errorf("%w: reference number %q is not parseable", apperrors.ErrValidation, referenceNumber)
	}

	seq, _ := strconv.ParseInt(m[2], 10, 64)
	month, _ := strconv.Atoi(m[3])
	yy, _ := strconv.Atoi(m[4])

	if month < 1 || month > 12 {
		return domain.ParsedReference{}, fmt.Errorf("%w: reference number %q has invalid month %02d", apperrors.ErrValidation, referenceNumber, month)
	}

	return domain.ParsedReference{
		Type:     prefixTypes[m[1]],
		Sequence: seq,
		Month:    month,
		Year:     2000 + yy,
	}, nil
}

// IsStructuredReference reports whether a string matches the structured
// reference grammar. Used by the refnum binding validator.
func IsStructuredReference(referenceNumber string) bool {
	return referencePattern.MatchString(referenceNumber)
}
