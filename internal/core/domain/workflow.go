package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// The conversion graph is strictly linear and fixed. Types absent from the
// map cannot be converted any further.
var conversionGraph = map[DocumentType][]DocumentType{
	TempProforma: {Proforma},
	Proforma:     {Invoice},
	Invoice:      {ReturnInvoice},
}

// numberPrefixes maps each document type to its document number prefix.
var numberPrefixes = map[DocumentType]string{
	TempProforma:  "TMP",
	Proforma:      "PRF",
	Invoice:       "INV",
	ReturnInvoice: "RET",
	Receipt:       "RCP",
	Other:         "OTH",
}

// IsValidDocumentType reports whether t is a known document type.
func IsValidDocumentType(t DocumentType) bool {
	_, ok := numberPrefixes[t]
	return ok
}

// RequiresApproval reports whether documents of type t must be explicitly
// approved before anything may be built on top of them.
func RequiresApproval(t DocumentType) bool {
	return t == TempProforma
}

// InitialStatus returns the approval status a freshly created document of
// type t is born with. Only TEMP_PROFORMA starts PENDING; every other type
// is born already approved.
func InitialStatus(t DocumentType) ApprovalStatus {
	if RequiresApproval(t) {
		return StatusPending
	}
	return StatusApproved
}

// AllowedNextTypes returns the document types reachable by conversion from t.
func AllowedNextTypes(t DocumentType) []DocumentType {
	return conversionGraph[t]
}

// CanConvert reports whether a document of type from may be converted to to.
func CanConvert(from, to DocumentType) bool {
	for _, next := range conversionGraph[from] {
		if next == to {
			return true
		}
	}
	return false
}

// NumberPrefix returns the document number prefix for t (e.g. INV).
func NumberPrefix(t DocumentType) string {
	return numberPrefixes[t]
}

// NextDocumentNumber composes the next document number in the
// {PREFIX}-{YEAR}-{SEQ:6} sequence. latest is the greatest existing number
// for the same prefix and year, or nil when the sequence is empty.
func NextDocumentNumber(t DocumentType, year int, latest *string) (string, error) {
	prefix, ok := numberPrefixes[t]
	if !ok {
		return "", fmt.Errorf("unknown document type %q", t)
	}
	seq := 1
	if latest != nil {
		expected := fmt.Sprintf("%s-%d-", prefix, year)
		rest, found := strings.CutPrefix(*latest, expected)
		if !found {
			return "", fmt.Errorf("document number %q does not match sequence %s", *latest, expected)
		}
		lastSeq, err := strconv.Atoi(rest)
		if err != nil {
			return "", fmt.Errorf("document number %q has malformed sequence: %w", *latest, err)
		}
		seq = lastSeq + 1
	}
	return fmt.Sprintf("%s-%d-%06d", prefix, year, seq), nil
}
