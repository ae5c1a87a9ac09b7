package domain_test

import (
	"testing"

	"github.com/pardisoft/docflow_app/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitialStatus(t *testing.T) {
	tests := []struct {
		name    string
		docType domain.DocumentType
		want    domain.ApprovalStatus
	}{
		{"temp proforma starts pending", domain.TempProforma, domain.StatusPending},
		{"proforma starts approved", domain.Proforma, domain.StatusApproved},
		{"invoice starts approved", domain.Invoice, domain.StatusApproved},
		{"return invoice starts approved", domain.ReturnInvoice, domain.StatusApproved},
		{"receipt starts approved", domain.Receipt, domain.StatusApproved},
		{"other starts approved", domain.Other, domain.StatusApproved},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.InitialStatus(tt.docType))
		})
	}
}

func TestRequiresApproval(t *testing.T) {
	assert.True(t, domain.RequiresApproval(domain.TempProforma))
	assert.False(t, domain.RequiresApproval(domain.Proforma))
	assert.False(t, domain.RequiresApproval(domain.Invoice))
	assert.False(t, domain.RequiresApproval(domain.Other))
}

func TestCanConvert(t *testing.T) {
	tests := []struct {
		name string
		from domain.DocumentType
		to   domain.DocumentType
		want bool
	}{
		{"temp proforma to proforma", domain.TempProforma, domain.Proforma, true},
		{"proforma to invoice", domain.Proforma, domain.Invoice, true},
		{"invoice to return invoice", domain.Invoice, domain.ReturnInvoice, true},
		{"invoice to proforma is backwards", domain.Invoice, domain.Proforma, false},
		{"temp proforma cannot skip to invoice", domain.TempProforma, domain.Invoice, false},
		{"return invoice is terminal", domain.ReturnInvoice, domain.Receipt, false},
		{"receipt has no conversions", domain.Receipt, domain.Invoice, false},
		{"other has no conversions", domain.Other, domain.Invoice, false},
		{"nothing converts to temp proforma", domain.Proforma, domain.TempProforma, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.CanConvert(tt.from, tt.to))
		})
	}
}

func TestAllowedNextTypes(t *testing.T) {
	assert.Equal(t, []domain.DocumentType{domain.Proforma}, domain.AllowedNextTypes(domain.TempProforma))
	assert.Equal(t, []domain.DocumentType{domain.Invoice}, domain.AllowedNextTypes(domain.Proforma))
	assert.Equal(t, []domain.DocumentType{domain.ReturnInvoice}, domain.AllowedNextTypes(domain.Invoice))
	assert.Empty(t, domain.AllowedNextTypes(domain.ReturnInvoice))
	assert.Empty(t, domain.AllowedNextTypes(domain.Receipt))
	assert.Empty(t, domain.AllowedNextTypes(domain.Other))
}

func TestNextDocumentNumber(t *testing.T) {
	strPtr := func(s string) *string { return &s }

	tests := []struct {
		name    string
		docType domain.DocumentType
		year    int
		latest  *string
		want    string
		wantErr bool
	}{
		{"first invoice of the year", domain.Invoice, 2025, nil, "INV-2025-000001", false},
		{"increments existing sequence", domain.Invoice, 2025, strPtr("INV-2025-000041"), "INV-2025-000042", false},
		{"temp proforma prefix", domain.TempProforma, 2025, nil, "TMP-2025-000001", false},
		{"proforma prefix", domain.Proforma, 2024, strPtr("PRF-2024-000009"), "PRF-2024-000010", false},
		{"zero padding preserved past six digits rollover", domain.Receipt, 2025, strPtr("RCP-2025-000999"), "RCP-2025-001000", false},
		{"latest from wrong year rejected", domain.Invoice, 2025, strPtr("INV-2024-000010"), "", true},
		{"latest with wrong prefix rejected", domain.Invoice, 2025, strPtr("PRF-2025-000010"), "", true},
		{"malformed sequence rejected", domain.Invoice, 2025, strPtr("INV-2025-abc"), "", true},
		{"unknown type rejected", domain.DocumentType("BOGUS"), 2025, nil, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := domain.NextDocumentNumber(tt.docType, tt.year, tt.latest)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUserCapabilities(t *testing.T) {
	admin := domain.User{Role: domain.RoleAdmin}
	manager := domain.User{Role: domain.RoleManager}
	staff := domain.User{Role: domain.RoleStaff}

	assert.True(t, admin.CanApprove())
	assert.True(t, admin.CanAdminister())
	assert.True(t, manager.CanApprove())
	assert.False(t, manager.CanAdminister())
	assert.False(t, staff.CanApprove())
	assert.False(t, staff.CanAdminister())
}
