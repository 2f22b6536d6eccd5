package models

import "testing"

func TestValidateOwnerConfig(t *testing.T) {
	tests := []struct {
		name      string
		typ       OwnershipType
		owners    []string
		threshold int
		wantErr   bool
	}{
		{
			name:    "single with one owner",
			typ:     OwnershipSingle,
			owners:  []string{"alice"},
			wantErr: false,
		},
		{
			name:    "single with no owners",
			typ:     OwnershipSingle,
			owners:  nil,
			wantErr: true,
		},
		{
			name:    "single with two owners",
			typ:     OwnershipSingle,
			owners:  []string{"alice", "bob"},
			wantErr: true,
		},
		{
			name:    "single with empty owner address",
			typ:     OwnershipSingle,
			owners:  []string{""},
			wantErr: true,
		},
		{
			name:      "multisig threshold within bounds",
			typ:       OwnershipMultiSig,
			owners:    []string{"alice", "bob", "carol"},
			threshold: 2,
			wantErr:   false,
		},
		{
			name:      "multisig threshold equals owner count",
			typ:       OwnershipMultiSig,
			owners:    []string{"alice", "bob"},
			threshold: 2,
			wantErr:   false,
		},
		{
			name:      "multisig threshold zero",
			typ:       OwnershipMultiSig,
			owners:    []string{"alice", "bob"},
			threshold: 0,
			wantErr:   true,
		},
		{
			name:      "multisig threshold above owner count",
			typ:       OwnershipMultiSig,
			owners:    []string{"alice", "bob"},
			threshold: 3,
			wantErr:   true,
		},
		{
			name:      "multisig duplicate owner",
			typ:       OwnershipMultiSig,
			owners:    []string{"alice", "alice"},
			threshold: 1,
			wantErr:   true,
		},
		{
			name:      "multisig no owners",
			typ:       OwnershipMultiSig,
			owners:    nil,
			threshold: 1,
			wantErr:   true,
		},
		{
			name:    "permissionless ignores owners and threshold",
			typ:     OwnershipPermissionless,
			owners:  nil,
			wantErr: false,
		},
		{
			name:    "unknown type",
			typ:     OwnershipType("timeshare"),
			owners:  []string{"alice"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOwnerConfig(tt.typ, tt.owners, tt.threshold)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateOwnerConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestIsOwner(t *testing.T) {
	page := &Page{Owners: []string{"alice", "bob"}}

	if !page.IsOwner("alice") {
		t.Error("expected alice to be an owner")
	}
	if page.IsOwner("mallory") {
		t.Error("expected mallory not to be an owner")
	}
	if (&Page{}).IsOwner("alice") {
		t.Error("expected no owners on an empty page")
	}
}
