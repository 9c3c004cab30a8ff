package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from AccountStatus
		to   AccountStatus
		ok   bool
	}{
		{StatusUnverified, StatusPendingApproval, true},
		{StatusPendingApproval, StatusActive, true},
		{StatusPendingApproval, StatusRejected, true},

		{StatusUnverified, StatusActive, false},
		{StatusUnverified, StatusRejected, false},
		{StatusPendingApproval, StatusUnverified, false},
		{StatusActive, StatusRejected, false},
		{StatusActive, StatusPendingApproval, false},
		{StatusRejected, StatusActive, false},
		{StatusRejected, StatusPendingApproval, false},
		{StatusActive, StatusActive, false},
		{AccountStatus("bogus"), StatusActive, false},
	}

	for _, tt := range tests {
		got := CanTransition(tt.from, tt.to)
		assert.Equal(t, tt.ok, got, "%s -> %s", tt.from, tt.to)
	}
}

func TestAccountStatusValid(t *testing.T) {
	for _, s := range []AccountStatus{StatusUnverified, StatusPendingApproval, StatusActive, StatusRejected} {
		assert.True(t, s.Valid(), "%s", s)
	}
	assert.False(t, AccountStatus("").Valid())
	assert.False(t, AccountStatus("banned").Valid())
}
