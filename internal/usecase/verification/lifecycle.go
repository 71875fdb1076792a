package verification

import (
	domainShop "marketplace-backend/internal/domain/shop"
)

// Canonical verification flow. Admin actions are intentionally permissive
// (any action applies from any state, matching the moderation UI); this
// table documents the expected path and is used to flag non-canonical
// jumps in the audit log rather than to hard-reject them.
var canonicalTransitions = map[domainShop.VerificationStatus][]domainShop.VerificationStatus{
	domainShop.StatusPending: {
		domainShop.StatusUnderReview,
		domainShop.StatusVerified,
		domainShop.StatusRejected,
	},
	domainShop.StatusUnderReview: {
		domainShop.StatusVerified,
		domainShop.StatusRejected,
	},
	domainShop.StatusVerified: {
		domainShop.StatusSuspended,
		domainShop.StatusUnderReview,
	},
	domainShop.StatusRejected: {
		domainShop.StatusPending, // seller may re-request
		domainShop.StatusUnderReview,
	},
	domainShop.StatusSuspended: {
		domainShop.StatusUnderReview,
	},
}

// IsCanonicalTransition reports whether moving from current to next
// follows the documented verification flow.
func IsCanonicalTransition(current, next domainShop.VerificationStatus) bool {
	for _, allowed := range canonicalTransitions[current] {
		if next == allowed {
			return true
		}
	}
	return false
}

// AllowedTransitions returns the canonical next statuses.
func AllowedTransitions(current domainShop.VerificationStatus) []domainShop.VerificationStatus {
	return canonicalTransitions[current]
}
