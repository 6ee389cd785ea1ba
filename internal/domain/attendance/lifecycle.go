package attendance

// Lifecycle is the record's mutation state machine:
//
//	draft -> auto_reconciled -> pending_review -> verified
//
// Automated reconciliation may only write records up to auto_reconciled.
// Admins move records forward; verified is terminal except for an
// explicit reopen back to pending_review.
type Lifecycle string

const (
	LifecycleDraft          Lifecycle = "draft"
	LifecycleAutoReconciled Lifecycle = "auto_reconciled"
	LifecyclePendingReview  Lifecycle = "pending_review"
	LifecycleVerified       Lifecycle = "verified"
)

var lifecycleTransitions = map[Lifecycle][]Lifecycle{
	LifecycleDraft:          {LifecycleAutoReconciled},
	LifecycleAutoReconciled: {LifecyclePendingReview, LifecycleVerified},
	LifecyclePendingReview:  {LifecycleAutoReconciled, LifecycleVerified},
	LifecycleVerified:       {LifecyclePendingReview},
}

// CanTransition reports whether moving from l to next is a permitted
// lifecycle transition.
func (l Lifecycle) CanTransition(next Lifecycle) bool {
	for _, allowed := range lifecycleTransitions[l] {
		if allowed == next {
			return true
		}
	}
	return false
}
