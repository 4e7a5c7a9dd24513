package usecase

// PersistenceOutcome reports whether the local writes that follow a
// successful external side effect landed. The external call is never undone
// or retried on a local failure; the failure is logged for reconciliation and
// the caller still receives the external result. State self-heals on the next
// status check once reconciliation catches up.
type PersistenceOutcome struct {
	Failed bool   `json:"failed"`
	Reason string `json:"reason,omitempty"`
}

func persistenceOK() PersistenceOutcome {
	return PersistenceOutcome{}
}

func persistenceFailed(err error) PersistenceOutcome {
	return PersistenceOutcome{Failed: true, Reason: err.Error()}
}
