package skiplist

// Test hooks (kept separate so instrumentation doesn't clutter logic).
// They must only touch the list through its normal atomic operations.
var (
	// snipCASHook runs right before find attempts to snip a marked node.
	snipCASHook func(level int, pred, curr any)

	// insertCASHook runs right before Set attempts its level-0 insert CAS.
	insertCASHook func(pred, succ any)

	// deleteCommitHook runs right before Delete attempts the level-0 mark.
	deleteCommitHook func(target any)
)
