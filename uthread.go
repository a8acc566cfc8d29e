package uthread

// Context is an opaque saved execution point. Only the Switcher that
// produced a Context can interpret it.
type Context interface{}

// Switcher is the execution-context primitive coroutines are built on.
type Switcher interface {
	// Capture returns a context standing for the calling flow. It becomes
	// meaningful once it is used as the save side of SwitchTo.
	Capture() Context

	// Prepare returns a context that starts running entry on its first
	// activation. When entry returns, control transfers to link.
	Prepare(entry func(), link Context) Context

	// SwitchTo saves the current flow into save and activates restore.
	// It returns once something switches back into save.
	SwitchTo(save, restore Context)

	// Discard releases a prepared context. A suspended context is unwound
	// (its deferred calls run) before Discard returns. Discarding a context
	// that never started or already finished is a no-op.
	Discard(ctx Context)
}
