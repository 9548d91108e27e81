package errors

import "errors"

// ErrOptimisticLock means the row changed between read and write (version mismatch).
var ErrOptimisticLock = errors.New("record was modified by another operation, reload and retry")

// ErrLockBusy means a resource lock could not be acquired before the wait expired.
var ErrLockBusy = errors.New("resource is locked by another operation")
