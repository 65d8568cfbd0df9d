package error

// Error codes for the taxonomy this engine reports across package
// boundaries. HeapPage and HeapFile propagate these unchanged; BufferPool
// translates raw disk errors into PageWriteError/PageReadError at its
// boundary.
const (
	CodeNoSuchTable        = "NO_SUCH_TABLE"
	CodeNoSuchElement      = "NO_SUCH_ELEMENT"
	CodeSchemaMismatch     = "SCHEMA_MISMATCH"
	CodeNoEmptySlots       = "NO_EMPTY_SLOTS"
	CodeEmptySlot          = "EMPTY_SLOT"
	CodeNotOnPage          = "NOT_ON_PAGE"
	CodePageReadError      = "PAGE_READ_ERROR"
	CodePageWriteError     = "PAGE_WRITE_ERROR"
	CodeNoCleanVictim      = "NO_CLEAN_VICTIM"
	CodeTransactionAborted = "TRANSACTION_ABORTED"
	CodeUnsupportedOperator = "UNSUPPORTED_OPERATOR"
)

func NoSuchTable(detail string) *DBError {
	return &DBError{Code: CodeNoSuchTable, Category: ErrCategoryUser, Message: "no such table", Detail: detail, Stack: captureStack()}
}

func NoSuchElement(detail string) *DBError {
	return &DBError{Code: CodeNoSuchElement, Category: ErrCategoryUser, Message: "no such element", Detail: detail, Stack: captureStack()}
}

func SchemaMismatch(detail string) *DBError {
	return &DBError{Code: CodeSchemaMismatch, Category: ErrCategoryUser, Message: "schema mismatch", Detail: detail, Stack: captureStack()}
}

func NoEmptySlots(detail string) *DBError {
	return &DBError{Code: CodeNoEmptySlots, Category: ErrCategoryData, Message: "no empty slots", Detail: detail, Stack: captureStack()}
}

func EmptySlot(detail string) *DBError {
	return &DBError{Code: CodeEmptySlot, Category: ErrCategoryData, Message: "slot is empty", Detail: detail, Stack: captureStack()}
}

func NotOnPage(detail string) *DBError {
	return &DBError{Code: CodeNotOnPage, Category: ErrCategoryData, Message: "tuple is not on this page", Detail: detail, Stack: captureStack()}
}

func PageReadError(detail string, cause error) *DBError {
	return &DBError{Code: CodePageReadError, Category: ErrCategorySystem, Message: "page read failed", Detail: detail, Cause: cause, Stack: captureStack()}
}

func PageWriteError(detail string, cause error) *DBError {
	return &DBError{Code: CodePageWriteError, Category: ErrCategorySystem, Message: "page write failed", Detail: detail, Cause: cause, Stack: captureStack()}
}

func NoCleanVictim(detail string) *DBError {
	return &DBError{Code: CodeNoCleanVictim, Category: ErrCategorySystem, Message: "no clean victim to evict", Detail: detail, Stack: captureStack()}
}

func TransactionAborted(detail string) *DBError {
	return &DBError{Code: CodeTransactionAborted, Category: ErrCategoryConcurrency, Message: "transaction aborted", Detail: detail, Stack: captureStack()}
}

func UnsupportedOperator(detail string) *DBError {
	return &DBError{Code: CodeUnsupportedOperator, Category: ErrCategoryUser, Message: "unsupported operator", Detail: detail, Stack: captureStack()}
}

// Is reports whether err is a DBError with the given code.
func Is(err error, code string) bool {
	dbErr, ok := err.(*DBError)
	return ok && dbErr.Code == code
}
