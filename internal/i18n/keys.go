// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeySuccess = "success"
	KeyError   = "error"

	// Authentication
	KeyAuthRequired      = "auth.required"
	KeyAuthInvalidToken  = "auth.invalid_token"
	KeyAuthTokenExpired  = "auth.token_expired"
	KeyAdminAccessDenied = "admin.access_denied"
	KeyRateLimitExceeded = "rate_limit.exceeded"

	// Assets
	KeyAssetCreated       = "asset.created"
	KeyAssetUpdated       = "asset.updated"
	KeyAssetNotFound      = "asset.not_found"
	KeyAssetSubmitted     = "asset.submitted"
	KeyAssetSigned        = "asset.signed"
	KeyAssetAlreadySigned = "asset.already_signed"
	KeyAssetRejected      = "asset.rejected"

	// Equity
	KeyShareholderAdded  = "equity.shareholder_added"
	KeyOptionsGranted    = "equity.options_granted"
	KeyPoolResized       = "equity.pool_resized"
	KeyPoolExhausted     = "equity.pool_exhausted"
	KeyInvalidShareCount = "equity.invalid_share_count"

	// Employees
	KeyEmployeeCreated  = "employee.created"
	KeyEmployeeNotFound = "employee.not_found"

	// Ledger
	KeyContractRecorded = "ledger.contract_recorded"
	KeyReceiptRecorded  = "ledger.receipt_recorded"
	KeyInvalidAmount    = "ledger.invalid_amount"

	// Engine errors
	KeyNotFound          = "error.not_found"
	KeyInvalidTransition = "error.invalid_transition"
	KeyPermissionDenied  = "error.permission_denied"
	KeyStorageFailure    = "error.storage_failure"

	// Validation
	KeyValidationRequired = "validation.required"
	KeyValidationInvalid  = "validation.invalid"
)
