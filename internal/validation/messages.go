package validation

const (
	MsgEmailRequired = "Email is required"
	MsgEmailInvalid  = "Email is invalid"

	MsgUsernameRequired = "Username is required"
	MsgUsernameBlank    = "Username must not be blank"
	MsgUsernameTooShort = "Username must be at least 3 characters"
	MsgUsernameTooLong  = "Username must not exceed 50 characters"
	MsgUsernameCharset  = "Username must contain only letters, digits, and ._-"

	MsgPasswordRequired    = "Password is required"
	MsgPasswordTooShort    = "Password must be at least 6 characters"
	MsgPasswordTooLongFmt  = "Password must not exceed %d characters"
	MsgPasswordComposition = "Password must contain both letters and numbers"

	MsgConfirmRequired = "Please confirm your password"
	MsgConfirmMismatch = "Passwords do not match"

	MsgProductNameRequired    = "Product name is required"
	MsgProductNameTooShortFmt = "Product name must be at least %d characters"
	MsgProductNameTooLong     = "Product name must not exceed 100 characters"

	MsgDescriptionTooLong = "Description must not exceed 500 characters"

	MsgPriceRequired = "Price is required"
	MsgPriceNaN      = "Price must be a number"
	MsgPriceNegative = "Price must not be negative"
	MsgPriceTooLarge = "Price must not exceed 1 billion"

	MsgQuantityRequired   = "Quantity is required"
	MsgQuantityNotInteger = "Quantity must be a whole number"
	MsgQuantityNegative   = "Quantity must not be negative"
	MsgQuantityTooLarge   = "Quantity must not exceed 1 million"

	MsgCategoryRequired = "Category is required"
	MsgCategoryInvalid  = "Category is invalid"
)
