package constvars

const (
	RegexContainAtLeastOneSpecialChar = `.*[!@#$%^&*(),.?":{}|<>].*`
	RegexContainAtLeastOneUppercase   = `.*[A-Z].*`
	RegexContainAtLeastOneDigit       = `.*\d.*`
	RegexPhoneNumberGeneral           = `^\+[1-9]\d{9,14}$`
	// Kenyan local numbers are accepted alongside E.164, e.g. 0712345678.
	RegexKenyaPhoneNumberLocal = `^0[17]\d{8}$`
	RegexNationalID            = `^[A-Za-z0-9]{6,12}$`
	RegexObjectIDHex           = `^[0-9a-fA-F]{24}$`
)
