package utils

const BINLength = 12

// IsBINValid reports whether the string is a well-formed BIN: exactly 12
// digits. Unlike some national identifiers the BIN carries no check digits,
// so a plain digit test is the whole validation.
func IsBINValid(bin string) bool {
	if len(bin) != BINLength {
		return false
	}
	return IsOnlyNumbers(bin)
}

func IsOnlyNumbers(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return len(s) > 0
}
