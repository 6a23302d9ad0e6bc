package classifier

// SpamLabel is the raw dataset label of the positive class
const SpamLabel = "spam"

// ToLabel maps a raw dataset label to the boolean class label.
// Only the exact, case-sensitive "spam" is positive.
func ToLabel(rawLabel string) bool {
	return rawLabel == SpamLabel
}
