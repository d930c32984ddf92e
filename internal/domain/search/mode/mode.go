package mode

// Mode is the matching policy applied to query tokens.
type Mode string

// Search mode constants.
const (
	// Any matches a field when any query token occurs in it (OR).
	Any Mode = "any"
	// All matches a field only when every query token occurs in it (AND).
	All Mode = "all"
	// Phrase matches the whole query as one contiguous substring.
	Phrase Mode = "phrase"
)

// IsValid checks if the mode is one of the supported values.
func (m Mode) IsValid() bool {
	return m == Any || m == All || m == Phrase
}
