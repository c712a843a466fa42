package transcript

// RecordLayout is the positional field mapping for one roster document format.
// The published layout has drifted between rounds before; keeping the token
// positions in one table means a format change touches this file only.
type RecordLayout struct {
	FormatVersion string

	// Primary line token positions
	SequenceIndex    int
	SessionTimeIndex int
	FirstNameIndex   int
	LastNameIndex    int
	ConsentDateIndex int
	ScoreIndex       int
	TitleStartIndex  int
	TitleEndIndex    int
	MethodIndex      int

	// MinPrimaryTokens is the smallest primary line the layout can map.
	MinPrimaryTokens int

	// Continuation line shape: district first, then the health center name
	// spanning everything up to the last two tokens (unit code, consent
	// status).
	DistrictIndex         int
	TrailingTokens        int
	MinContinuationTokens int
	ConsentDateFormat     string
	DecimalComma          bool
}

// DefaultLayout matches the roster format published since the 2023 rounds.
var DefaultLayout = RecordLayout{
	FormatVersion: "2023",

	SequenceIndex:    0,
	SessionTimeIndex: 1,
	FirstNameIndex:   2,
	LastNameIndex:    3,
	ConsentDateIndex: 4,
	ScoreIndex:       5,
	TitleStartIndex:  6,
	TitleEndIndex:    7,
	MethodIndex:      8,
	MinPrimaryTokens: 9,

	DistrictIndex:         0,
	TrailingTokens:        2,
	MinContinuationTokens: 3,
	ConsentDateFormat:     "02.01.2006",
	DecimalComma:          true,
}
