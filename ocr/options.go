package ocr

// SegmentationMode describes the page layout the engine should expect. Values
// mirror Tesseract page segmentation modes so they can be passed through
// unchanged by providers that speak PSM natively.
type SegmentationMode int

const (
	SegmentAuto         SegmentationMode = 3
	SegmentSingleColumn SegmentationMode = 4
	SegmentSingleBlock  SegmentationMode = 6
	SegmentSingleLine   SegmentationMode = 7
	SegmentSingleWord   SegmentationMode = 8
	SegmentSparseText   SegmentationMode = 11
)

// EngineMode selects the recognition backend variant inside the provider.
type EngineMode int

const (
	EngineDefault        EngineMode = iota // provider decides
	EngineLegacyOnly                       // legacy character models only
	EngineNeuralOnly                       // LSTM/neural models only
	EngineLegacyAndLSTM                    // both, provider arbitrates
)

// Options configures a single recognition request. It is an immutable value;
// all fields are comparable so two Options compare equal iff every field
// matches.
type Options struct {
	// Language selects the script family (legacy aliases are resolved via
	// Language.Script before reaching the pool).
	Language Language
	// Segmentation hints the expected text layout.
	Segmentation SegmentationMode
	// Engine selects the recognition backend variant.
	Engine EngineMode
	// PreserveSpaces keeps inter-word whitespace as reported by the engine
	// instead of collapsing runs.
	PreserveSpaces bool
	// Deskew requests small-angle rotation correction before recognition.
	Deskew bool
	// Whitelist, when non-empty, restricts recognition to these characters.
	Whitelist string
	// Blacklist, when non-empty, suppresses these characters.
	Blacklist string
}

// DefaultOptions returns the options used by a plain document scan: Latin
// script, automatic segmentation, provider-default engine.
func DefaultOptions() Options {
	return Options{Language: Latin, Segmentation: SegmentAuto}
}
