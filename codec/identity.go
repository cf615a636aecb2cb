package codec

// Identity is a FormatChecker that accepts every string, the baseline the
// teacher's Identity codec provided for a transformation that performs no
// work: useful as an explicit "format is declared but deliberately
// unenforced" entry in a schema.CompileOptions.FormatCheckers map, distinct
// from simply omitting the format name (which also leaves it unenforced,
// but without recording that the omission was intentional).
func Identity(s string) bool { return true }
