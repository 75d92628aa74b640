package excel

// ReaderConfig holds limits applied while reading an uploaded file
type ReaderConfig struct {
	// MaxBytes rejects larger inputs; 0 disables the check
	MaxBytes int64 `json:"max_bytes"`
	// Sheet selects an xlsx sheet by name; empty means the first sheet
	Sheet string `json:"sheet"`
}

// DefaultReaderConfig returns sensible defaults for upload processing
func DefaultReaderConfig() ReaderConfig {
	return ReaderConfig{
		MaxBytes: 200 << 20,
	}
}
