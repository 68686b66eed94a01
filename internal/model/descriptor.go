package model

import "time"

// ModelDescriptor is a snapshot of one installed model as reported by the
// model runtime. Optional metadata is nil when the runtime did not report it.
type ModelDescriptor struct {
	Name          string     `json:"name"`
	SizeBytes     *int64     `json:"size_bytes,omitempty"`
	Family        *string    `json:"family,omitempty"`
	ParameterSize *string    `json:"parameter_size,omitempty"`
	ModifiedAt    *time.Time `json:"modified_at,omitempty"`
}

// SizeMB returns the model size in mebibytes. ok is false when the size is
// unknown or zero.
func (d ModelDescriptor) SizeMB() (mb float64, ok bool) {
	if d.SizeBytes == nil || *d.SizeBytes <= 0 {
		return 0, false
	}
	return float64(*d.SizeBytes) / (1024 * 1024), true
}

// Params returns the reported parameter size, or "" when absent.
func (d ModelDescriptor) Params() string {
	if d.ParameterSize == nil {
		return ""
	}
	return *d.ParameterSize
}

// StringPtr returns a pointer to s, or nil when s is empty.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Int64Ptr returns a pointer to n.
func Int64Ptr(n int64) *int64 {
	return &n
}
