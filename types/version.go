package types

// Version is the canonical project version.
// The CLI and the scan-completed event shape share this version.
const Version = "0.1.0"
