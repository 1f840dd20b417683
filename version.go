/*
 * Copyright © 2025 Envitrack Systems Inc., All rights reserved.
 */

package entitydata

// Build identity, overridden by -ldflags at release time.
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)
