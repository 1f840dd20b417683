/*
 * Copyright © 2025 Envitrack Systems Inc., All rights reserved.
 */

// Package config loads runtime configuration from the environment, an
// optional .env file and an optional YAML table schema.
package config
