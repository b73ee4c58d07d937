// Package utils provides common utility functions for the geosync application.
// It includes helper functions for type conversion of loosely typed record
// values and other shared logic that doesn't fit into domain-specific packages.
package utils
