// Package domain holds the error kinds, security levels and service interfaces
// shared by every other package.
package domain
