// Package domain contains the core entities of the learning-progress
// engine: sentence records and their merge rules, practice sessions, and
// the derived revision view. It stays independent of any specific
// infrastructure or delivery mechanism.
package domain
